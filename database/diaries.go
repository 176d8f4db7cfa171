package database

import (
	"context"

	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

type DiaryFilter struct {
	AuthorID string
	EventID  *uuid.UUID
	Scope    Scope
	SavedBy  string
	ViewerID string
}

func CreateDiary(ctx context.Context, authorID string, in types.CreateDiary) (*types.MusicDiary, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "CreateDiary")
	defer span.End()

	diary := types.MusicDiary{
		AuthorID:   authorID,
		EventID:    in.EventID,
		Caption:    in.Caption,
		Location:   in.Location,
		MediaItems: in.MediaItems,
		Artists:    nonNil(in.Artists),
		Setlist:    nonNil(in.Setlist),
		MomentTags: nonNil(in.MomentTags),
		Mood:       in.Mood,
		IsPublic:   true,
	}

	if in.IsPublic != nil {
		diary.IsPublic = *in.IsPublic
	}

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := eventExists(tx, in.EventID); err != nil {
			return err
		}

		if err := tx.Create(&diary).Error; err != nil {
			return err
		}

		return tx.Preload("Author").Preload("Event").First(&diary, "id = ?", diary.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if diary.IsPublic {
		bumpTrendingTags(ctx, diary.MomentTags)
	}

	return &diary, nil
}

func UpdateDiary(ctx context.Context, diaryID uuid.UUID, actorID string, in types.CreateDiary) (*types.MusicDiary, error) {
	var diary types.MusicDiary

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&diary, "id = ?", diaryID).Error; err != nil {
			return notFound(err)
		}

		if diary.AuthorID != actorID {
			return ErrForbidden
		}

		if err := eventExists(tx, in.EventID); err != nil {
			return err
		}

		isPublic := diary.IsPublic
		if in.IsPublic != nil {
			isPublic = *in.IsPublic
		}

		err := tx.Model(&diary).
			Select("event_id", "caption", "location", "media_items", "artists", "setlist", "moment_tags", "mood", "is_public", "updated_at").
			Updates(types.MusicDiary{
				EventID:    in.EventID,
				Caption:    in.Caption,
				Location:   in.Location,
				MediaItems: in.MediaItems,
				Artists:    nonNil(in.Artists),
				Setlist:    nonNil(in.Setlist),
				MomentTags: nonNil(in.MomentTags),
				Mood:       in.Mood,
				IsPublic:   isPublic,
			}).Error
		if err != nil {
			return err
		}

		return tx.Preload("Author").Preload("Event").First(&diary, "id = ?", diaryID).Error
	})
	if err != nil {
		return nil, err
	}

	return &diary, nil
}

func DeleteDiary(ctx context.Context, diaryID uuid.UUID, actorID string, isAdmin bool) error {
	return state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var diary types.MusicDiary
		if err := tx.Select("id", "author_id").First(&diary, "id = ?", diaryID).Error; err != nil {
			return notFound(err)
		}

		if diary.AuthorID != actorID && !isAdmin {
			return ErrForbidden
		}

		return deleteDiaries(tx, []types.MusicDiary{diary})
	})
}

func deleteDiaries(tx *gorm.DB, diaries []types.MusicDiary) error {
	if len(diaries) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(diaries))
	authors := map[string]struct{}{}
	for _, d := range diaries {
		ids = append(ids, d.ID)
		authors[d.AuthorID] = struct{}{}
	}

	for _, child := range []any{&types.DiaryLike{}, &types.DiarySave{}, &types.DiaryComment{}} {
		if err := tx.Where("diary_id IN ?", ids).Delete(child).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("id IN ?", ids).Delete(&types.MusicDiary{}).Error; err != nil {
		return err
	}

	authorIDs := make([]string, 0, len(authors))
	for id := range authors {
		authorIDs = append(authorIDs, id)
	}

	return reconcileUsers(tx, authorIDs)
}

// GetDiary loads a diary the viewer may see and counts the read as a view
// unless the viewer wrote it. viewerKey identifies anonymous readers.
func GetDiary(ctx context.Context, diaryID uuid.UUID, viewerID, viewerKey string) (*types.DiaryView, error) {
	db := state.Pool.WithContext(ctx)

	diary, err := visibleDiary(db.Preload("Author").Preload("Event"), diaryID, viewerID)
	if err != nil {
		return nil, err
	}

	if diary.AuthorID != viewerID {
		if _, err := RecordDiaryView(ctx, diary, viewerKey); err != nil {
			return nil, err
		}
	}

	views, err := diaryViews(db, []types.MusicDiary{*diary}, viewerID)
	if err != nil {
		return nil, err
	}

	return &views[0], nil
}

// ListDiaries returns public diaries plus the viewer's own private ones.
func ListDiaries(ctx context.Context, filter DiaryFilter, p PageRequest) (types.DiaryPage, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "ListDiaries")
	defer span.End()

	db := state.Pool.WithContext(ctx)
	q := db.Model(&types.MusicDiary{}).Preload("Author").Preload("Event")

	if filter.ViewerID != "" {
		q = q.Where("(music_diaries.is_public = ? OR music_diaries.author_id = ?)", true, filter.ViewerID)
	} else {
		q = q.Where("music_diaries.is_public = ?", true)
	}

	if filter.AuthorID != "" {
		q = q.Where("music_diaries.author_id = ?", filter.AuthorID)
	}

	if filter.EventID != nil {
		q = q.Where("music_diaries.event_id = ?", *filter.EventID)
	}

	if filter.SavedBy != "" {
		q = q.Where("music_diaries.id IN (?)", db.Model(&types.DiarySave{}).Select("diary_id").Where("user_id = ?", filter.SavedBy))
	}

	if filter.Scope == ScopeFollowing {
		if filter.ViewerID == "" {
			return types.DiaryPage{}, ErrUnauthorized
		}

		q = q.Where("music_diaries.author_id IN (?)", followingSubquery(db, filter.ViewerID))
	}

	q, err := p.paginate(q, "music_diaries")
	if err != nil {
		return types.DiaryPage{}, err
	}

	var rows []types.MusicDiary
	if err := q.Find(&rows).Error; err != nil {
		return types.DiaryPage{}, err
	}

	page := finish(p, rows, diaryKey)

	views, err := diaryViews(db, page.Items, filter.ViewerID)
	if err != nil {
		return types.DiaryPage{}, err
	}

	return types.DiaryPage{Items: views, NextCursor: page.NextCursor}, nil
}

func diaryViews(db *gorm.DB, diaries []types.MusicDiary, viewerID string) ([]types.DiaryView, error) {
	views := make([]types.DiaryView, len(diaries))
	for i := range diaries {
		views[i] = types.DiaryView{MusicDiary: diaries[i]}
	}

	if viewerID == "" || len(diaries) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(diaries))
	for i := range diaries {
		ids[i] = diaries[i].ID
	}

	var liked, saved []uuid.UUID
	if err := db.Model(&types.DiaryLike{}).Where("user_id = ? AND diary_id IN ?", viewerID, ids).Pluck("diary_id", &liked).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&types.DiarySave{}).Where("user_id = ? AND diary_id IN ?", viewerID, ids).Pluck("diary_id", &saved).Error; err != nil {
		return nil, err
	}

	likedSet := make(map[uuid.UUID]bool, len(liked))
	for _, id := range liked {
		likedSet[id] = true
	}

	savedSet := make(map[uuid.UUID]bool, len(saved))
	for _, id := range saved {
		savedSet[id] = true
	}

	for i := range views {
		views[i].Liked = likedSet[views[i].ID]
		views[i].Saved = savedSet[views[i].ID]
	}

	return views, nil
}
