package database

import (
	"context"

	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tracerID = "encore-database"

// toggle flips a (parent, user) join row and keeps the parent's counter in step.
type toggle struct {
	row      any            // fresh join row, used for both the delete and the insert
	match    map[string]any // columns identifying the pair
	parent   any            // parent model holding the counter
	parentID any
	counter  string // empty when the interaction has no counter
}

// run reports the new state and whether this call changed anything. A lost
// insert race (another request inserted the same pair first) leaves the
// counter untouched, so the counter only ever moves with a real row change.
func (t toggle) run(tx *gorm.DB) (active bool, changed bool, err error) {
	res := tx.Where(t.match).Delete(t.row)
	if res.Error != nil {
		return false, false, res.Error
	}

	if res.RowsAffected > 0 {
		return false, true, t.bump(tx, -int(res.RowsAffected))
	}

	res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(t.row)
	if res.Error != nil {
		return false, false, res.Error
	}

	if res.RowsAffected == 0 {
		return true, false, nil
	}

	return true, true, t.bump(tx, 1)
}

func (t toggle) bump(tx *gorm.DB, delta int) error {
	if t.counter == "" {
		return nil
	}

	return bumpCounter(tx, t.parent, t.parentID, t.counter, delta)
}

func bumpCounter(tx *gorm.DB, model any, id any, column string, delta int) error {
	return tx.Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).
		Error
}

func counterValue(tx *gorm.DB, model any, id any, column string) (int, error) {
	var n int
	err := tx.Model(model).Select(column).Where("id = ?", id).Scan(&n).Error
	return n, err
}

// ToggleReviewLike likes or unlikes a review and notifies the author on like.
func ToggleReviewLike(ctx context.Context, reviewID uuid.UUID, userID string) (liked bool, count int, err error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "ToggleReviewLike")
	defer span.End()

	err = state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review types.Review
		if err := tx.Select("id", "author_id").First(&review, "id = ?", reviewID).Error; err != nil {
			return notFound(err)
		}

		active, changed, err := toggle{
			row:      &types.ReviewLike{ReviewID: reviewID, UserID: userID},
			match:    map[string]any{"review_id": reviewID, "user_id": userID},
			parent:   &types.Review{},
			parentID: reviewID,
			counter:  "like_count",
		}.run(tx)
		if err != nil {
			return err
		}

		liked = active

		if changed {
			delta := 1
			if !active {
				delta = -1
			}

			if err := bumpCounter(tx, &types.User{}, review.AuthorID, "total_likes_received", delta); err != nil {
				return err
			}

			if active {
				if err := notifyReviewLiked(tx, reviewID, userID); err != nil {
					return err
				}
			}
		}

		count, err = counterValue(tx, &types.Review{}, reviewID, "like_count")
		return err
	})

	return liked, count, err
}

func ToggleReviewBookmark(ctx context.Context, reviewID uuid.UUID, userID string) (bool, error) {
	var bookmarked bool

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reviewExists(tx, reviewID); err != nil {
			return err
		}

		active, _, err := toggle{
			row:   &types.ReviewBookmark{ReviewID: reviewID, UserID: userID},
			match: map[string]any{"review_id": reviewID, "user_id": userID},
		}.run(tx)

		bookmarked = active
		return err
	})

	return bookmarked, err
}

func ToggleReviewHelpful(ctx context.Context, reviewID uuid.UUID, userID string) (helpful bool, count int, err error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "ToggleReviewHelpful")
	defer span.End()

	err = state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reviewExists(tx, reviewID); err != nil {
			return err
		}

		active, _, err := toggle{
			row:      &types.ReviewHelpful{ReviewID: reviewID, UserID: userID},
			match:    map[string]any{"review_id": reviewID, "user_id": userID},
			parent:   &types.Review{},
			parentID: reviewID,
			counter:  "helpful_count",
		}.run(tx)
		if err != nil {
			return err
		}

		helpful = active
		count, err = counterValue(tx, &types.Review{}, reviewID, "helpful_count")
		return err
	})

	return helpful, count, err
}

// ToggleDiaryLike likes or unlikes a diary. Private diaries are only visible to
// their author, so anyone else gets ErrNotFound.
func ToggleDiaryLike(ctx context.Context, diaryID uuid.UUID, userID string) (liked bool, count int, err error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "ToggleDiaryLike")
	defer span.End()

	err = state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		diary, err := visibleDiary(tx, diaryID, userID)
		if err != nil {
			return err
		}

		active, changed, err := toggle{
			row:      &types.DiaryLike{DiaryID: diaryID, UserID: userID},
			match:    map[string]any{"diary_id": diaryID, "user_id": userID},
			parent:   &types.MusicDiary{},
			parentID: diaryID,
			counter:  "like_count",
		}.run(tx)
		if err != nil {
			return err
		}

		liked = active

		if changed {
			delta := 1
			if !active {
				delta = -1
			}

			if err := bumpCounter(tx, &types.User{}, diary.AuthorID, "total_likes_received", delta); err != nil {
				return err
			}

			if active {
				if err := notifyDiaryLiked(tx, diaryID, userID); err != nil {
					return err
				}
			}
		}

		count, err = counterValue(tx, &types.MusicDiary{}, diaryID, "like_count")
		return err
	})

	return liked, count, err
}

func ToggleDiarySave(ctx context.Context, diaryID uuid.UUID, userID string) (bool, error) {
	var saved bool

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := visibleDiary(tx, diaryID, userID); err != nil {
			return err
		}

		active, _, err := toggle{
			row:   &types.DiarySave{DiaryID: diaryID, UserID: userID},
			match: map[string]any{"diary_id": diaryID, "user_id": userID},
		}.run(tx)

		saved = active
		return err
	})

	return saved, err
}

// ToggleFollow follows or unfollows a user and notifies them on follow.
func ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	var following bool

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&types.User{}).Where("id = ?", followingID).Count(&n).Error; err != nil {
			return err
		}

		if n == 0 {
			return ErrNotFound
		}

		active, changed, err := toggle{
			row:   &types.Follow{FollowerID: followerID, FollowingID: followingID},
			match: map[string]any{"follower_id": followerID, "following_id": followingID},
		}.run(tx)
		if err != nil {
			return err
		}

		following = active

		if active && changed {
			return notifyFollowed(tx, followingID, followerID)
		}

		return nil
	})

	return following, err
}

func reviewExists(tx *gorm.DB, reviewID uuid.UUID) error {
	var n int64
	if err := tx.Model(&types.Review{}).Where("id = ?", reviewID).Count(&n).Error; err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// visibleDiary loads a diary the viewer may see.
func visibleDiary(tx *gorm.DB, diaryID uuid.UUID, viewerID string) (*types.MusicDiary, error) {
	var diary types.MusicDiary
	if err := tx.First(&diary, "id = ?", diaryID).Error; err != nil {
		return nil, notFound(err)
	}

	if !diary.IsPublic && diary.AuthorID != viewerID {
		return nil, ErrNotFound
	}

	return &diary, nil
}
