package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdentityUser is the subset of an identity provider user record we keep.
type IdentityUser struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
	AvatarURL   string
	IsAdmin     bool
}

func GetUser(ctx context.Context, id string) (*types.User, error) {
	var u types.User
	if err := state.Pool.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	return &u, nil
}

// GetProfile loads a user by username with follow counts from the viewer's side.
func GetProfile(ctx context.Context, username, viewerID string) (*types.UserProfile, error) {
	db := state.Pool.WithContext(ctx)

	var p types.UserProfile
	if err := db.First(&p.User, "username = ?", username).Error; err != nil {
		return nil, notFound(err)
	}

	if err := db.Model(&types.Follow{}).Where("following_id = ?", p.ID).Count(&p.FollowerCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&types.Follow{}).Where("follower_id = ?", p.ID).Count(&p.FollowingCount).Error; err != nil {
		return nil, err
	}

	if viewerID != "" && viewerID != p.ID {
		var n int64
		err := db.Model(&types.Follow{}).
			Where("follower_id = ? AND following_id = ?", viewerID, p.ID).
			Count(&n).Error
		if err != nil {
			return nil, err
		}

		p.Following = n > 0
	}

	return &p, nil
}

func UpdateProfile(ctx context.Context, userID string, in types.UpdateProfile) (*types.User, error) {
	var u types.User

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			return notFound(err)
		}

		err := tx.Model(&u).
			Select("username", "display_name", "bio", "avatar_url", "updated_at").
			Updates(types.User{
				Username:    in.Username,
				DisplayName: in.DisplayName,
				Bio:         in.Bio,
				AvatarURL:   in.AvatarURL,
			}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: username %q is taken", ErrInvalidInput, in.Username)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func SetAdmin(ctx context.Context, userID string, isAdmin bool) (*types.User, error) {
	var u types.User

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			return notFound(err)
		}

		u.IsAdmin = isAdmin
		return tx.Model(&u).UpdateColumn("is_admin", isAdmin).Error
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

type followDirection int

const (
	followers followDirection = iota
	following
)

func listFollows(ctx context.Context, username string, dir followDirection, p PageRequest) (types.UserPage, error) {
	p.Sort = SortRecent

	db := state.Pool.WithContext(ctx)

	var u types.User
	if err := db.Select("id").First(&u, "username = ?", username).Error; err != nil {
		return types.UserPage{}, notFound(err)
	}

	q := db.Model(&types.Follow{})
	if dir == followers {
		q = q.Where("following_id = ?", u.ID)
	} else {
		q = q.Where("follower_id = ?", u.ID)
	}

	q, err := p.paginate(q, "follows")
	if err != nil {
		return types.UserPage{}, err
	}

	var rows []types.Follow
	if err := q.Find(&rows).Error; err != nil {
		return types.UserPage{}, err
	}

	page := finish(p, rows, func(f types.Follow) (int, time.Time, uuid.UUID) {
		return 0, f.CreatedAt, f.ID
	})

	ids := make([]string, len(page.Items))
	for i, f := range page.Items {
		if dir == followers {
			ids[i] = f.FollowerID
		} else {
			ids[i] = f.FollowingID
		}
	}

	var users []types.User
	if len(ids) > 0 {
		if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return types.UserPage{}, err
		}
	}

	byID := make(map[string]types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := types.UserPage{Items: make([]types.User, 0, len(ids)), NextCursor: page.NextCursor}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out.Items = append(out.Items, u)
		}
	}

	return out, nil
}

func ListFollowers(ctx context.Context, username string, p PageRequest) (types.UserPage, error) {
	return listFollows(ctx, username, followers, p)
}

func ListFollowing(ctx context.Context, username string, p PageRequest) (types.UserPage, error) {
	return listFollows(ctx, username, following, p)
}

// usernameFor picks a username for a new identity: the provider's username, the
// email's local part or the id, in that order.
func usernameFor(u IdentityUser) string {
	if u.Username != "" {
		return u.Username
	}

	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}

	return u.ID
}

// UpsertUser creates or refreshes a user from the identity provider. Counters
// and reviewer level are never touched. A taken username gets a short suffix.
func UpsertUser(ctx context.Context, in IdentityUser) (*types.User, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UpsertUser")
	defer span.End()

	var u types.User

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		username := usernameFor(in)

		var taken int64
		if err := tx.Model(&types.User{}).Where("username = ? AND id <> ?", username, in.ID).Count(&taken).Error; err != nil {
			return err
		}

		if taken > 0 {
			suffix := strings.ReplaceAll(in.ID, "user_", "")
			if len(suffix) > 6 {
				suffix = suffix[len(suffix)-6:]
			}

			username = username + "_" + strings.ToLower(suffix)
		}

		u = types.User{
			ID:          in.ID,
			Username:    username,
			DisplayName: in.DisplayName,
			AvatarURL:   in.AvatarURL,
			IsAdmin:     in.IsAdmin,
		}

		if in.Email != "" {
			email := in.Email
			u.Email = &email
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "display_name", "avatar_url", "is_admin", "updated_at"}),
		}).Create(&u).Error
		if err != nil {
			return err
		}

		return tx.First(&u, "id = ?", in.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// DeleteUser removes a user and all of their content, then recomputes every
// counter their interactions contributed to.
func DeleteUser(ctx context.Context, userID string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "DeleteUser")
	defer span.End()

	return state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reviews []types.Review
		if err := tx.Select("id", "author_id").Where("author_id = ?", userID).Find(&reviews).Error; err != nil {
			return err
		}

		if err := deleteReviews(tx, reviews); err != nil {
			return err
		}

		var diaries []types.MusicDiary
		if err := tx.Select("id", "author_id").Where("author_id = ?", userID).Find(&diaries).Error; err != nil {
			return err
		}

		if err := deleteDiaries(tx, diaries); err != nil {
			return err
		}

		// Parents this user interacted with, so their counters can be recomputed.
		var reviewIDs, diaryIDs []uuid.UUID
		for _, m := range []any{&types.ReviewLike{}, &types.ReviewHelpful{}, &types.Comment{}} {
			col := "user_id"
			if _, ok := m.(*types.Comment); ok {
				col = "author_id"
			}

			var ids []uuid.UUID
			if err := tx.Model(m).Where(col+" = ?", userID).Distinct().Pluck("review_id", &ids).Error; err != nil {
				return err
			}
			reviewIDs = append(reviewIDs, ids...)
		}

		for _, m := range []any{&types.DiaryLike{}, &types.DiaryComment{}} {
			col := "user_id"
			if _, ok := m.(*types.DiaryComment); ok {
				col = "author_id"
			}

			var ids []uuid.UUID
			if err := tx.Model(m).Where(col+" = ?", userID).Distinct().Pluck("diary_id", &ids).Error; err != nil {
				return err
			}
			diaryIDs = append(diaryIDs, ids...)
		}

		// Replies to this user's comments go with them.
		var commentIDs []uuid.UUID
		if err := tx.Model(&types.Comment{}).Where("author_id = ?", userID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("parent_id IN ?", commentIDs).Delete(&types.Comment{}).Error; err != nil {
				return err
			}
		}

		deletes := []struct {
			model any
			where string
		}{
			{&types.ReviewLike{}, "user_id = ?"},
			{&types.ReviewBookmark{}, "user_id = ?"},
			{&types.ReviewHelpful{}, "user_id = ?"},
			{&types.ReviewReport{}, "reporter_id = ?"},
			{&types.Comment{}, "author_id = ?"},
			{&types.DiaryLike{}, "user_id = ?"},
			{&types.DiarySave{}, "user_id = ?"},
			{&types.DiaryComment{}, "author_id = ?"},
			{&types.Notification{}, "user_id = ? OR actor_id = ?"},
		}

		for _, d := range deletes {
			args := []any{userID}
			if strings.Count(d.where, "?") == 2 {
				args = append(args, userID)
			}

			if err := tx.Where(d.where, args...).Delete(d.model).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&types.Follow{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&types.User{}, "id = ?", userID)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			state.Logger.Warn("Deleted identity had no local user", zap.String("userID", userID))
		}

		if len(reviewIDs) > 0 {
			if _, err := reconcileReviews(tx, reviewIDs); err != nil {
				return err
			}
		}

		if len(diaryIDs) > 0 {
			if _, err := reconcileDiaries(tx, diaryIDs); err != nil {
				return err
			}
		}

		var authors []string
		if len(reviewIDs) > 0 {
			var ids []string
			if err := tx.Model(&types.Review{}).Where("id IN ?", reviewIDs).Distinct().Pluck("author_id", &ids).Error; err != nil {
				return err
			}
			authors = append(authors, ids...)
		}

		if len(diaryIDs) > 0 {
			var ids []string
			if err := tx.Model(&types.MusicDiary{}).Where("id IN ?", diaryIDs).Distinct().Pluck("author_id", &ids).Error; err != nil {
				return err
			}
			authors = append(authors, ids...)
		}

		if len(authors) == 0 {
			return nil
		}

		return reconcileUsers(tx, authors)
	})
}
