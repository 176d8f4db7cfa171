package database

import (
	"context"
	"sort"
	"unicode/utf8"

	"encore/constants"
	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewScore ranks a review for best-review selection.
func ReviewScore(r types.Review) int {
	score := r.LikeCount*3 + r.CommentCount*2 + r.HelpfulCount*4

	if len(r.MediaItems) > 0 || len(r.ImageURLs) > 0 {
		score += 5
	}

	if utf8.RuneCountInString(r.Content) > constants.BestReviewLongContent {
		score += 5
	}

	return score
}

// IsBestReviewCandidate reports whether a review is long enough to be ranked.
func IsBestReviewCandidate(r types.Review) bool {
	return utf8.RuneCountInString(r.Content) >= constants.BestReviewMinContent
}

// SelectBestReviews re-ranks every review and marks the top ones as best.
// Running it twice over the same data changes nothing the second time.
func SelectBestReviews(ctx context.Context) (*types.BestReviewSummary, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "SelectBestReviews")
	defer span.End()

	var summary types.BestReviewSummary

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&types.Review{}).
			Where("is_best_review = ?", true).
			UpdateColumns(map[string]any{"is_best_review": false, "best_review_at": nil}).Error
		if err != nil {
			return err
		}

		var candidates []types.Review
		err = tx.Select("id", "author_id", "title", "content", "like_count", "comment_count", "helpful_count", "media_items", "image_urls", "created_at").
			Find(&candidates).Error
		if err != nil {
			return err
		}

		ranked := make([]types.Review, 0, len(candidates))
		scores := make(map[uuid.UUID]int, len(candidates))
		for _, r := range candidates {
			if IsBestReviewCandidate(r) {
				ranked = append(ranked, r)
				scores[r.ID] = ReviewScore(r)
			}
		}

		sort.SliceStable(ranked, func(i, j int) bool {
			a, b := ranked[i], ranked[j]
			if scores[a.ID] != scores[b.ID] {
				return scores[a.ID] > scores[b.ID]
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID.String() > b.ID.String()
		})

		if len(ranked) > constants.BestReviewLimit {
			ranked = ranked[:constants.BestReviewLimit]
		}

		summary.Selected = len(ranked)

		if len(ranked) > 0 {
			ids := make([]uuid.UUID, len(ranked))
			for i, r := range ranked {
				ids[i] = r.ID
			}

			now := types.Now()
			err := tx.Model(&types.Review{}).
				Where("id IN ?", ids).
				UpdateColumns(map[string]any{"is_best_review": true, "best_review_at": now}).Error
			if err != nil {
				return err
			}
		}

		for _, r := range ranked {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&types.BestReviewAward{ReviewID: r.ID, AuthorID: r.AuthorID})
			if res.Error != nil {
				return res.Error
			}

			if res.RowsAffected == 0 {
				continue
			}

			summary.NewlyAwarded++

			if err := notifyBestReview(tx, r); err != nil {
				return err
			}
		}

		n, err := reconcileAllUsers(tx)
		if err != nil {
			return err
		}

		summary.UsersUpdated = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	state.Logger.Info("Selected best reviews",
		zap.Int("selected", summary.Selected),
		zap.Int("newlyAwarded", summary.NewlyAwarded),
		zap.Int("usersUpdated", summary.UsersUpdated),
	)

	return &summary, nil
}

// ReconcileCounters recomputes every review and diary counter from child rows,
// then every user's stats.
func ReconcileCounters(ctx context.Context) (*types.ReconcileSummary, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "ReconcileCounters")
	defer span.End()

	var summary types.ReconcileSummary

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if summary.Reviews, err = reconcileReviews(tx, nil); err != nil {
			return err
		}

		if summary.Diaries, err = reconcileDiaries(tx, nil); err != nil {
			return err
		}

		_, err = reconcileAllUsers(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// scoped limits q to ids, or to every row when ids is nil.
func scoped(q *gorm.DB, ids any, empty bool) *gorm.DB {
	if empty {
		return q.Where("1 = 1")
	}
	return q.Where("id IN ?", ids)
}

func reconcileReviews(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}

	res := scoped(tx.Model(&types.Review{}), ids, ids == nil).UpdateColumns(map[string]any{
		"like_count":    gorm.Expr("(SELECT COUNT(*) FROM review_likes WHERE review_likes.review_id = reviews.id)"),
		"helpful_count": gorm.Expr("(SELECT COUNT(*) FROM review_helpfuls WHERE review_helpfuls.review_id = reviews.id)"),
		"comment_count": gorm.Expr("(SELECT COUNT(*) FROM comments WHERE comments.review_id = reviews.id)"),
	})

	return res.RowsAffected, res.Error
}

func reconcileDiaries(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}

	res := scoped(tx.Model(&types.MusicDiary{}), ids, ids == nil).UpdateColumns(map[string]any{
		"like_count":    gorm.Expr("(SELECT COUNT(*) FROM diary_likes WHERE diary_likes.diary_id = music_diaries.id)"),
		"comment_count": gorm.Expr("(SELECT COUNT(*) FROM diary_comments WHERE diary_comments.diary_id = music_diaries.id)"),
	})

	return res.RowsAffected, res.Error
}

// reconcileUsers recomputes the stats and level of the given users.
func reconcileUsers(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := reconcileUserStats(tx, ids)
	return err
}

func reconcileAllUsers(tx *gorm.DB) (int, error) {
	return reconcileUserStats(tx, nil)
}

func reconcileUserStats(tx *gorm.DB, ids []string) (int, error) {
	err := scoped(tx.Model(&types.User{}), ids, ids == nil).UpdateColumns(map[string]any{
		"review_count": gorm.Expr("(SELECT COUNT(*) FROM reviews WHERE reviews.author_id = users.id)"),
		"total_likes_received": gorm.Expr(
			"(SELECT COALESCE(SUM(like_count), 0) FROM reviews WHERE reviews.author_id = users.id) + " +
				"(SELECT COALESCE(SUM(like_count), 0) FROM music_diaries WHERE music_diaries.author_id = users.id)",
		),
		"best_review_count": gorm.Expr("(SELECT COUNT(*) FROM best_review_awards WHERE best_review_awards.author_id = users.id)"),
	}).Error
	if err != nil {
		return 0, err
	}

	var users []types.User
	updated := 0

	q := tx.Model(&types.User{}).Select("id", "review_count", "best_review_count", "reviewer_level")
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}

	res := q.FindInBatches(&users, 500, func(batch *gorm.DB, _ int) error {
		for _, u := range users {
			updated++

			level := ReviewerLevelFor(u.ReviewCount, u.BestReviewCount)
			if level == u.ReviewerLevel {
				continue
			}

			if err := tx.Model(&types.User{}).Where("id = ?", u.ID).UpdateColumn("reviewer_level", level).Error; err != nil {
				return err
			}
		}
		return nil
	})

	return updated, res.Error
}
