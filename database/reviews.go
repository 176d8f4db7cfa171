package database

import (
	"context"
	"errors"
	"fmt"

	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Scope string

const (
	ScopePublic    Scope = "public"
	ScopeFollowing Scope = "following"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopePublic:
		return ScopePublic, nil
	case ScopeFollowing:
		return ScopeFollowing, nil
	}

	return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, s)
}

// ReviewFilter narrows a review listing. ViewerID is the caller, if any.
type ReviewFilter struct {
	AuthorID     string
	EventID      *uuid.UUID
	Scope        Scope
	BestOnly     bool
	BookmarkedBy string
	ViewerID     string
}

func followingSubquery(tx *gorm.DB, followerID string) *gorm.DB {
	return tx.Model(&types.Follow{}).Select("following_id").Where("follower_id = ?", followerID)
}

// normalizeMedia merges the legacy image list into media items and derives the
// legacy list back from the image items.
func normalizeMedia(items []types.MediaItem, imageURLs []string) ([]types.MediaItem, []string) {
	if len(items) == 0 {
		for _, u := range imageURLs {
			items = append(items, types.MediaItem{URL: u, Type: types.MediaTypeImage})
		}
	}

	urls := []string{}
	for _, it := range items {
		if it.Type == types.MediaTypeImage {
			urls = append(urls, it.URL)
		}
	}

	if items == nil {
		items = []types.MediaItem{}
	}

	return items, urls
}

func eventExists(tx *gorm.DB, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	var n int64
	if err := tx.Model(&types.Event{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	}

	return nil
}

// ReviewerLevelFor derives a reviewer level from an author's stats.
func ReviewerLevelFor(reviewCount, bestReviewCount int) types.ReviewerLevel {
	switch {
	case reviewCount >= 50 && bestReviewCount >= 5:
		return types.ReviewerLevelMaster
	case reviewCount >= 21 && bestReviewCount >= 2:
		return types.ReviewerLevelExpert
	case reviewCount >= 6:
		return types.ReviewerLevelRegular
	}

	return types.ReviewerLevelSeedling
}

func refreshLevel(tx *gorm.DB, userID string) error {
	var u types.User
	if err := tx.Select("id", "review_count", "best_review_count").First(&u, "id = ?", userID).Error; err != nil {
		return notFound(err)
	}

	return tx.Model(&types.User{}).
		Where("id = ?", userID).
		UpdateColumn("reviewer_level", ReviewerLevelFor(u.ReviewCount, u.BestReviewCount)).
		Error
}

func CreateReview(ctx context.Context, authorID string, in types.CreateReview) (*types.Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "CreateReview")
	defer span.End()

	items, urls := normalizeMedia(in.MediaItems, in.ImageURLs)

	review := types.Review{
		AuthorID:          authorID,
		EventID:           in.EventID,
		Title:             in.Title,
		Content:           in.Content,
		OverallRating:     in.OverallRating,
		SoundRating:       in.SoundRating,
		PerformanceRating: in.PerformanceRating,
		VenueRating:       in.VenueRating,
		AtmosphereRating:  in.AtmosphereRating,
		MediaItems:        items,
		ImageURLs:         urls,
		Tags:              nonNil(in.Tags),
	}

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := eventExists(tx, in.EventID); err != nil {
			return err
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		if err := bumpCounter(tx, &types.User{}, authorID, "review_count", 1); err != nil {
			return err
		}

		if err := refreshLevel(tx, authorID); err != nil {
			return err
		}

		return tx.Preload("Author").Preload("Event").First(&review, "id = ?", review.ID).Error
	})
	if err != nil {
		return nil, err
	}

	bumpTrendingTags(ctx, review.Tags)

	return &review, nil
}

// UpdateReview replaces the editable fields of a review. Only the author may edit.
func UpdateReview(ctx context.Context, reviewID uuid.UUID, actorID string, in types.CreateReview) (*types.Review, error) {
	var review types.Review

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			return notFound(err)
		}

		if review.AuthorID != actorID {
			return ErrForbidden
		}

		if err := eventExists(tx, in.EventID); err != nil {
			return err
		}

		items, urls := normalizeMedia(in.MediaItems, in.ImageURLs)

		err := tx.Model(&review).
			Select("event_id", "title", "content", "overall_rating", "sound_rating", "performance_rating",
				"venue_rating", "atmosphere_rating", "media_items", "image_urls", "tags", "updated_at").
			Updates(types.Review{
				EventID:           in.EventID,
				Title:             in.Title,
				Content:           in.Content,
				OverallRating:     in.OverallRating,
				SoundRating:       in.SoundRating,
				PerformanceRating: in.PerformanceRating,
				VenueRating:       in.VenueRating,
				AtmosphereRating:  in.AtmosphereRating,
				MediaItems:        items,
				ImageURLs:         urls,
				Tags:              nonNil(in.Tags),
			}).Error
		if err != nil {
			return err
		}

		return tx.Preload("Author").Preload("Event").First(&review, "id = ?", reviewID).Error
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// DeleteReview removes a review with its child rows and adjusts the author's
// stats. Authors may delete their own reviews, admins any review.
func DeleteReview(ctx context.Context, reviewID uuid.UUID, actorID string, isAdmin bool) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "DeleteReview")
	defer span.End()

	return state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review types.Review
		if err := tx.Select("id", "author_id", "like_count").First(&review, "id = ?", reviewID).Error; err != nil {
			return notFound(err)
		}

		if review.AuthorID != actorID && !isAdmin {
			return ErrForbidden
		}

		return deleteReviews(tx, []types.Review{review})
	})
}

// deleteReviews removes reviews and everything hanging off them, then
// recomputes the authors' stats from what is left.
func deleteReviews(tx *gorm.DB, reviews []types.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	authors := map[string]struct{}{}
	for _, r := range reviews {
		ids = append(ids, r.ID)
		authors[r.AuthorID] = struct{}{}
	}

	for _, child := range []any{
		&types.ReviewLike{},
		&types.ReviewBookmark{},
		&types.ReviewHelpful{},
		&types.ReviewReport{},
		&types.Comment{},
		&types.BestReviewAward{},
	} {
		if err := tx.Where("review_id IN ?", ids).Delete(child).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("id IN ?", ids).Delete(&types.Review{}).Error; err != nil {
		return err
	}

	authorIDs := make([]string, 0, len(authors))
	for id := range authors {
		authorIDs = append(authorIDs, id)
	}

	return reconcileUsers(tx, authorIDs)
}

func GetReview(ctx context.Context, reviewID uuid.UUID, viewerID string) (*types.ReviewView, error) {
	var review types.Review
	err := state.Pool.WithContext(ctx).
		Preload("Author").
		Preload("Event").
		First(&review, "id = ?", reviewID).Error
	if err != nil {
		return nil, notFound(err)
	}

	views, err := reviewViews(state.Pool.WithContext(ctx), []types.Review{review}, viewerID)
	if err != nil {
		return nil, err
	}

	return &views[0], nil
}

func ListReviews(ctx context.Context, filter ReviewFilter, p PageRequest) (types.ReviewPage, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "ListReviews")
	defer span.End()

	db := state.Pool.WithContext(ctx)
	q := db.Model(&types.Review{}).Preload("Author").Preload("Event")

	if filter.AuthorID != "" {
		q = q.Where("reviews.author_id = ?", filter.AuthorID)
	}

	if filter.EventID != nil {
		q = q.Where("reviews.event_id = ?", *filter.EventID)
	}

	if filter.BestOnly {
		q = q.Where("reviews.is_best_review = ?", true)
	}

	if filter.BookmarkedBy != "" {
		q = q.Where("reviews.id IN (?)", db.Model(&types.ReviewBookmark{}).Select("review_id").Where("user_id = ?", filter.BookmarkedBy))
	}

	if filter.Scope == ScopeFollowing {
		if filter.ViewerID == "" {
			return types.ReviewPage{}, ErrUnauthorized
		}

		q = q.Where("reviews.author_id IN (?)", followingSubquery(db, filter.ViewerID))
	}

	q, err := p.paginate(q, "reviews")
	if err != nil {
		return types.ReviewPage{}, err
	}

	var rows []types.Review
	if err := q.Find(&rows).Error; err != nil {
		return types.ReviewPage{}, err
	}

	page := finish(p, rows, reviewKey)

	views, err := reviewViews(db, page.Items, filter.ViewerID)
	if err != nil {
		return types.ReviewPage{}, err
	}

	return types.ReviewPage{Items: views, NextCursor: page.NextCursor}, nil
}

// reviewViews attaches the viewer's like/bookmark/helpful flags.
func reviewViews(db *gorm.DB, reviews []types.Review, viewerID string) ([]types.ReviewView, error) {
	views := make([]types.ReviewView, len(reviews))
	for i := range reviews {
		views[i] = types.ReviewView{Review: reviews[i]}
	}

	if viewerID == "" || len(reviews) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(reviews))
	for i := range reviews {
		ids[i] = reviews[i].ID
	}

	flagged := func(model any) (map[uuid.UUID]bool, error) {
		var got []uuid.UUID
		err := db.Model(model).
			Where("user_id = ? AND review_id IN ?", viewerID, ids).
			Pluck("review_id", &got).Error
		if err != nil {
			return nil, err
		}

		set := make(map[uuid.UUID]bool, len(got))
		for _, id := range got {
			set[id] = true
		}
		return set, nil
	}

	liked, err := flagged(&types.ReviewLike{})
	if err != nil {
		return nil, err
	}

	bookmarked, err := flagged(&types.ReviewBookmark{})
	if err != nil {
		return nil, err
	}

	helpful, err := flagged(&types.ReviewHelpful{})
	if err != nil {
		return nil, err
	}

	for i := range views {
		id := views[i].ID
		views[i].Liked = liked[id]
		views[i].Bookmarked = bookmarked[id]
		views[i].Helpful = helpful[id]
	}

	return views, nil
}

// ReportReview files a moderation report. Each user may report a review once.
func ReportReview(ctx context.Context, reviewID uuid.UUID, reporterID, reason string) (*types.ReviewReport, error) {
	report := types.ReviewReport{
		ReviewID:   reviewID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     types.ReportStatusPending,
	}

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review types.Review
		if err := tx.Select("id", "author_id").First(&review, "id = ?", reviewID).Error; err != nil {
			return notFound(err)
		}

		if review.AuthorID == reporterID {
			return fmt.Errorf("%w: cannot report your own review", ErrInvalidInput)
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&report)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrAlreadyReported
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func ListReports(ctx context.Context, status types.ReportStatus, p PageRequest) (types.ReportPage, error) {
	p.Sort = SortRecent

	q := state.Pool.WithContext(ctx).Model(&types.ReviewReport{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	q, err := p.paginate(q, "review_reports")
	if err != nil {
		return types.ReportPage{}, err
	}

	var rows []types.ReviewReport
	if err := q.Find(&rows).Error; err != nil {
		return types.ReportPage{}, err
	}

	return finish(p, rows, reportKey), nil
}

func ResolveReport(ctx context.Context, reportID uuid.UUID, status types.ReportStatus) (*types.ReviewReport, error) {
	var report types.ReviewReport

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			return notFound(err)
		}

		report.Status = status
		report.UpdatedAt = types.Now()
		return tx.Model(&report).Select("status", "updated_at").Updates(&report).Error
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
