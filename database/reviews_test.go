package database

import (
	"testing"
	"time"

	"encore/state"
	"encore/testutil"
	"encore/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, start time.Time) *types.Event {
	t.Helper()

	e, err := CreateEvent(ctx, types.CreateEvent{
		Name:      "Summer Sonic",
		Category:  types.EventCategoryFestival,
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		Venue:     "Makuhari Messe",
		Artists:   []string{"Headliner"},
	})
	require.NoError(t, err)

	return e
}

func TestCreateReviewNormalizesMedia(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	legacy, err := CreateReview(ctx, author.ID, types.CreateReview{
		Content:       "a night to remember",
		OverallRating: 5,
		ImageURLs:     []string{"https://img.example.com/1.jpg"},
	})
	require.NoError(t, err)

	require.Len(t, legacy.MediaItems, 1)
	assert.Equal(t, types.MediaTypeImage, legacy.MediaItems[0].Type)
	assert.NotNil(t, legacy.Tags)
	require.NotNil(t, legacy.Author)
	assert.Equal(t, "author", legacy.Author.Username)

	mixed, err := CreateReview(ctx, author.ID, types.CreateReview{
		Content:       "and the encore",
		OverallRating: 4,
		MediaItems: []types.MediaItem{
			{URL: "https://img.example.com/2.jpg", Type: types.MediaTypeImage},
			{URL: "https://img.example.com/3.mp4", Type: types.MediaTypeVideo},
		},
	})
	require.NoError(t, err)

	assert.Len(t, mixed.MediaItems, 2)
	assert.Equal(t, []string{"https://img.example.com/2.jpg"}, []string(mixed.ImageURLs))

	assert.Equal(t, 2, reloadUser(t, author.ID).ReviewCount)
}

func TestCreateReviewUnknownEvent(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	missing := uuid.New()
	_, err := CreateReview(ctx, author.ID, types.CreateReview{Content: "x", OverallRating: 3, EventID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Zero(t, reloadUser(t, author.ID).ReviewCount)
}

func TestReviewerLevelRisesWithReviews(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	for i := 0; i < 5; i++ {
		mustReview(t, author.ID, "again")
	}
	assert.Equal(t, types.ReviewerLevelSeedling, reloadUser(t, author.ID).ReviewerLevel)

	mustReview(t, author.ID, "and again")
	assert.Equal(t, types.ReviewerLevelRegular, reloadUser(t, author.ID).ReviewerLevel)
}

func TestUpdateReview(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	other := testutil.CreateUser(t, "user_other", "other")

	r := mustReview(t, author.ID, "first take")

	_, err := UpdateReview(ctx, r.ID, other.ID, types.CreateReview{Content: "mine now", OverallRating: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := UpdateReview(ctx, r.ID, author.ID, types.CreateReview{Content: "second take", OverallRating: 2, Tags: []string{"rock"}})
	require.NoError(t, err)
	assert.Equal(t, "second take", updated.Content)
	assert.Equal(t, 2, updated.OverallRating)
	assert.Equal(t, []string{"rock"}, []string(updated.Tags))

	_, err = UpdateReview(ctx, uuid.New(), author.ID, types.CreateReview{Content: "x", OverallRating: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReviewCleansUp(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")

	r := mustReview(t, author.ID, "short lived")
	_, _, err := ToggleReviewLike(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	_, err = ToggleReviewBookmark(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	comment(t, r.ID, fan.ID, nil)

	require.Equal(t, 1, reloadUser(t, author.ID).TotalLikesReceived)

	assert.ErrorIs(t, DeleteReview(ctx, r.ID, fan.ID, false), ErrForbidden)
	require.NoError(t, DeleteReview(ctx, r.ID, author.ID, false))

	assert.Zero(t, countRows(t, &types.Review{}, "id = ?", r.ID))
	assert.Zero(t, countRows(t, &types.ReviewLike{}, "review_id = ?", r.ID))
	assert.Zero(t, countRows(t, &types.ReviewBookmark{}, "review_id = ?", r.ID))
	assert.Zero(t, countRows(t, &types.Comment{}, "review_id = ?", r.ID))

	u := reloadUser(t, author.ID)
	assert.Zero(t, u.ReviewCount)
	assert.Zero(t, u.TotalLikesReceived)

	assert.ErrorIs(t, DeleteReview(ctx, r.ID, author.ID, false), ErrNotFound)
}

func TestReports(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")

	r := mustReview(t, author.ID, "spam spam spam")

	_, err := ReportReview(ctx, r.ID, author.ID, "self")
	assert.ErrorIs(t, err, ErrInvalidInput)

	report, err := ReportReview(ctx, r.ID, fan.ID, "spam")
	require.NoError(t, err)
	assert.Equal(t, types.ReportStatusPending, report.Status)

	_, err = ReportReview(ctx, r.ID, fan.ID, "still spam")
	assert.ErrorIs(t, err, ErrAlreadyReported)

	_, err = ReportReview(ctx, uuid.New(), fan.ID, "spam")
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := ListReports(ctx, types.ReportStatusPending, PageRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)

	resolved, err := ResolveReport(ctx, report.ID, types.ReportStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, types.ReportStatusResolved, resolved.Status)

	pending, err = ListReports(ctx, types.ReportStatusPending, PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, pending.Items)

	all, err := ListReports(ctx, "", PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)

	_, err = ResolveReport(ctx, uuid.New(), types.ReportStatusDismissed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvents(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	past := mustEvent(t, time.Now().Add(-30*24*time.Hour))
	future := mustEvent(t, time.Now().Add(30*24*time.Hour))

	upcoming, err := ListEvents(ctx, EventFilter{Upcoming: true}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, upcoming.Items, 1)
	assert.Equal(t, future.ID, upcoming.Items[0].ID)

	clubs, err := ListEvents(ctx, EventFilter{Category: types.EventCategoryClub}, PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, clubs.Items)

	for _, rating := range []int{2, 4} {
		_, err := CreateReview(ctx, author.ID, types.CreateReview{Content: "ok", OverallRating: rating, EventID: &past.ID})
		require.NoError(t, err)
	}

	_, err = CreateDiary(ctx, author.ID, types.CreateDiary{
		EventID:    &past.ID,
		MediaItems: []types.MediaItem{{URL: "https://img.example.com/a.jpg", Type: types.MediaTypeImage}},
	})
	require.NoError(t, err)

	detail, err := GetEvent(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ReviewCount)
	assert.InDelta(t, 3.0, detail.AverageRating, 0.001)
	assert.Equal(t, int64(1), detail.DiaryCount)

	empty, err := GetEvent(ctx, future.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.AverageRating)

	updated, err := UpdateEvent(ctx, future.ID, types.CreateEvent{
		Name:      "Fuji Rock",
		Category:  types.EventCategoryFestival,
		StartDate: future.StartDate,
		EndDate:   future.EndDate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fuji Rock", updated.Name)
	assert.Empty(t, updated.Venue)

	require.NoError(t, DeleteEvent(ctx, past.ID))
	assert.ErrorIs(t, DeleteEvent(ctx, past.ID), ErrNotFound)

	// Reviews outlive their event.
	assert.Equal(t, int64(2), countRows(t, &types.Review{}, "author_id = ?", author.ID))
	assert.Zero(t, countRows(t, &types.Review{}, "event_id IS NOT NULL"))

	_, err = GetEvent(ctx, past.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, state.Pool.Model(&types.MusicDiary{}).Where("event_id IS NULL").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
