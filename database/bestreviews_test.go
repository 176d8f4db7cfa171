package database

import (
	"fmt"
	"strings"
	"testing"

	"encore/state"
	"encore/testutil"
	"encore/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewScore(t *testing.T) {
	tests := []struct {
		name   string
		review types.Review
		want   int
	}{
		{name: "plain", review: types.Review{Content: longText(100)}, want: 0},
		{name: "engagement", review: types.Review{Content: longText(100), LikeCount: 2, CommentCount: 3, HelpfulCount: 1}, want: 2*3 + 3*2 + 1*4},
		{name: "media", review: types.Review{Content: longText(100), MediaItems: []types.MediaItem{{URL: "https://x", Type: types.MediaTypeVideo}}}, want: 5},
		{name: "legacy images", review: types.Review{Content: longText(100), ImageURLs: []string{"https://x"}}, want: 5},
		{name: "exactly 200 runes", review: types.Review{Content: longText(200)}, want: 0},
		{name: "long", review: types.Review{Content: longText(201)}, want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReviewScore(tc.review))
		})
	}
}

func TestBestReviewCandidateCountsRunes(t *testing.T) {
	assert.False(t, IsBestReviewCandidate(types.Review{Content: longText(99)}))
	assert.True(t, IsBestReviewCandidate(types.Review{Content: longText(100)}))

	// 100 multi-byte characters are enough even though they are 300 bytes.
	assert.True(t, IsBestReviewCandidate(types.Review{Content: strings.Repeat("공", 100)}))
}

func TestReviewerLevelFor(t *testing.T) {
	tests := []struct {
		reviews, best int
		want          types.ReviewerLevel
	}{
		{0, 0, types.ReviewerLevelSeedling},
		{5, 3, types.ReviewerLevelSeedling},
		{6, 0, types.ReviewerLevelRegular},
		{21, 1, types.ReviewerLevelRegular},
		{21, 2, types.ReviewerLevelExpert},
		{49, 9, types.ReviewerLevelExpert},
		{50, 4, types.ReviewerLevelExpert},
		{50, 5, types.ReviewerLevelMaster},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d_%d", tc.reviews, tc.best), func(t *testing.T) {
			assert.Equal(t, tc.want, ReviewerLevelFor(tc.reviews, tc.best))
		})
	}
}

func TestSelectBestReviewsSkipsShortReviews(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	short := mustReview(t, author.ID, longText(99))
	long := mustReview(t, author.ID, longText(100))

	require.NoError(t, state.Pool.Model(&types.Review{}).Where("id = ?", short.ID).UpdateColumn("like_count", 1000).Error)

	summary, err := SelectBestReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Selected)
	assert.Equal(t, 1, summary.NewlyAwarded)

	assert.False(t, reloadReview(t, short.ID).IsBestReview)

	picked := reloadReview(t, long.ID)
	assert.True(t, picked.IsBestReview)
	assert.NotNil(t, picked.BestReviewAt)
}

func TestSelectBestReviewsTopTwentyAndIdempotent(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	var reviews []*types.Review
	for i := 0; i < 22; i++ {
		r := mustReview(t, author.ID, longText(120))
		require.NoError(t, state.Pool.Model(&types.Review{}).Where("id = ?", r.ID).UpdateColumn("like_count", i).Error)
		reviews = append(reviews, r)
	}

	summary, err := SelectBestReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, summary.Selected)
	assert.Equal(t, 20, summary.NewlyAwarded)

	// The two least liked reviews miss out.
	assert.False(t, reloadReview(t, reviews[0].ID).IsBestReview)
	assert.False(t, reloadReview(t, reviews[1].ID).IsBestReview)
	for _, r := range reviews[2:] {
		assert.True(t, reloadReview(t, r.ID).IsBestReview)
	}

	u := reloadUser(t, author.ID)
	assert.Equal(t, 22, u.ReviewCount)
	assert.Equal(t, 20, u.BestReviewCount)
	assert.Equal(t, types.ReviewerLevelExpert, u.ReviewerLevel)

	notifications := countRows(t, &types.Notification{}, "user_id = ? AND type = ?", author.ID, types.NotificationTypeBestReview)
	assert.Equal(t, int64(20), notifications)

	var n types.Notification
	require.NoError(t, state.Pool.First(&n, "user_id = ? AND type = ?", author.ID, types.NotificationTypeBestReview).Error)
	assert.Nil(t, n.ActorID, "best review notifications come from the system")

	again, err := SelectBestReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, again.Selected)
	assert.Zero(t, again.NewlyAwarded)

	assert.Equal(t, notifications, countRows(t, &types.Notification{}, "user_id = ? AND type = ?", author.ID, types.NotificationTypeBestReview))
	assert.Equal(t, int64(20), countRows(t, &types.Review{}, "is_best_review = ?", true))
	assert.Equal(t, 20, reloadUser(t, author.ID).BestReviewCount)
}

func TestSelectBestReviewsDropsOldPicks(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	first := mustReview(t, author.ID, longText(150))

	_, err := SelectBestReviews(ctx)
	require.NoError(t, err)
	require.True(t, reloadReview(t, first.ID).IsBestReview)

	for i := 0; i < 20; i++ {
		r := mustReview(t, author.ID, longText(150))
		require.NoError(t, state.Pool.Model(&types.Review{}).Where("id = ?", r.ID).UpdateColumn("like_count", 10).Error)
	}

	summary, err := SelectBestReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, summary.NewlyAwarded)

	assert.False(t, reloadReview(t, first.ID).IsBestReview)

	// The award history is kept, so the earlier pick still counts.
	assert.Equal(t, 21, reloadUser(t, author.ID).BestReviewCount)
}

func TestReconcileCounters(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")

	review := mustReview(t, author.ID, "great set")
	diary := mustDiary(t, author.ID, true)

	_, _, err := ToggleReviewLike(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	_, _, err = ToggleDiaryLike(ctx, diary.ID, fan.ID)
	require.NoError(t, err)
	_, err = CreateComment(ctx, review.ID, fan.ID, types.CreateComment{Content: "agreed"})
	require.NoError(t, err)

	require.NoError(t, state.Pool.Model(&types.Review{}).Where("id = ?", review.ID).
		UpdateColumns(map[string]any{"like_count": 40, "comment_count": 7}).Error)
	require.NoError(t, state.Pool.Model(&types.MusicDiary{}).Where("id = ?", diary.ID).UpdateColumn("like_count", 9).Error)
	require.NoError(t, state.Pool.Model(&types.User{}).Where("id = ?", author.ID).
		UpdateColumns(map[string]any{"total_likes_received": 100, "review_count": 0}).Error)

	summary, err := ReconcileCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Reviews)
	assert.Equal(t, int64(1), summary.Diaries)

	r := reloadReview(t, review.ID)
	assert.Equal(t, 1, r.LikeCount)
	assert.Equal(t, 1, r.CommentCount)

	u := reloadUser(t, author.ID)
	assert.Equal(t, 2, u.TotalLikesReceived)
	assert.Equal(t, 1, u.ReviewCount)
}
