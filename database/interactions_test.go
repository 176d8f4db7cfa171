package database

import (
	"fmt"
	"sync"
	"testing"

	"encore/state"
	"encore/testutil"
	"encore/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleReviewLikeIsIdempotentPair(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")
	review := mustReview(t, author.ID, "great set")

	liked, count, err := ToggleReviewLike(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, reloadUser(t, author.ID).TotalLikesReceived)

	liked, count, err = ToggleReviewLike(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	assert.Equal(t, 0, reloadReview(t, review.ID).LikeCount)
	assert.Equal(t, 0, reloadUser(t, author.ID).TotalLikesReceived)
	assert.Zero(t, countRows(t, &types.ReviewLike{}, "review_id = ?", review.ID))
}

func TestToggleReviewLikeNotifiesAuthorOnly(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")
	review := mustReview(t, author.ID, "great set")

	_, _, err := ToggleReviewLike(ctx, review.ID, author.ID)
	require.NoError(t, err)
	assert.Zero(t, countRows(t, &types.Notification{}, "user_id = ?", author.ID), "self like must not notify")

	_, _, err = ToggleReviewLike(ctx, review.ID, fan.ID)
	require.NoError(t, err)

	var n types.Notification
	require.NoError(t, state.Pool.First(&n, "user_id = ?", author.ID).Error)
	assert.Equal(t, types.NotificationTypeLike, n.Type)
	require.NotNil(t, n.ActorID)
	assert.Equal(t, fan.ID, *n.ActorID)
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, review.ID.String(), *n.RelatedID)
	assert.Contains(t, n.Message, "fan liked your review")

	// Unliking leaves the notification alone and does not add another.
	_, _, err = ToggleReviewLike(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, &types.Notification{}, "user_id = ?", author.ID))
}

func TestToggleReviewLikeMissingReview(t *testing.T) {
	setup(t)
	fan := testutil.CreateUser(t, "user_fan", "fan")

	_, _, err := ToggleReviewLike(ctx, uuid.New(), fan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentLikesKeepCounterConsistent(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	review := mustReview(t, author.ID, "great set")

	const fans = 12
	for i := 0; i < fans; i++ {
		testutil.CreateUser(t, fmt.Sprintf("user_%d", i), fmt.Sprintf("fan%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, fans*3)

	// Every fan toggles three times, so every fan ends up liking the review.
	for i := 0; i < fans; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				if _, _, err := ToggleReviewLike(ctx, review.ID, id); err != nil {
					errs <- err
				}
			}
		}(fmt.Sprintf("user_%d", i))
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	rows := countRows(t, &types.ReviewLike{}, "review_id = ?", review.ID)
	assert.Equal(t, int64(fans), rows)
	assert.Equal(t, int(rows), reloadReview(t, review.ID).LikeCount)
	assert.Equal(t, int(rows), reloadUser(t, author.ID).TotalLikesReceived)
}

func TestToggleHelpfulAndBookmark(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")
	review := mustReview(t, author.ID, "great set")

	helpful, count, err := ToggleReviewHelpful(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, helpful)
	assert.Equal(t, 1, count)

	bookmarked, err := ToggleReviewBookmark(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	view, err := GetReview(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, view.Helpful)
	assert.True(t, view.Bookmarked)
	assert.False(t, view.Liked)

	page, err := ListReviews(ctx, ReviewFilter{BookmarkedBy: fan.ID, ViewerID: fan.ID}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, review.ID, page.Items[0].ID)

	bookmarked, err = ToggleReviewBookmark(ctx, review.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, bookmarked)

	page, err = ListReviews(ctx, ReviewFilter{BookmarkedBy: fan.ID}, PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestToggleDiaryLikeRespectsPrivacy(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")
	private := mustDiary(t, author.ID, false)

	_, _, err := ToggleDiaryLike(ctx, private.ID, fan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ToggleDiarySave(ctx, private.ID, fan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	liked, count, err := ToggleDiaryLike(ctx, private.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)
}

func TestToggleDiaryLikeAndSave(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")
	diary := mustDiary(t, author.ID, true)

	liked, count, err := ToggleDiaryLike(ctx, diary.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, reloadUser(t, author.ID).TotalLikesReceived)
	assert.Equal(t, int64(1), countRows(t, &types.Notification{}, "user_id = ? AND related_type = ?", author.ID, types.RelatedTypeDiary))

	saved, err := ToggleDiarySave(ctx, diary.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	page, err := ListDiaries(ctx, DiaryFilter{SavedBy: fan.ID, ViewerID: fan.ID}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Liked)
	assert.True(t, page.Items[0].Saved)

	liked, count, err = ToggleDiaryLike(ctx, diary.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, reloadUser(t, author.ID).TotalLikesReceived)
}

func TestToggleFollow(t *testing.T) {
	setup(t)
	alice := testutil.CreateUser(t, "user_alice", "alice")
	bob := testutil.CreateUser(t, "user_bob", "bob")

	_, err := ToggleFollow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = ToggleFollow(ctx, alice.ID, "user_ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	following, err := ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	var n types.Notification
	require.NoError(t, state.Pool.First(&n, "user_id = ?", bob.ID).Error)
	assert.Equal(t, types.NotificationTypeFollow, n.Type)

	profile, err := GetProfile(ctx, "bob", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowerCount)
	assert.True(t, profile.Following)

	followers, err := ListFollowers(ctx, "bob", PageRequest{})
	require.NoError(t, err)
	require.Len(t, followers.Items, 1)
	assert.Equal(t, alice.ID, followers.Items[0].ID)

	following, err = ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Zero(t, countRows(t, &types.Follow{}, "follower_id = ?", alice.ID))
}

func TestFollowConstraints(t *testing.T) {
	setup(t)
	alice := testutil.CreateUser(t, "user_alice", "alice")
	bob := testutil.CreateUser(t, "user_bob", "bob")

	err := state.Pool.Create(&types.Follow{FollowerID: alice.ID, FollowingID: alice.ID}).Error
	assert.Error(t, err, "self follow must violate the check constraint")

	require.NoError(t, state.Pool.Create(&types.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)

	err = state.Pool.Create(&types.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error
	assert.Error(t, err, "duplicate follow must violate the unique index")
}

func TestFollowingScope(t *testing.T) {
	setup(t)
	alice := testutil.CreateUser(t, "user_alice", "alice")
	bob := testutil.CreateUser(t, "user_bob", "bob")
	carol := testutil.CreateUser(t, "user_carol", "carol")

	fromBob := mustReview(t, bob.ID, "bob's review")
	mustReview(t, carol.ID, "carol's review")

	_, err := ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	page, err := ListReviews(ctx, ReviewFilter{Scope: ScopeFollowing, ViewerID: alice.ID}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, fromBob.ID, page.Items[0].ID)

	_, err = ListReviews(ctx, ReviewFilter{Scope: ScopeFollowing}, PageRequest{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
