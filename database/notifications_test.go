package database

import (
	"strings"
	"testing"

	"encore/testutil"
	"encore/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))
	assert.Equal(t, strings.Repeat("a", 50), Preview(strings.Repeat("a", 50)))
	assert.Equal(t, strings.Repeat("a", 50)+"...", Preview(strings.Repeat("a", 51)))

	// Cut on characters, not bytes.
	assert.Equal(t, strings.Repeat("음", 50)+"...", Preview(strings.Repeat("음", 60)))
}

func TestNotificationMessages(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")

	r, err := CreateReview(ctx, author.ID, types.CreateReview{Title: "Night one", Content: "loud", OverallRating: 5})
	require.NoError(t, err)

	_, _, err = ToggleReviewLike(ctx, r.ID, fan.ID)
	require.NoError(t, err)

	_, err = CreateComment(ctx, r.ID, fan.ID, types.CreateComment{Content: strings.Repeat("b", 80)})
	require.NoError(t, err)

	page, err := ListNotifications(ctx, NotificationFilter{UserID: author.ID}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	commented, liked := page.Items[0], page.Items[1]

	assert.Equal(t, types.NotificationTypeComment, commented.Type)
	assert.Equal(t, "fan commented: "+strings.Repeat("b", 50)+"...", commented.Message)

	assert.Equal(t, types.NotificationTypeLike, liked.Type)
	assert.Equal(t, `fan liked your review "Night one"`, liked.Message)
	require.NotNil(t, liked.ActorID)
	assert.Equal(t, fan.ID, *liked.ActorID)
	require.NotNil(t, liked.RelatedID)
	assert.Equal(t, r.ID.String(), *liked.RelatedID)
	require.NotNil(t, liked.RelatedType)
	assert.Equal(t, types.RelatedTypeReview, *liked.RelatedType)
}

func TestNotificationReadState(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	fan := testutil.CreateUser(t, "user_fan", "fan")
	stranger := testutil.CreateUser(t, "user_stranger", "stranger")

	for i := 0; i < 3; i++ {
		r := mustReview(t, author.ID, "again")
		_, _, err := ToggleReviewLike(ctx, r.ID, fan.ID)
		require.NoError(t, err)
	}

	n, err := UnreadNotificationCount(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	page, err := ListNotifications(ctx, NotificationFilter{UserID: author.ID}, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	first := page.Items[0]

	// Someone else's notification looks missing.
	assert.ErrorIs(t, MarkNotificationRead(ctx, stranger.ID, first.ID), ErrNotFound)
	assert.ErrorIs(t, DeleteNotification(ctx, stranger.ID, first.ID), ErrNotFound)

	require.NoError(t, MarkNotificationRead(ctx, author.ID, first.ID))
	// Marking twice is harmless.
	require.NoError(t, MarkNotificationRead(ctx, author.ID, first.ID))

	unread, err := ListNotifications(ctx, NotificationFilter{UserID: author.ID, UnreadOnly: true}, PageRequest{})
	require.NoError(t, err)
	assert.Len(t, unread.Items, 2)

	marked, err := MarkAllNotificationsRead(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	n, err = UnreadNotificationCount(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, DeleteNotification(ctx, author.ID, first.ID))
	assert.ErrorIs(t, DeleteNotification(ctx, author.ID, first.ID), ErrNotFound)
	assert.ErrorIs(t, MarkNotificationRead(ctx, author.ID, uuid.New()), ErrNotFound)
}
