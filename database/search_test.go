package database

import (
	"testing"
	"time"

	"encore/testutil"
	"encore/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")
	testutil.CreateUser(t, "user_radiohead_fan", "radiohead_fan")

	mustEvent(t, time.Now())
	_, err := CreateReview(ctx, author.ID, types.CreateReview{Content: "Radiohead played Creep!", OverallRating: 5})
	require.NoError(t, err)
	_, err = CreateReview(ctx, author.ID, types.CreateReview{Content: "nothing to see", OverallRating: 2, Tags: []string{"radiohead"}})
	require.NoError(t, err)

	_, err = CreateDiary(ctx, author.ID, types.CreateDiary{
		Caption:    "RADIOHEAD front row",
		MediaItems: []types.MediaItem{{URL: "https://img.example.com/a.jpg", Type: types.MediaTypeImage}},
	})
	require.NoError(t, err)

	private := false
	_, err = CreateDiary(ctx, author.ID, types.CreateDiary{
		Caption:    "radiohead secret",
		MediaItems: []types.MediaItem{{URL: "https://img.example.com/b.jpg", Type: types.MediaTypeImage}},
		IsPublic:   &private,
	})
	require.NoError(t, err)

	res, err := Search(ctx, "  radiohead ", 0)
	require.NoError(t, err)

	assert.Len(t, res.Reviews, 2)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "radiohead_fan", res.Users[0].Username)
	require.Len(t, res.Diaries, 1, "private diaries never show up")
	assert.Equal(t, "RADIOHEAD front row", res.Diaries[0].Caption)
	assert.Empty(t, res.Events)

	events, err := Search(ctx, "makuhari", 0)
	require.NoError(t, err)
	assert.Len(t, events.Events, 1)

	byArtist, err := Search(ctx, "headliner", 0)
	require.NoError(t, err)
	assert.Len(t, byArtist.Events, 1)
}

func TestSearchEscapesWildcards(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	mustReview(t, author.ID, "100% worth it")
	mustReview(t, author.ID, "1000 people")

	res, err := Search(ctx, "100%", 0)
	require.NoError(t, err)
	require.Len(t, res.Reviews, 1)
	assert.Equal(t, "100% worth it", res.Reviews[0].Content)

	res, err = Search(ctx, "_", 0)
	require.NoError(t, err)
	assert.Empty(t, res.Reviews)
}

func TestSearchLimit(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	for i := 0; i < 25; i++ {
		mustReview(t, author.ID, "encore")
	}

	res, err := Search(ctx, "encore", 0)
	require.NoError(t, err)
	assert.Len(t, res.Reviews, 5)

	res, err = Search(ctx, "encore", 100)
	require.NoError(t, err)
	assert.Len(t, res.Reviews, 20)

	res, err = Search(ctx, "encore", 3)
	require.NoError(t, err)
	assert.Len(t, res.Reviews, 3)
}

func TestSearchEmptyQuery(t *testing.T) {
	setup(t)

	_, err := Search(ctx, "   ", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%abc%`, likePattern("ABC"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}
