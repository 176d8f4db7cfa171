package database

import (
	"context"
	"strings"
	"testing"
	"time"

	"encore/state"
	"encore/testutil"
	"encore/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func setup(t *testing.T) *testutil.Env {
	t.Helper()
	return testutil.Setup(t)
}

func longText(n int) string {
	return strings.Repeat("a", n)
}

func mustReview(t *testing.T, authorID, content string) *types.Review {
	t.Helper()

	r, err := CreateReview(ctx, authorID, types.CreateReview{
		Content:       content,
		OverallRating: 4,
	})
	require.NoError(t, err)

	return r
}

func mustDiary(t *testing.T, authorID string, public bool) *types.MusicDiary {
	t.Helper()

	d, err := CreateDiary(ctx, authorID, types.CreateDiary{
		Caption:    "front row",
		MediaItems: []types.MediaItem{{URL: "https://img.example.com/a.jpg", Type: types.MediaTypeImage}},
		IsPublic:   &public,
	})
	require.NoError(t, err)

	return d
}

// insertReview writes a review row directly, bypassing counters.
func insertReview(t *testing.T, authorID string, likes int, createdAt time.Time) types.Review {
	t.Helper()

	r := types.Review{
		BaseModel:     types.BaseModel{CreatedAt: createdAt},
		AuthorID:      authorID,
		Content:       "review",
		OverallRating: 3,
		LikeCount:     likes,
	}
	require.NoError(t, state.Pool.Create(&r).Error)

	return r
}

func reloadReview(t *testing.T, id uuid.UUID) types.Review {
	t.Helper()

	var r types.Review
	require.NoError(t, state.Pool.First(&r, "id = ?", id).Error)
	return r
}

func reloadDiary(t *testing.T, id uuid.UUID) types.MusicDiary {
	t.Helper()

	var d types.MusicDiary
	require.NoError(t, state.Pool.First(&d, "id = ?", id).Error)
	return d
}

func reloadUser(t *testing.T, id string) types.User {
	t.Helper()

	var u types.User
	require.NoError(t, state.Pool.First(&u, "id = ?", id).Error)
	return u
}

func countRows(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, state.Pool.Model(model).Where(where, args...).Count(&n).Error)
	return n
}
