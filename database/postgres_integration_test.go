//go:build integration

package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"encore/state"
	"encore/testutil"
	"encore/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupPostgres points state at a throwaway Postgres container. Redis stays
// off so the fallbacks are exercised too.
func setupPostgres(t *testing.T) {
	t.Helper()

	bg := context.Background()

	container, err := postgres.Run(bg,
		"postgres:16-alpine",
		postgres.WithDatabase("encore"),
		postgres.WithUsername("encore"),
		postgres.WithPassword("encore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(bg); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(bg, "sslmode=disable")
	require.NoError(t, err)

	state.Logger = zap.NewNop()
	state.Redis = nil

	state.Pool, err = state.ConnectDatabase(dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := state.Pool.DB(); err == nil {
			sqlDB.Close()
		}
		state.Pool = nil
	})
}

func TestPostgres(t *testing.T) {
	setupPostgres(t)

	author := testutil.CreateUser(t, "user_author", "author")

	t.Run("concurrent likes", func(t *testing.T) {
		review := mustReview(t, author.ID, "packed house")

		var fans []string
		for i := 0; i < 10; i++ {
			fans = append(fans, testutil.CreateUser(t, "user_fan_"+string(rune('a'+i)), "fan_"+string(rune('a'+i))).ID)
		}

		var wg sync.WaitGroup
		for _, fan := range fans {
			for j := 0; j < 3; j++ {
				wg.Add(1)
				go func(fan string) {
					defer wg.Done()
					_, _, err := ToggleReviewLike(ctx, review.ID, fan)
					assert.NoError(t, err)
				}(fan)
			}
		}
		wg.Wait()

		likes := countRows(t, &types.ReviewLike{}, "review_id = ?", review.ID)
		assert.Equal(t, likes, int64(reloadReview(t, review.ID).LikeCount))
		assert.Equal(t, int(likes), reloadUser(t, author.ID).TotalLikesReceived)
	})

	t.Run("search casts json columns", func(t *testing.T) {
		_, err := CreateReview(ctx, author.ID, types.CreateReview{Content: "tagged", OverallRating: 4, Tags: []string{"Shoegaze"}})
		require.NoError(t, err)

		res, err := Search(ctx, "shoegaze", 0)
		require.NoError(t, err)
		assert.Len(t, res.Reviews, 1)

		res, err = Search(ctx, "100%", 0)
		require.NoError(t, err)
		assert.Empty(t, res.Reviews)
	})

	t.Run("duplicate usernames", func(t *testing.T) {
		other := testutil.CreateUser(t, "user_other", "other")

		_, err := UpdateProfile(ctx, other.ID, types.UpdateProfile{Username: "author"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("best reviews", func(t *testing.T) {
		mustReview(t, author.ID, longText(150))

		summary, err := SelectBestReviews(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.NewlyAwarded)

		again, err := SelectBestReviews(ctx)
		require.NoError(t, err)
		assert.Zero(t, again.NewlyAwarded)
	})

	t.Run("diary views without redis", func(t *testing.T) {
		diary := mustDiary(t, author.ID, true)

		for i := 0; i < 2; i++ {
			_, err := GetDiary(ctx, diary.ID, "", ViewerKey("", "10.0.0.1"))
			require.NoError(t, err)
		}

		assert.Equal(t, 2, reloadDiary(t, diary.ID).ViewCount)
	})
}
