package database

import (
	"encoding/base64"
	"testing"
	"time"

	"encore/testutil"
	"encore/types"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{
		Sort:      SortPopular,
		LikeCount: 42,
		CreatedAt: time.Date(2025, 7, 4, 20, 15, 0, 123456000, time.UTC),
		ID:        uuid.New(),
	}

	got, err := DecodeCursor(c.Encode(), SortPopular)
	require.NoError(t, err)

	if diff := cmp.Diff(c, *got); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCursorRejects(t *testing.T) {
	valid := Cursor{Sort: SortRecent, CreatedAt: time.Now().UTC(), ID: uuid.New()}.Encode()

	tests := map[string]struct {
		cursor string
		sort   SortMode
	}{
		"not base64":    {cursor: "!!!", sort: SortRecent},
		"wrong arity":   {cursor: base64.RawURLEncoding.EncodeToString([]byte("v1|recent|0")), sort: SortRecent},
		"old version":   {cursor: base64.RawURLEncoding.EncodeToString([]byte("v0|recent|0|0|" + uuid.NewString())), sort: SortRecent},
		"other sort":    {cursor: valid, sort: SortPopular},
		"bad timestamp": {cursor: base64.RawURLEncoding.EncodeToString([]byte("v1|recent|0|soon|" + uuid.NewString())), sort: SortRecent},
		"bad id":        {cursor: base64.RawURLEncoding.EncodeToString([]byte("v1|recent|0|0|nope")), sort: SortRecent},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCursor(tc.cursor, tc.sort)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortRecent, s)

	s, err = ParseSort("popular")
	require.NoError(t, err)
	assert.Equal(t, SortPopular, s)

	_, err = ParseSort("random")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPageLimitClamped(t *testing.T) {
	assert.Equal(t, 20, PageRequest{}.limit())
	assert.Equal(t, 50, PageRequest{Limit: 500}.limit())
	assert.Equal(t, 7, PageRequest{Limit: 7}.limit())
}

// walk follows next cursors until the last page and returns the visited ids.
func walk(t *testing.T, sort SortMode, limit int) []uuid.UUID {
	t.Helper()

	var seen []uuid.UUID
	p := PageRequest{Sort: sort, Limit: limit}

	for pages := 0; ; pages++ {
		require.Less(t, pages, 100, "pagination did not terminate")

		page, err := ListReviews(ctx, ReviewFilter{}, p)
		require.NoError(t, err)
		require.LessOrEqual(t, len(page.Items), limit)

		for _, r := range page.Items {
			seen = append(seen, r.ID)
		}

		if page.NextCursor == nil {
			return seen
		}

		p.Cursor = *page.NextCursor
	}
}

func TestPaginationVisitsEveryItemOnce(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	// Many rows share a timestamp and a like count so the id tiebreaker is exercised.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	want := map[uuid.UUID]bool{}
	for i := 0; i < 23; i++ {
		r := insertReview(t, author.ID, i%3, base.Add(time.Duration(i/4)*time.Second))
		want[r.ID] = true
	}

	for _, sort := range []SortMode{SortRecent, SortPopular} {
		for _, limit := range []int{1, 4, 5, 23, 50} {
			seen := walk(t, sort, limit)
			require.Len(t, seen, len(want), "sort=%s limit=%d", sort, limit)

			visited := map[uuid.UUID]bool{}
			for _, id := range seen {
				assert.False(t, visited[id], "sort=%s limit=%d visited %s twice", sort, limit, id)
				assert.True(t, want[id])
				visited[id] = true
			}
		}
	}
}

func TestPaginationOrder(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := insertReview(t, author.ID, 10, base)
	mid := insertReview(t, author.ID, 0, base.Add(time.Minute))
	recent := insertReview(t, author.ID, 5, base.Add(2*time.Minute))

	page, err := ListReviews(ctx, ReviewFilter{}, PageRequest{Sort: SortRecent})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{recent.ID, mid.ID, old.ID}, reviewIDs(page))

	page, err = ListReviews(ctx, ReviewFilter{}, PageRequest{Sort: SortPopular})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{old.ID, recent.ID, mid.ID}, reviewIDs(page))
	assert.Nil(t, page.NextCursor)
}

func TestPaginationStableUnderInserts(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		insertReview(t, author.ID, 0, base.Add(time.Duration(i)*time.Second))
	}

	first, err := ListReviews(ctx, ReviewFilter{}, PageRequest{Limit: 3})
	require.NoError(t, err)
	require.NotNil(t, first.NextCursor)

	// A newer review must not shift the next page.
	insertReview(t, author.ID, 0, base.Add(time.Hour))

	second, err := ListReviews(ctx, ReviewFilter{}, PageRequest{Limit: 3, Cursor: *first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 3)
	assert.Nil(t, second.NextCursor)

	for _, a := range first.Items {
		for _, b := range second.Items {
			assert.NotEqual(t, a.ID, b.ID)
		}
	}
}

func TestCursorFromOtherSortRejected(t *testing.T) {
	setup(t)
	author := testutil.CreateUser(t, "user_author", "author")

	for i := 0; i < 3; i++ {
		insertReview(t, author.ID, i, time.Now().Add(time.Duration(i)*time.Second))
	}

	page, err := ListReviews(ctx, ReviewFilter{}, PageRequest{Limit: 1})
	require.NoError(t, err)
	require.NotNil(t, page.NextCursor)

	_, err = ListReviews(ctx, ReviewFilter{}, PageRequest{Sort: SortPopular, Limit: 1, Cursor: *page.NextCursor})
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func reviewIDs(p types.ReviewPage) []uuid.UUID {
	ids := make([]uuid.UUID, len(p.Items))
	for i, r := range p.Items {
		ids[i] = r.ID
	}
	return ids
}
