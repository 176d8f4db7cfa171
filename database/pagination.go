package database

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"encore/constants"
	"encore/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SortMode string

const (
	SortRecent  SortMode = "recent"
	SortPopular SortMode = "popular"
)

func ParseSort(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortRecent:
		return SortRecent, nil
	case SortPopular:
		return SortPopular, nil
	}

	return "", fmt.Errorf("%w: unknown sort mode %q", ErrInvalidInput, s)
}

// Bump when the encoded sort key changes so stale client cursors are rejected
// instead of silently resuming at the wrong place.
const cursorVersion = "v1"

// Cursor is the sort key of the last item on a page.
type Cursor struct {
	Sort      SortMode
	LikeCount int
	CreatedAt time.Time
	ID        uuid.UUID
}

func (c Cursor) Encode() string {
	raw := strings.Join([]string{
		cursorVersion,
		string(c.Sort),
		strconv.Itoa(c.LikeCount),
		strconv.FormatInt(c.CreatedAt.UnixNano(), 10),
		c.ID.String(),
	}, "|")

	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string, sort SortMode) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", ErrInvalidCursor)
	}

	parts := strings.Split(string(raw), "|")
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: malformed", ErrInvalidCursor)
	}

	if parts[0] != cursorVersion {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidCursor, parts[0])
	}

	if SortMode(parts[1]) != sort {
		return nil, fmt.Errorf("%w: cursor is for sort %q", ErrInvalidCursor, parts[1])
	}

	likes, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: bad like count", ErrInvalidCursor)
	}

	nanos, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp", ErrInvalidCursor)
	}

	id, err := uuid.Parse(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: bad id", ErrInvalidCursor)
	}

	return &Cursor{
		Sort:      sort,
		LikeCount: likes,
		CreatedAt: time.Unix(0, nanos).UTC(),
		ID:        id,
	}, nil
}

// PageRequest is the common input of every list operation.
type PageRequest struct {
	Sort   SortMode
	Limit  int
	Cursor string
}

func (p PageRequest) limit() int {
	switch {
	case p.Limit <= 0:
		return constants.DefaultPageSize
	case p.Limit > constants.MaxPageSize:
		return constants.MaxPageSize
	}
	return p.Limit
}

func (p PageRequest) sort() SortMode {
	if p.Sort == "" {
		return SortRecent
	}
	return p.Sort
}

// paginate orders q by the sort key of table, applies the cursor predicate and
// fetches one row more than the page size.
func (p PageRequest) paginate(q *gorm.DB, table string) (*gorm.DB, error) {
	sort := p.sort()

	col := func(name string) string {
		return table + "." + name
	}

	if p.Cursor != "" {
		c, err := DecodeCursor(p.Cursor, sort)
		if err != nil {
			return nil, err
		}

		recent := fmt.Sprintf("(%s < ? OR (%s = ? AND %s < ?))", col("created_at"), col("created_at"), col("id"))

		switch sort {
		case SortPopular:
			q = q.Where(
				fmt.Sprintf("(%s < ? OR (%s = ? AND %s))", col("like_count"), col("like_count"), recent),
				c.LikeCount, c.LikeCount, c.CreatedAt, c.CreatedAt, c.ID,
			)
		default:
			q = q.Where(recent, c.CreatedAt, c.CreatedAt, c.ID)
		}
	}

	if sort == SortPopular {
		q = q.Order(col("like_count") + " DESC")
	}

	return q.Order(col("created_at") + " DESC").Order(col("id") + " DESC").Limit(p.limit() + 1), nil
}

// sortKey extracts the cursor fields of a row.
type sortKey[T any] func(T) (likes int, createdAt time.Time, id uuid.UUID)

// finish trims the look-ahead row and builds the next cursor.
func finish[T any](p PageRequest, rows []T, key sortKey[T]) types.Page[T] {
	limit := p.limit()

	page := types.Page[T]{Items: rows}
	if page.Items == nil {
		page.Items = []T{}
	}

	if len(rows) > limit {
		page.Items = rows[:limit]

		likes, createdAt, id := key(page.Items[limit-1])
		next := Cursor{
			Sort:      p.sort(),
			LikeCount: likes,
			CreatedAt: createdAt,
			ID:        id,
		}.Encode()

		page.NextCursor = &next
	}

	return page
}

func reviewKey(r types.Review) (int, time.Time, uuid.UUID) {
	return r.LikeCount, r.CreatedAt, r.ID
}

func diaryKey(d types.MusicDiary) (int, time.Time, uuid.UUID) {
	return d.LikeCount, d.CreatedAt, d.ID
}

func eventKey(e types.Event) (int, time.Time, uuid.UUID) {
	return 0, e.CreatedAt, e.ID
}

func commentKey(c types.Comment) (int, time.Time, uuid.UUID) {
	return 0, c.CreatedAt, c.ID
}

func diaryCommentKey(c types.DiaryComment) (int, time.Time, uuid.UUID) {
	return 0, c.CreatedAt, c.ID
}

func notificationKey(n types.Notification) (int, time.Time, uuid.UUID) {
	return 0, n.CreatedAt, n.ID
}

func reportKey(r types.ReviewReport) (int, time.Time, uuid.UUID) {
	return 0, r.CreatedAt, r.ID
}
