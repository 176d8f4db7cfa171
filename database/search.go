package database

import (
	"context"
	"fmt"
	"strings"

	"encore/constants"
	"encore/state"
	"encore/types"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a user query into a substring LIKE pattern with the
// wildcards escaped.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

// matchAny builds a case-insensitive substring match over columns.
func matchAny(q *gorm.DB, pattern string, columns ...string) *gorm.DB {
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
		args[i] = pattern
	}

	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func searchLimit(limit int) int {
	switch {
	case limit <= 0:
		return constants.DefaultSearchLimit
	case limit > constants.MaxSearchLimit:
		return constants.MaxSearchLimit
	}
	return limit
}

// Search finds events, reviews, users and public diaries matching query.
func Search(ctx context.Context, query string, limit int) (*types.SearchResults, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}

	db := state.Pool.WithContext(ctx)
	pattern := likePattern(query)
	limit = searchLimit(limit)

	res := types.SearchResults{
		Events:  []types.Event{},
		Reviews: []types.Review{},
		Users:   []types.User{},
		Diaries: []types.MusicDiary{},
	}

	err := matchAny(db.Model(&types.Event{}), pattern, "name", "venue", "location", "description", "CAST(artists AS TEXT)").
		Order("created_at DESC").Limit(limit).
		Find(&res.Events).Error
	if err != nil {
		return nil, err
	}

	err = matchAny(db.Model(&types.Review{}).Preload("Author"), pattern, "title", "content", "CAST(tags AS TEXT)").
		Order("created_at DESC").Limit(limit).
		Find(&res.Reviews).Error
	if err != nil {
		return nil, err
	}

	err = matchAny(db.Model(&types.User{}), pattern, "username", "display_name").
		Order("created_at DESC").Limit(limit).
		Find(&res.Users).Error
	if err != nil {
		return nil, err
	}

	err = matchAny(db.Model(&types.MusicDiary{}).Preload("Author").Where("is_public = ?", true), pattern, "caption", "location", "CAST(artists AS TEXT)").
		Order("created_at DESC").Limit(limit).
		Find(&res.Diaries).Error
	if err != nil {
		return nil, err
	}

	return &res, nil
}
