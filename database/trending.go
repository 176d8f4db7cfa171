package database

import (
	"context"
	"strings"

	"encore/state"

	"go.uber.org/zap"
)

const (
	trendingTagsKey  = "tags:trending"
	trendingTagLimit = 10
)

// bumpTrendingTags scores every tag used in new content. Failures only cost
// ranking accuracy so they are logged, not returned.
func bumpTrendingTags(ctx context.Context, tags ...[]string) {
	if state.Redis == nil {
		return
	}

	seen := map[string]bool{}
	pipe := state.Redis.Pipeline()
	for _, list := range tags {
		for _, tag := range list {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" || seen[tag] {
				continue
			}

			seen[tag] = true
			pipe.ZIncrBy(ctx, trendingTagsKey, 1, tag)
		}
	}

	if len(seen) == 0 {
		return
	}

	if _, err := pipe.Exec(ctx); err != nil {
		state.Logger.Warn("Failed to update trending tags", zap.Error(err))
	}
}

// TrendingTags returns the highest scoring tags, best first.
func TrendingTags(ctx context.Context) ([]string, error) {
	if state.Redis == nil {
		return []string{}, nil
	}

	var tags []string
	if err := state.Redis.ZRevRange(ctx, trendingTagsKey, 0, trendingTagLimit-1).ScanSlice(&tags); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []string{}
	}

	return tags, nil
}
