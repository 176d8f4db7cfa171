package database

import (
	"context"

	"encore/state"
	"encore/types"

	"go.uber.org/zap"
)

const (
	homeUpcomingEvents = 5
	homeBestReviews    = 6
	homeRecentDiaries  = 8
)

// HomeFeed collects the landing page sections.
func HomeFeed(ctx context.Context) (*types.HomeFeed, error) {
	db := state.Pool.WithContext(ctx)

	feed := types.HomeFeed{
		UpcomingEvents: []types.Event{},
		BestReviews:    []types.Review{},
		RecentDiaries:  []types.MusicDiary{},
		TrendingTags:   []string{},
	}

	err := db.Where("end_date >= ?", types.Now()).
		Order("start_date ASC").
		Limit(homeUpcomingEvents).
		Find(&feed.UpcomingEvents).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("Author").Preload("Event").
		Where("is_best_review = ?", true).
		Order("like_count DESC").Order("created_at DESC").
		Limit(homeBestReviews).
		Find(&feed.BestReviews).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("Author").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(homeRecentDiaries).
		Find(&feed.RecentDiaries).Error
	if err != nil {
		return nil, err
	}

	tags, err := TrendingTags(ctx)
	if err != nil {
		state.Logger.Warn("Trending tags unavailable", zap.Error(err))
	} else {
		feed.TrendingTags = tags
	}

	return &feed, nil
}
