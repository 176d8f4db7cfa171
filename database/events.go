package database

import (
	"context"

	"encore/state"
	"encore/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventFilter struct {
	Category types.EventCategory
	Upcoming bool
}

func ListEvents(ctx context.Context, filter EventFilter, p PageRequest) (types.EventPage, error) {
	p.Sort = SortRecent

	q := state.Pool.WithContext(ctx).Model(&types.Event{})

	if filter.Category != "" {
		q = q.Where("events.category = ?", filter.Category)
	}

	if filter.Upcoming {
		q = q.Where("events.end_date >= ?", types.Now())
	}

	q, err := p.paginate(q, "events")
	if err != nil {
		return types.EventPage{}, err
	}

	var rows []types.Event
	if err := q.Find(&rows).Error; err != nil {
		return types.EventPage{}, err
	}

	return finish(p, rows, eventKey), nil
}

// GetEvent returns an event with its review statistics.
func GetEvent(ctx context.Context, id uuid.UUID) (*types.EventDetail, error) {
	db := state.Pool.WithContext(ctx)

	var detail types.EventDetail
	if err := db.First(&detail.Event, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	var stats struct {
		Count   int64
		Average *float64
	}

	err := db.Model(&types.Review{}).
		Select("COUNT(*) AS count, AVG(overall_rating) AS average").
		Where("event_id = ?", id).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	detail.ReviewCount = stats.Count
	if stats.Average != nil {
		detail.AverageRating = *stats.Average
	}

	err = db.Model(&types.MusicDiary{}).
		Where("event_id = ? AND is_public = ?", id, true).
		Count(&detail.DiaryCount).Error
	if err != nil {
		return nil, err
	}

	return &detail, nil
}

func eventFromInput(in types.CreateEvent) types.Event {
	return types.Event{
		Name:        in.Name,
		Category:    in.Category,
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Venue:       in.Venue,
		Location:    in.Location,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		WebsiteURL:  in.WebsiteURL,
		Artists:     nonNil(in.Artists),
	}
}

func CreateEvent(ctx context.Context, in types.CreateEvent) (*types.Event, error) {
	event := eventFromInput(in)
	if err := state.Pool.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func UpdateEvent(ctx context.Context, id uuid.UUID, in types.CreateEvent) (*types.Event, error) {
	var event types.Event

	err := state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, "id = ?", id).Error; err != nil {
			return notFound(err)
		}

		err := tx.Model(&event).
			Select("name", "category", "start_date", "end_date", "venue", "location", "description", "image_url", "website_url", "artists", "updated_at").
			Updates(eventFromInput(in)).Error
		if err != nil {
			return err
		}

		return tx.First(&event, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// DeleteEvent removes an event. Reviews and diaries that referenced it stay
// and simply lose the link.
func DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return state.Pool.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Unlink first, the event_id foreign keys would reject the delete.
		if err := tx.Model(&types.Review{}).Where("event_id = ?", id).UpdateColumn("event_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&types.MusicDiary{}).Where("event_id = ?", id).UpdateColumn("event_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&types.Event{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}
