package events

import (
	"fmt"
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func ListEventsDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "List Events",
		Description: "Lists events, newest first. Optionally filtered by category or to events that have not ended yet.",
		Params: append([]docs.Parameter{
			api.QueryParam("category", "festival, concert, live, club or other"),
			api.QueryParam("upcoming", "true to only list events that have not ended"),
		}, api.PageDocParams(false)...),
		Resp: types.EventPage{},
	}
}

func ListEventsRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	filter := database.EventFilter{
		Category: types.EventCategory(r.URL.Query().Get("category")),
		Upcoming: api.BoolQuery(r, "upcoming"),
	}

	switch filter.Category {
	case "", types.EventCategoryFestival, types.EventCategoryConcert, types.EventCategoryLive, types.EventCategoryClub, types.EventCategoryOther:
	default:
		return api.ErrorResponse(fmt.Errorf("%w: unknown category %q", database.ErrInvalidInput, filter.Category), r)
	}

	events, err := database.ListEvents(d.Context, filter, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: events,
	}
}
