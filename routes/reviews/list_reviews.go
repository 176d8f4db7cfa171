package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func ListReviewsDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "List Reviews",
		Description: "Lists reviews by recency or popularity. `scope=following` limits the list to authors the caller follows " +
			"and requires a session. Each review carries the caller's liked, bookmarked and helpful flags.",
		Params: append([]docs.Parameter{
			api.QueryParam("author", "Only reviews by this user ID"),
			api.QueryParam("event", "Only reviews of this event ID"),
			api.QueryParam("scope", "public (default) or following"),
		}, api.PageDocParams(true)...),
		Resp: types.ReviewPage{},
	}
}

// reviewFilter reads the filters shared by the list endpoints.
func reviewFilter(d uapi.RouteData, r *http.Request) (database.ReviewFilter, error) {
	eventID, err := api.OptionalUUIDQuery(r, "event")
	if err != nil {
		return database.ReviewFilter{}, err
	}

	scope, err := database.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		return database.ReviewFilter{}, err
	}

	return database.ReviewFilter{
		AuthorID: r.URL.Query().Get("author"),
		EventID:  eventID,
		Scope:    scope,
		ViewerID: d.Auth.ID,
	}, nil
}

func ListReviewsRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	filter, err := reviewFilter(d, r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	reviews, err := database.ListReviews(d.Context, filter, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: reviews,
	}
}
