package search

import (
	"net/http"
	"strconv"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func SearchDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Search",
		Description: "Case-insensitive substring search. Events match on name, venue, location, description and artists; " +
			"reviews on title, content and tags; users on username and display name; public diaries on caption, location and artists.",
		Params: []docs.Parameter{
			api.QueryParam("q", "The search query"),
			{
				Name:        "limit",
				In:          "query",
				Description: "Results per section (default 5, at most 20)",
				Required:    false,
				Schema:      docs.IntSchema,
			},
		},
		Resp: types.SearchResults{},
	}
}

func SearchRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var limit int
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			return uapi.HttpResponse{
				Status: http.StatusBadRequest,
				Json:   types.ApiError{Message: "limit must be a number"},
			}
		}
	}

	results, err := database.Search(d.Context, r.URL.Query().Get("q"), limit)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: results,
	}
}
