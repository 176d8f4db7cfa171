package diaries

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func FeedDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Diary Feed",
		Description: "Lists public diaries, plus the caller's own private ones. `scope=following` limits the feed to " +
			"authors the caller follows and requires a session.",
		Params: append([]docs.Parameter{
			api.QueryParam("author", "Only diaries by this user ID"),
			api.QueryParam("event", "Only diaries of this event ID"),
			api.QueryParam("scope", "public (default) or following"),
		}, api.PageDocParams(true)...),
		Resp: types.DiaryPage{},
	}
}

func FeedRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	eventID, err := api.OptionalUUIDQuery(r, "event")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	scope, err := database.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	diaries, err := database.ListDiaries(d.Context, database.DiaryFilter{
		AuthorID: r.URL.Query().Get("author"),
		EventID:  eventID,
		Scope:    scope,
		ViewerID: d.Auth.ID,
	}, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: diaries,
	}
}

func SavedDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Saved Diaries",
		Description: "Lists the diaries the caller has saved that are still visible to them.",
		Params:      api.PageDocParams(true),
		Resp:        types.DiaryPage{},
	}
}

func SavedRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	diaries, err := database.ListDiaries(d.Context, database.DiaryFilter{SavedBy: d.Auth.ID, ViewerID: d.Auth.ID}, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: diaries,
	}
}
