package home

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
		Summary:     "Home Feed",
		Description: "Returns upcoming events, current best reviews, recent public diaries and trending tags.",
		Resp:        types.HomeFeed{},
	}
}

func FeedRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	feed, err := database.HomeFeed(d.Context)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: feed,
	}
}
