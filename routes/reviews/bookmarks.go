package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func BookmarksDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Bookmarked Reviews",
		Description: "Lists the reviews the caller has bookmarked.",
		Params:      api.PageDocParams(true),
		Resp:        types.ReviewPage{},
	}
}

func BookmarksRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	reviews, err := database.ListReviews(d.Context, database.ReviewFilter{BookmarkedBy: d.Auth.ID, ViewerID: d.Auth.ID}, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: reviews,
	}
}
