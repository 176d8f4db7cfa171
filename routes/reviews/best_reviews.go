package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func BestReviewsDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Best Reviews",
		Description: "Lists the reviews picked by the latest best-review selection.",
		Params:      api.PageDocParams(true),
		Resp:        types.ReviewPage{},
	}
}

func BestReviewsRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	reviews, err := database.ListReviews(d.Context, database.ReviewFilter{BestOnly: true, ViewerID: d.Auth.ID}, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: reviews,
	}
}
