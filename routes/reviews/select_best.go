package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func SelectBestDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Select Best Reviews",
		Description: "Re-ranks all reviews and marks the top 20 as best. Newly picked reviews notify their authors. " +
			"Safe to run repeatedly. Admin only; normally triggered by `encorectl best-reviews`.",
		Resp: types.BestReviewSummary{},
	}
}

func SelectBestRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	summary, err := database.SelectBestReviews(d.Context)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: summary,
	}
}
