package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func GetReviewDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Review",
		Description: "Returns a review with its author, event and the caller's interaction flags.",
		Params:      []docs.Parameter{api.PathParam("id", "The review ID")},
		Resp:        types.ReviewView{},
	}
}

func GetReviewRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	review, err := database.GetReview(d.Context, id, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: review,
	}
}
