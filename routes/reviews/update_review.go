package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func UpdateReviewDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Update Review",
		Description: "Replaces the content of one of the caller's reviews. Counters are left untouched.",
		Params:      []docs.Parameter{api.PathParam("id", "The review ID")},
		Req:         types.CreateReview{},
		Resp:        types.Review{},
	}
}

func UpdateReviewRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	var payload types.CreateReview

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	review, err := database.UpdateReview(d.Context, id, d.Auth.ID, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: review,
	}
}
