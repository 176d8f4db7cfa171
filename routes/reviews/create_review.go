package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func CreateReviewDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Create Review",
		Description: "Writes a review, optionally attached to an event. `media_items` is preferred; a bare `image_urls` list " +
			"is still accepted and turned into image media items.",
		Req:    types.CreateReview{},
		Resp:   types.Review{},
		Status: http.StatusCreated,
	}
}

func CreateReviewRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var payload types.CreateReview

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	review, err := database.CreateReview(d.Context, d.Auth.ID, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Status: http.StatusCreated,
		Json:   review,
	}
}
