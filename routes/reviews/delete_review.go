package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/uapi"
)

func DeleteReviewDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete Review",
		Description: "Deletes a review with its likes, bookmarks, comments and reports. Authors may delete their own reviews, admins any.",
		Params:      []docs.Parameter{api.PathParam("id", "The review ID")},
	}
}

func DeleteReviewRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	if err := database.DeleteReview(d.Context, id, d.Auth.ID, d.Auth.IsAdmin); err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
