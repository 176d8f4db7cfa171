package comments

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/uapi"
)

func DeleteCommentDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete Comment",
		Description: "Deletes a comment and every reply below it. Authors may delete their own comments, admins any.",
		Params:      []docs.Parameter{api.PathParam("id", "The comment ID")},
	}
}

func DeleteCommentRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	if _, err := database.DeleteComment(d.Context, id, d.Auth.ID, d.Auth.IsAdmin); err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
