package comments

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func ListCommentsDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "List Comments",
		Description: "Lists the comments on a review, newest first. Replies carry `parent_id`; clients build the thread.",
		Params:      append([]docs.Parameter{api.PathParam("id", "The review ID")}, api.PageDocParams(false)...),
		Resp:        types.CommentPage{},
	}
}

func ListCommentsRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	comments, err := database.ListComments(d.Context, id, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: comments,
	}
}
