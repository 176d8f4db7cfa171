package comments

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func CreateCommentDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Create Comment",
		Description: "Comments on a review, or replies to a comment when `parent_id` is set. The parent must belong to the same review. " +
			"The review author is notified of comments and the parent's author of replies.",
		Params: []docs.Parameter{api.PathParam("id", "The review ID")},
		Req:    types.CreateComment{},
		Resp:   types.Comment{},
		Status: http.StatusCreated,
	}
}

func CreateCommentRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	var payload types.CreateComment

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	comment, err := database.CreateComment(d.Context, id, d.Auth.ID, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Status: http.StatusCreated,
		Json:   comment,
	}
}
