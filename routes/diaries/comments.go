package diaries

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
		Summary:     "List Diary Comments",
		Description: "Lists the comments on a diary the caller can see, newest first.",
		Params:      append([]docs.Parameter{api.PathParam("id", "The diary ID")}, api.PageDocParams(false)...),
		Resp:        types.DiaryCommentPage{},
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

	comments, err := database.ListDiaryComments(d.Context, id, d.Auth.ID, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: comments,
	}
}

func AddCommentDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Add Diary Comment",
		Description: "Comments on a diary. The diary's author is notified.",
		Params:      []docs.Parameter{api.PathParam("id", "The diary ID")},
		Req:         types.CreateDiaryComment{},
		Resp:        types.DiaryComment{},
		Status:      http.StatusCreated,
	}
}

func AddCommentRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	var payload types.CreateDiaryComment

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	comment, err := database.CreateDiaryComment(d.Context, id, d.Auth.ID, payload.Content)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Status: http.StatusCreated,
		Json:   comment,
	}
}

func DeleteCommentDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete Diary Comment",
		Description: "Deletes a diary comment. Allowed for the comment's author, the diary's author and admins.",
		Params:      []docs.Parameter{api.PathParam("id", "The comment ID")},
	}
}

func DeleteCommentRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	if err := database.DeleteDiaryComment(d.Context, id, d.Auth.ID, d.Auth.IsAdmin); err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
