package diaries

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func CreateDiaryDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Create Diary",
		Description: "Posts a diary with 1 to 10 media items. Diaries are public unless `is_public` is false.",
		Req:         types.CreateDiary{},
		Resp:        types.MusicDiary{},
		Status:      http.StatusCreated,
	}
}

func CreateDiaryRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var payload types.CreateDiary

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	diary, err := database.CreateDiary(d.Context, d.Auth.ID, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Status: http.StatusCreated,
		Json:   diary,
	}
}

func UpdateDiaryDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Update Diary",
		Description: "Replaces the content of one of the caller's diaries.",
		Params:      []docs.Parameter{api.PathParam("id", "The diary ID")},
		Req:         types.CreateDiary{},
		Resp:        types.MusicDiary{},
	}
}

func UpdateDiaryRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	var payload types.CreateDiary

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	diary, err := database.UpdateDiary(d.Context, id, d.Auth.ID, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: diary,
	}
}

func DeleteDiaryDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete Diary",
		Description: "Deletes a diary with its likes, saves and comments. Authors may delete their own diaries, admins any.",
		Params:      []docs.Parameter{api.PathParam("id", "The diary ID")},
	}
}

func DeleteDiaryRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	if err := database.DeleteDiary(d.Context, id, d.Auth.ID, d.Auth.IsAdmin); err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
