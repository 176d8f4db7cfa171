package diaries

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func ToggleLikeDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Toggle Diary Like",
		Description: "Likes the diary, or removes the like. The author is notified on like.",
		Params:      []docs.Parameter{api.PathParam("id", "The diary ID")},
		Resp:        types.LikeResponse{},
	}
}

func ToggleLikeRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	liked, count, err := database.ToggleDiaryLike(d.Context, id, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.LikeResponse{Liked: liked, Count: count},
	}
}

func ToggleSaveDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Toggle Diary Save",
		Description: "Saves the diary to the caller's collection, or removes it.",
		Params:      []docs.Parameter{api.PathParam("id", "The diary ID")},
		Resp:        types.SaveResponse{},
	}
}

func ToggleSaveRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	saved, err := database.ToggleDiarySave(d.Context, id, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.SaveResponse{Saved: saved},
	}
}
