package diaries

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func GetDiaryDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Get Diary",
		Description: "Returns a diary. Private diaries are only visible to their author. Each reader is counted as one view " +
			"per day; the author's own reads are not counted.",
		Params: []docs.Parameter{api.PathParam("id", "The diary ID")},
		Resp:   types.DiaryView{},
	}
}

func GetDiaryRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	diary, err := database.GetDiary(d.Context, id, d.Auth.ID, database.ViewerKey(d.Auth.ID, r.RemoteAddr))
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: diary,
	}
}
