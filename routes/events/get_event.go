package events

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func GetEventDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Event",
		Description: "Returns an event with its review count, average rating and number of public diaries.",
		Params:      []docs.Parameter{api.PathParam("id", "The event ID")},
		Resp:        types.EventDetail{},
	}
}

func GetEventRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	event, err := database.GetEvent(d.Context, id)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: event,
	}
}
