package events

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func UpdateEventDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Update Event",
		Description: "Replaces the details of an event. Admin only.",
		Params:      []docs.Parameter{api.PathParam("id", "The event ID")},
		Req:         types.CreateEvent{},
		Resp:        types.Event{},
	}
}

func UpdateEventRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	var payload types.CreateEvent

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	event, err := database.UpdateEvent(d.Context, id, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: event,
	}
}
