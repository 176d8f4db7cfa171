package events

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func CreateEventDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Create Event",
		Description: "Creates an event. Admin only.",
		Req:         types.CreateEvent{},
		Resp:        types.Event{},
		Status:      http.StatusCreated,
	}
}

func CreateEventRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var payload types.CreateEvent

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	event, err := database.CreateEvent(d.Context, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Status: http.StatusCreated,
		Json:   event,
	}
}
