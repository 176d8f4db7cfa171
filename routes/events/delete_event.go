package events

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/uapi"
)

func DeleteEventDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete Event",
		Description: "Deletes an event. Reviews and diaries of the event are kept without the link. Admin only.",
		Params:      []docs.Parameter{api.PathParam("id", "The event ID")},
	}
}

func DeleteEventRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	if err := database.DeleteEvent(d.Context, id); err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
