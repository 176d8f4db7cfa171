package notifications

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func MarkReadDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Mark Read",
		Description: "Marks one of the caller's notifications as read.",
		Params:      []docs.Parameter{api.PathParam("id", "The notification ID")},
	}
}

func MarkReadRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	if err := database.MarkNotificationRead(d.Context, d.Auth.ID, id); err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}

func MarkAllReadDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Mark All Read",
		Description: "Marks every notification of the caller as read and returns how many changed.",
		Resp:        types.UnreadCount{},
	}
}

func MarkAllReadRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	n, err := database.MarkAllNotificationsRead(d.Context, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.UnreadCount{Count: n},
	}
}

func DeleteNotificationDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Delete Notification",
		Description: "Deletes one of the caller's notifications.",
		Params:      []docs.Parameter{api.PathParam("id", "The notification ID")},
	}
}

func DeleteNotificationRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	if err := database.DeleteNotification(d.Context, d.Auth.ID, id); err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.DefaultResponse(http.StatusNoContent)
}
