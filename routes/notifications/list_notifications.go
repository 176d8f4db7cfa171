package notifications

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func ListNotificationsDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "List Notifications",
		Description: "Lists the caller's notifications, newest first.",
		Params: append([]docs.Parameter{
			api.QueryParam("unread_only", "Set to true to only list unread notifications"),
		}, api.PageDocParams(false)...),
		Resp: types.NotificationPage{},
	}
}

func ListNotificationsRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	notifications, err := database.ListNotifications(d.Context, database.NotificationFilter{
		UserID:     d.Auth.ID,
		UnreadOnly: api.BoolQuery(r, "unread_only"),
	}, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: notifications,
	}
}

func UnreadCountDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Unread Count",
		Description: "Returns how many of the caller's notifications are unread.",
		Resp:        types.UnreadCount{},
	}
}

func UnreadCountRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	count, err := database.UnreadNotificationCount(d.Context, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.UnreadCount{Count: count},
	}
}
