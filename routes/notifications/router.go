package notifications

import (
	"encore/api"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Notifications"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "The caller's notifications about likes, comments, follows and best review picks."
}

func (b Router) Routes(r *chi.Mux) {
	user := []uapi.AuthType{{Type: api.AuthTypeUser}}

	uapi.Route{
		Pattern: "/notifications",
		OpId:    "notifications.list",
		Method:  uapi.GET,
		Docs:    ListNotificationsDocs,
		Handler: ListNotificationsRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/notifications/unread-count",
		OpId:    "notifications.unreadCount",
		Method:  uapi.GET,
		Docs:    UnreadCountDocs,
		Handler: UnreadCountRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/notifications/read-all",
		OpId:    "notifications.markAllRead",
		Method:  uapi.POST,
		Docs:    MarkAllReadDocs,
		Handler: MarkAllReadRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/notifications/{id}/read",
		OpId:    "notifications.markRead",
		Method:  uapi.POST,
		Docs:    MarkReadDocs,
		Handler: MarkReadRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/notifications/{id}",
		OpId:    "notifications.delete",
		Method:  uapi.DELETE,
		Docs:    DeleteNotificationDocs,
		Handler: DeleteNotificationRoute,
		Auth:    user,
	}.Route(r)
}
