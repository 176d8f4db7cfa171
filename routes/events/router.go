package events

import (
	"encore/api"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Events"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Festivals, concerts and shows that reviews and diaries can be attached to."
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/events",
		OpId:    "events.list",
		Method:  uapi.GET,
		Docs:    ListEventsDocs,
		Handler: ListEventsRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/events/{id}",
		OpId:    "events.get",
		Method:  uapi.GET,
		Docs:    GetEventDocs,
		Handler: GetEventRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/events",
		OpId:    "events.create",
		Method:  uapi.POST,
		Docs:    CreateEventDocs,
		Handler: CreateEventRoute,
		Auth:    []uapi.AuthType{{Type: api.AuthTypeAdmin}},
	}.Route(r)

	uapi.Route{
		Pattern: "/events/{id}",
		OpId:    "events.update",
		Method:  uapi.PUT,
		Docs:    UpdateEventDocs,
		Handler: UpdateEventRoute,
		Auth:    []uapi.AuthType{{Type: api.AuthTypeAdmin}},
	}.Route(r)

	uapi.Route{
		Pattern: "/events/{id}",
		OpId:    "events.delete",
		Method:  uapi.DELETE,
		Docs:    DeleteEventDocs,
		Handler: DeleteEventRoute,
		Auth:    []uapi.AuthType{{Type: api.AuthTypeAdmin}},
	}.Route(r)
}
