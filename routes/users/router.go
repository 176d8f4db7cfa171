package users

import (
	"encore/api"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Users"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Profiles, follows and administration of users."
}

func (b Router) Routes(r *chi.Mux) {
	user := []uapi.AuthType{{Type: api.AuthTypeUser}}
	admin := []uapi.AuthType{{Type: api.AuthTypeAdmin}}

	uapi.Route{
		Pattern: "/me",
		OpId:    "users.me",
		Method:  uapi.GET,
		Docs:    MeDocs,
		Handler: MeRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/me",
		OpId:    "users.update",
		Method:  uapi.PATCH,
		Docs:    UpdateProfileDocs,
		Handler: UpdateProfileRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{username}",
		OpId:    "users.get",
		Method:  uapi.GET,
		Docs:    GetProfileDocs,
		Handler: GetProfileRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{username}/followers",
		OpId:    "users.followers",
		Method:  uapi.GET,
		Docs:    FollowersDocs,
		Handler: FollowersRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{username}/following",
		OpId:    "users.following",
		Method:  uapi.GET,
		Docs:    FollowingDocs,
		Handler: FollowingRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{username}/follow",
		OpId:    "users.toggleFollow",
		Method:  uapi.POST,
		Docs:    ToggleFollowDocs,
		Handler: ToggleFollowRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{username}/admin",
		OpId:    "users.setAdmin",
		Method:  uapi.PUT,
		Docs:    SetAdminDocs,
		Handler: SetAdminRoute,
		Auth:    admin,
	}.Route(r)

	uapi.Route{
		Pattern: "/admin/reconcile-counters",
		OpId:    "users.reconcileCounters",
		Method:  uapi.POST,
		Docs:    ReconcileCountersDocs,
		Handler: ReconcileCountersRoute,
		Auth:    admin,
	}.Route(r)
}
