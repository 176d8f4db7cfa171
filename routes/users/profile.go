package users

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

func usernameParam() docs.Parameter {
	return api.PathParam("username", "The user's username")
}

func GetProfileDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Profile",
		Description: "Returns a user's public profile with follower counts and whether the caller follows them.",
		Params:      []docs.Parameter{usernameParam()},
		Resp:        types.UserProfile{},
	}
}

func GetProfileRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	profile, err := database.GetProfile(d.Context, chi.URLParam(r, "username"), d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: profile,
	}
}

func FollowersDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "List Followers",
		Description: "Lists the users following this user, most recent first.",
		Params:      append([]docs.Parameter{usernameParam()}, api.PageDocParams(false)...),
		Resp:        types.UserPage{},
	}
}

func FollowersRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	users, err := database.ListFollowers(d.Context, chi.URLParam(r, "username"), page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: users,
	}
}

func FollowingDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "List Following",
		Description: "Lists the users this user follows, most recent first.",
		Params:      append([]docs.Parameter{usernameParam()}, api.PageDocParams(false)...),
		Resp:        types.UserPage{},
	}
}

func FollowingRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	users, err := database.ListFollowing(d.Context, chi.URLParam(r, "username"), page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: users,
	}
}
