package users

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func MeDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Current User",
		Description: "Returns the signed in user with their reviewer stats.",
		Resp:        types.User{},
	}
}

func MeRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	user, err := database.GetUser(d.Context, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: user,
	}
}

func UpdateProfileDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Update Profile",
		Description: "Updates the caller's username, display name, bio and avatar. Usernames are unique.",
		Req:         types.UpdateProfile{},
		Resp:        types.User{},
	}
}

func UpdateProfileRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var payload types.UpdateProfile

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	user, err := database.UpdateProfile(d.Context, d.Auth.ID, payload)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: user,
	}
}
