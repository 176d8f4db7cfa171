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

func ToggleFollowDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Toggle Follow",
		Description: "Follows the user, or unfollows them if the caller already does. Users cannot follow themselves.",
		Params:      []docs.Parameter{usernameParam()},
		Resp:        types.FollowResponse{},
	}
}

func ToggleFollowRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	target, err := database.GetProfile(d.Context, chi.URLParam(r, "username"), "")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	following, err := database.ToggleFollow(d.Context, d.Auth.ID, target.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.FollowResponse{Following: following},
	}
}
