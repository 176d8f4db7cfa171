package users

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/state"
	"encore/types"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func SetAdminDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Set Admin",
		Description: "Grants or revokes admin rights. Admin only. The identity provider's `role` metadata wins again on " +
			"the user's next profile sync.",
		Params: []docs.Parameter{usernameParam()},
		Req:    types.SetAdmin{},
		Resp:   types.User{},
	}
}

func SetAdminRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	var payload types.SetAdmin

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	target, err := database.GetProfile(d.Context, chi.URLParam(r, "username"), "")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	user, err := database.SetAdmin(d.Context, target.ID, payload.IsAdmin)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	state.Logger.Info("Changed admin rights",
		zap.String("userID", user.ID),
		zap.Bool("isAdmin", user.IsAdmin),
		zap.String("by", d.Auth.ID),
	)

	return uapi.HttpResponse{
		Json: user,
	}
}

func ReconcileCountersDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Reconcile Counters",
		Description: "Recomputes every review, diary and user counter from the stored rows. Admin only.",
		Resp:        types.ReconcileSummary{},
	}
}

func ReconcileCountersRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	summary, err := database.ReconcileCounters(d.Context)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: summary,
	}
}
