package health

import (
	"net/http"

	docs "encore/doclib"
	"encore/state"
	"encore/types"
	"encore/uapi"

	"go.uber.org/zap"
)

const (
	statusOK       = "ok"
	statusError    = "error"
	statusDisabled = "disabled"
)

func CheckDocs() *docs.Doc {
	return &docs.Doc{
		Summary: "Health Check",
		Description: "Runs a trivial query against the database and pings Redis. Responds 503 when the database is unreachable. " +
			"`authenticated` tells whether the request carried a valid session.",
		Resp: types.HealthStatus{},
	}
}

func CheckRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	status := types.HealthStatus{
		Database:      statusOK,
		Redis:         statusDisabled,
		Authenticated: d.Auth.Authorized,
	}
	code := http.StatusOK

	if err := state.Pool.WithContext(d.Context).Exec("SELECT 1").Error; err != nil {
		state.Logger.Error("Health check database query failed", zap.Error(err))
		status.Database = statusError
		code = http.StatusServiceUnavailable
	}

	if state.Redis != nil {
		status.Redis = statusOK
		if err := state.Redis.Ping(d.Context).Err(); err != nil {
			state.Logger.Warn("Health check Redis ping failed", zap.Error(err))
			status.Redis = statusError
		}
	}

	return uapi.HttpResponse{
		Status: code,
		Json:   status,
	}
}
