package api

import (
	"context"
	"errors"
	"net/http"

	"encore/database"
	"encore/reporting"
	"encore/state"
	"encore/types"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func jsonError(status int, msg string) uapi.HttpResponse {
	return uapi.HttpResponse{
		Status: status,
		Json:   types.ApiError{Message: msg},
	}
}

// ErrorResponse maps a domain error onto an HTTP response. Anything unexpected
// is logged, reported and hidden behind a 500.
func ErrorResponse(err error, r *http.Request) uapi.HttpResponse {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return jsonError(http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrForbidden):
		return uapi.DefaultResponse(http.StatusForbidden)
	case errors.Is(err, database.ErrUnauthorized):
		return uapi.DefaultResponse(http.StatusUnauthorized)
	case errors.Is(err, database.ErrSelfFollow),
		errors.Is(err, database.ErrInvalidCursor),
		errors.Is(err, database.ErrInvalidInput):
		return jsonError(http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrAlreadyReported), errors.Is(err, gorm.ErrDuplicatedKey):
		return jsonError(http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled):
		return uapi.HttpResponse{Status: 499}
	}

	pattern := ""
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		pattern = rctx.RoutePattern()
	}

	state.Logger.Error("Request failed", zap.Error(err), zap.String("method", r.Method), zap.String("pattern", pattern))
	reporting.CaptureError(err, r, r.Method+" "+pattern)

	return uapi.DefaultResponse(http.StatusInternalServerError)
}
