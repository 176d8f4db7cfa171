package health

import (
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Health"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Liveness checks."
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/health",
		OpId:    "health.check",
		Method:  uapi.GET,
		Docs:    CheckDocs,
		Handler: CheckRoute,
	}.Route(r)
}
