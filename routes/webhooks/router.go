package webhooks

import (
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Webhooks"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Inbound events from the identity provider."
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/webhooks/identity",
		OpId:    "webhooks.identity",
		Method:  uapi.POST,
		Docs:    IdentityDocs,
		Handler: IdentityRoute,
	}.Route(r)
}
