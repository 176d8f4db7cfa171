package home

import (
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Home"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "The landing page feed."
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/home",
		OpId:    "home.feed",
		Method:  uapi.GET,
		Docs:    FeedDocs,
		Handler: FeedRoute,
	}.Route(r)
}
