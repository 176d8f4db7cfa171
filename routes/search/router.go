package search

import (
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Search"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Search across events, reviews, users and diaries."
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/search",
		OpId:    "search.all",
		Method:  uapi.GET,
		Docs:    SearchDocs,
		Handler: SearchRoute,
	}.Route(r)
}
