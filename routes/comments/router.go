package comments

import (
	"encore/api"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Comments"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Threaded comments on reviews."
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/reviews/{id}/comments",
		OpId:    "comments.list",
		Method:  uapi.GET,
		Docs:    ListCommentsDocs,
		Handler: ListCommentsRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}/comments",
		OpId:    "comments.create",
		Method:  uapi.POST,
		Docs:    CreateCommentDocs,
		Handler: CreateCommentRoute,
		Auth:    []uapi.AuthType{{Type: api.AuthTypeUser}},
	}.Route(r)

	uapi.Route{
		Pattern: "/comments/{id}",
		OpId:    "comments.delete",
		Method:  uapi.DELETE,
		Docs:    DeleteCommentDocs,
		Handler: DeleteCommentRoute,
		Auth:    []uapi.AuthType{{Type: api.AuthTypeUser}},
	}.Route(r)
}
