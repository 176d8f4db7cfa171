package uploads

import (
	"encore/api"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Media"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Image and video uploads for reviews and diaries."
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/media/upload",
		OpId:    "media.upload",
		Method:  uapi.POST,
		Docs:    UploadDocs,
		Handler: UploadRoute,
		Auth:    []uapi.AuthType{{Type: api.AuthTypeUser}},
	}.Route(r)
}
