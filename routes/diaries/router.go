package diaries

import (
	"encore/api"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Music Diary"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Photo and video diaries of shows, with likes, saves and comments."
}

func (b Router) Routes(r *chi.Mux) {
	user := []uapi.AuthType{{Type: api.AuthTypeUser}}

	uapi.Route{
		Pattern: "/diaries",
		OpId:    "musicDiary.feed",
		Method:  uapi.GET,
		Docs:    FeedDocs,
		Handler: FeedRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/saved",
		OpId:    "musicDiary.saved",
		Method:  uapi.GET,
		Docs:    SavedDocs,
		Handler: SavedRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/{id}",
		OpId:    "musicDiary.get",
		Method:  uapi.GET,
		Docs:    GetDiaryDocs,
		Handler: GetDiaryRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries",
		OpId:    "musicDiary.create",
		Method:  uapi.POST,
		Docs:    CreateDiaryDocs,
		Handler: CreateDiaryRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/{id}",
		OpId:    "musicDiary.update",
		Method:  uapi.PUT,
		Docs:    UpdateDiaryDocs,
		Handler: UpdateDiaryRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/{id}",
		OpId:    "musicDiary.delete",
		Method:  uapi.DELETE,
		Docs:    DeleteDiaryDocs,
		Handler: DeleteDiaryRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/{id}/like",
		OpId:    "musicDiary.toggleLike",
		Method:  uapi.POST,
		Docs:    ToggleLikeDocs,
		Handler: ToggleLikeRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/{id}/save",
		OpId:    "musicDiary.toggleSave",
		Method:  uapi.POST,
		Docs:    ToggleSaveDocs,
		Handler: ToggleSaveRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/{id}/comments",
		OpId:    "musicDiary.comments",
		Method:  uapi.GET,
		Docs:    ListCommentsDocs,
		Handler: ListCommentsRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/{id}/comments",
		OpId:    "musicDiary.addComment",
		Method:  uapi.POST,
		Docs:    AddCommentDocs,
		Handler: AddCommentRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/diaries/comments/{id}",
		OpId:    "musicDiary.deleteComment",
		Method:  uapi.DELETE,
		Docs:    DeleteCommentDocs,
		Handler: DeleteCommentRoute,
		Auth:    user,
	}.Route(r)
}
