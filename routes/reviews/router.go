package reviews

import (
	"encore/api"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
)

const tagName = "Reviews"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "Reviews of events with ratings, media, likes, bookmarks and moderation."
}

func (b Router) Routes(r *chi.Mux) {
	user := []uapi.AuthType{{Type: api.AuthTypeUser}}
	admin := []uapi.AuthType{{Type: api.AuthTypeAdmin}}

	uapi.Route{
		Pattern: "/reviews",
		OpId:    "reviews.list",
		Method:  uapi.GET,
		Docs:    ListReviewsDocs,
		Handler: ListReviewsRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/best",
		OpId:    "reviews.best",
		Method:  uapi.GET,
		Docs:    BestReviewsDocs,
		Handler: BestReviewsRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/bookmarks",
		OpId:    "reviews.bookmarks",
		Method:  uapi.GET,
		Docs:    BookmarksDocs,
		Handler: BookmarksRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/reports",
		OpId:    "reviews.reports",
		Method:  uapi.GET,
		Docs:    ListReportsDocs,
		Handler: ListReportsRoute,
		Auth:    admin,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/reports/{id}",
		OpId:    "reviews.resolveReport",
		Method:  uapi.PATCH,
		Docs:    ResolveReportDocs,
		Handler: ResolveReportRoute,
		Auth:    admin,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/select-best",
		OpId:    "reviews.selectBest",
		Method:  uapi.POST,
		Docs:    SelectBestDocs,
		Handler: SelectBestRoute,
		Auth:    admin,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}",
		OpId:    "reviews.get",
		Method:  uapi.GET,
		Docs:    GetReviewDocs,
		Handler: GetReviewRoute,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews",
		OpId:    "reviews.create",
		Method:  uapi.POST,
		Docs:    CreateReviewDocs,
		Handler: CreateReviewRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}",
		OpId:    "reviews.update",
		Method:  uapi.PUT,
		Docs:    UpdateReviewDocs,
		Handler: UpdateReviewRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}",
		OpId:    "reviews.delete",
		Method:  uapi.DELETE,
		Docs:    DeleteReviewDocs,
		Handler: DeleteReviewRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}/like",
		OpId:    "reviews.toggleLike",
		Method:  uapi.POST,
		Docs:    ToggleLikeDocs,
		Handler: ToggleLikeRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}/bookmark",
		OpId:    "reviews.toggleBookmark",
		Method:  uapi.POST,
		Docs:    ToggleBookmarkDocs,
		Handler: ToggleBookmarkRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}/helpful",
		OpId:    "reviews.toggleHelpful",
		Method:  uapi.POST,
		Docs:    ToggleHelpfulDocs,
		Handler: ToggleHelpfulRoute,
		Auth:    user,
	}.Route(r)

	uapi.Route{
		Pattern: "/reviews/{id}/report",
		OpId:    "reviews.report",
		Method:  uapi.POST,
		Docs:    ReportReviewDocs,
		Handler: ReportReviewRoute,
		Auth:    user,
	}.Route(r)
}
