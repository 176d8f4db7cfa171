package reviews

import (
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func ToggleLikeDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Toggle Review Like",
		Description: "Likes the review, or removes the like if the caller already liked it. The author is notified on like.",
		Params:      []docs.Parameter{api.PathParam("id", "The review ID")},
		Resp:        types.LikeResponse{},
	}
}

func ToggleLikeRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	liked, count, err := database.ToggleReviewLike(d.Context, id, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.LikeResponse{Liked: liked, Count: count},
	}
}

func ToggleBookmarkDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Toggle Review Bookmark",
		Description: "Bookmarks the review, or removes the bookmark.",
		Params:      []docs.Parameter{api.PathParam("id", "The review ID")},
		Resp:        types.BookmarkResponse{},
	}
}

func ToggleBookmarkRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	bookmarked, err := database.ToggleReviewBookmark(d.Context, id, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.BookmarkResponse{Bookmarked: bookmarked},
	}
}

func ToggleHelpfulDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Toggle Review Helpful",
		Description: "Marks the review as helpful, or removes the mark.",
		Params:      []docs.Parameter{api.PathParam("id", "The review ID")},
		Resp:        types.HelpfulResponse{},
	}
}

func ToggleHelpfulRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	helpful, count, err := database.ToggleReviewHelpful(d.Context, id, d.Auth.ID)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: types.HelpfulResponse{Helpful: helpful, Count: count},
	}
}
