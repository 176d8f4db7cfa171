package reviews

import (
	"fmt"
	"net/http"

	"encore/api"
	"encore/database"
	docs "encore/doclib"
	"encore/types"
	"encore/uapi"
)

func ReportReviewDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Report Review",
		Description: "Reports a review to the moderators. Each user can report a given review once.",
		Params:      []docs.Parameter{api.PathParam("id", "The review ID")},
		Req:         types.CreateReport{},
		Resp:        types.ReviewReport{},
		Status:      http.StatusCreated,
	}
}

func ReportReviewRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	var payload types.CreateReport

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	report, err := database.ReportReview(d.Context, id, d.Auth.ID, payload.Reason)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Status: http.StatusCreated,
		Json:   report,
	}
}

func ListReportsDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "List Reports",
		Description: "Lists review reports, newest first. Admin only.",
		Params: append([]docs.Parameter{
			api.QueryParam("status", "pending, resolved or dismissed; all when empty"),
		}, api.PageDocParams(false)...),
		Resp: types.ReportPage{},
	}
}

func ListReportsRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	page, err := api.PageParams(r)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	status := types.ReportStatus(r.URL.Query().Get("status"))
	switch status {
	case "", types.ReportStatusPending, types.ReportStatusResolved, types.ReportStatusDismissed:
	default:
		return api.ErrorResponse(fmt.Errorf("%w: unknown status %q", database.ErrInvalidInput, status), r)
	}

	reports, err := database.ListReports(d.Context, status, page)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: reports,
	}
}

func ResolveReportDocs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Resolve Report",
		Description: "Marks a report as resolved or dismissed. Admin only.",
		Params:      []docs.Parameter{api.PathParam("id", "The report ID")},
		Req:         types.ResolveReport{},
		Resp:        types.ReviewReport{},
	}
}

func ResolveReportRoute(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	var payload types.ResolveReport

	hresp, ok := api.ReadBody(r, &payload)
	if !ok {
		return hresp
	}

	report, err := database.ResolveReport(d.Context, id, payload.Status)
	if err != nil {
		return api.ErrorResponse(err, r)
	}

	return uapi.HttpResponse{
		Json: report,
	}
}
