// Package uapi registers documented routes on a chi router and runs their
// handlers behind a shared authorization hook.
package uapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	docs "encore/doclib"

	"github.com/infinitybotlist/eureka/jsonimpl"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"
)

// UAPIConstants holds the canned bodies DefaultResponse answers with.
type UAPIConstants struct {
	ResourceNotFound    string // 404
	BadRequest          string // 400
	Forbidden           string // 403
	Unauthorized        string // 401
	InternalServerError string // 500
	MethodNotAllowed    string // 405
	BodyRequired        string // 400, empty body
	Conflict            string // 409
	TooManyRequests     string // 429
}

type UAPIDefaultResponder interface {
	// New wraps msg and optional field context in the API's error type
	New(msg string, ctx map[string]string) any
}

// UAPIInitData is only meaningful while routers are being mounted.
type UAPIInitData struct {
	Tag string
}

// UAPIState is shared by every route. api.Setup fills it in once at startup.
type UAPIState struct {
	Logger    *zap.Logger
	Authorize func(r Route, req *http.Request) (AuthData, HttpResponse, bool)

	// Maps a Route auth type to the OpenAPI security scheme documenting it
	AuthTypeMap map[string]string

	// Extra checks run against every route as it is mounted
	BaseSanityCheck func(r Route) error

	// Called with the recovered value when a handler panics
	ReportPanic func(r Route, req *http.Request, v any)

	// Lives as long as the server
	Context context.Context

	Constants        *UAPIConstants
	DefaultResponder UAPIDefaultResponder

	InitData UAPIInitData
}

func (s *UAPIState) SetCurrentTag(tag string) {
	s.InitData.Tag = tag
}

func SetupState(s UAPIState) {
	if s.Constants == nil {
		panic("Constants is nil")
	}

	State = &s
}

var State *UAPIState

// APIRouter is a group of routes mounted under one OpenAPI tag.
type APIRouter interface {
	Routes(r *chi.Mux)
	Tag() (name string, description string)
}

type Method int

const (
	GET Method = iota
	POST
	PATCH
	PUT
	DELETE
)

var methodNames = [...]string{GET: http.MethodGet, POST: http.MethodPost, PATCH: http.MethodPatch, PUT: http.MethodPut, DELETE: http.MethodDelete}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		panic("Invalid method")
	}
	return methodNames[m]
}

type AuthType struct {
	Type string
}

// AuthData describes the caller. ID is empty for anonymous requests.
type AuthData struct {
	TargetType string `json:"target_type"`
	ID         string `json:"id"`
	Authorized bool   `json:"authorized"`
	IsAdmin    bool   `json:"is_admin"`
}

// Represents a route on the API
type Route struct {
	Method  Method
	Pattern string
	OpId    string
	Handler func(d RouteData, r *http.Request) HttpResponse
	Docs    func() *docs.Doc
	Auth    []AuthType
	// Lets anonymous callers through a route that has Auth set
	AuthOptional bool
}

type RouteData struct {
	Context context.Context
	Auth    AuthData
}

type Router interface {
	Get(pattern string, h http.HandlerFunc)
	Post(pattern string, h http.HandlerFunc)
	Patch(pattern string, h http.HandlerFunc)
	Put(pattern string, h http.HandlerFunc)
	Delete(pattern string, h http.HandlerFunc)
}

func (r Route) String() string {
	return r.Method.String() + " " + r.Pattern + " (" + r.OpId + ")"
}

// pathParams lists the {names} in a chi pattern, in order.
func pathParams(pattern string) ([]string, error) {
	if strings.Count(pattern, "{") != strings.Count(pattern, "}") {
		return nil, errors.New("mismatched { and }")
	}

	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			names = append(names, seg[1:len(seg)-1])
		} else if strings.ContainsAny(seg, "{}") {
			return nil, errors.New("path parameters must fill a whole segment")
		}
	}

	return names, nil
}

func (r Route) check() {
	switch {
	case r.OpId == "":
		panic("route has no OpId: " + r.String())
	case r.Pattern == "":
		panic("route has no pattern: " + r.String())
	case r.Handler == nil:
		panic("route has no handler: " + r.String())
	case r.Docs == nil:
		panic("route has no docs: " + r.String())
	case State.InitData.Tag == "":
		panic("route mounted outside a router tag: " + r.String())
	}

	if State.BaseSanityCheck != nil {
		if err := State.BaseSanityCheck(r); err != nil {
			panic("route failed sanity check: " + err.Error())
		}
	}
}

// doc completes the route's own docs with what only the route knows.
func (r Route) doc() *docs.Doc {
	d := r.Docs()
	d.Pattern = r.Pattern
	d.OpId = r.OpId
	d.Method = r.Method.String()
	d.Tags = []string{State.InitData.Tag}
	d.AuthType = make([]string, 0, len(r.Auth))

	for _, auth := range r.Auth {
		scheme, ok := State.AuthTypeMap[auth.Type]
		if !ok {
			panic("unknown auth type " + auth.Type + ": " + r.String())
		}

		d.AuthType = append(d.AuthType, scheme)
	}

	var documented []string
	for _, param := range d.Params {
		if param.In == "" || param.Name == "" || param.Schema == nil {
			panic("incomplete param " + param.Name + ": " + r.String())
		}

		if param.In == "path" {
			documented = append(documented, param.Name)
		}
	}

	inPattern, err := pathParams(r.Pattern)
	if err != nil {
		panic(err.Error() + ": " + r.String())
	}

	if !slices.Equal(inPattern, documented) {
		panic("path params in pattern and docs differ: " + r.String())
	}

	return d
}

// Route documents r and mounts it on ro. Misconfigured routes panic so they
// never make it past startup.
func (r Route) Route(ro Router) {
	r.check()
	docs.Route(r.doc())

	mount := map[Method]func(string, http.HandlerFunc){
		GET:    ro.Get,
		POST:   ro.Post,
		PATCH:  ro.Patch,
		PUT:    ro.Put,
		DELETE: ro.Delete,
	}[r.Method]

	mount(r.Pattern, func(w http.ResponseWriter, req *http.Request) {
		handle(r, w, req)
	})
}

func write(w http.ResponseWriter, msg HttpResponse) {
	if msg.Json != nil {
		body, err := jsonimpl.Marshal(msg.Json)
		if err != nil {
			State.Logger.Error("[uapi.write] Failed to encode response", zap.Error(err))
			msg = DefaultResponse(http.StatusInternalServerError)
		} else {
			msg.Bytes = body
		}
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	for k, v := range msg.Headers {
		h.Set(k, v)
	}

	if msg.Status == 0 {
		msg.Status = http.StatusOK
	}

	w.WriteHeader(msg.Status)

	if len(msg.Bytes) > 0 {
		w.Write(msg.Bytes)
		return
	}

	if msg.Data != "" {
		w.Write([]byte(msg.Data))
	}
}

// HttpResponse is what a handler returns. Json wins over Bytes, which wins
// over Data.
type HttpResponse struct {
	Data    string
	Bytes   []byte
	Json    any
	Headers map[string]string
	// Status is the HTTP status code to send, 200 when unset
	Status int
}

// CompileValidationErrors collects the msg (and amsg for slice elements)
// struct tags of payload, keyed by field name.
func CompileValidationErrors(payload any) map[string]string {
	msgs := make(map[string]string)

	for _, f := range reflect.VisibleFields(reflect.TypeOf(payload)) {
		msgs[f.Name] = f.Tag.Get("msg")

		if m := f.Tag.Get("amsg"); m != "" {
			msgs[f.Name+"$arr"] = m
		}
	}

	return msgs
}

// ValidatorErrorResponse turns validation failures into a 400 whose message is
// the first failure and whose context has one entry per failing field.
func ValidatorErrorResponse(compiled map[string]string, v validator.ValidationErrors) HttpResponse {
	fields := make(map[string]string, len(v))
	first := ""

	for _, err := range v {
		name := err.StructField()
		if arr, _, ok := strings.Cut(err.Field(), "["); ok {
			name = arr + "$arr"
		}

		msg := err.Error()
		if m := compiled[name]; m != "" {
			msg = m + " [" + err.Tag() + "]"
		}

		if first == "" {
			first = msg
		}

		fields[err.StructField()] = msg
	}

	return HttpResponse{
		Status: http.StatusBadRequest,
		Json:   State.DefaultResponder.New(first, fields),
	}
}

// DefaultResponse answers with the canned body for statusCode. 200 becomes 204
// and unknown codes carry the internal error body.
func DefaultResponse(statusCode int) HttpResponse {
	c := State.Constants

	bodies := map[int]string{
		http.StatusBadRequest:          c.BadRequest,
		http.StatusUnauthorized:        c.Unauthorized,
		http.StatusForbidden:           c.Forbidden,
		http.StatusNotFound:            c.ResourceNotFound,
		http.StatusMethodNotAllowed:    c.MethodNotAllowed,
		http.StatusConflict:            c.Conflict,
		http.StatusTooManyRequests:     c.TooManyRequests,
		http.StatusInternalServerError: c.InternalServerError,
	}

	if statusCode == http.StatusOK || statusCode == http.StatusNoContent {
		return HttpResponse{Status: http.StatusNoContent}
	}

	body, ok := bodies[statusCode]
	if !ok {
		body = c.InternalServerError
	}

	return HttpResponse{Status: statusCode, Data: body}
}

// handle runs the route in its own goroutine so a panic or a slow handler
// never takes the connection with it. Nothing is written once the request
// context is done.
func handle(r Route, w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	resp := make(chan HttpResponse, 1)

	go func() {
		defer func() {
			if v := recover(); v != nil {
				State.Logger.Error("[uapi.handle] Handler panicked",
					zap.String("opId", r.OpId),
					zap.String("path", req.URL.Path),
					zap.Any("value", v),
				)

				if State.ReportPanic != nil {
					State.ReportPanic(r, req, v)
				}

				resp <- DefaultResponse(http.StatusInternalServerError)
			}
		}()

		auth, denied, ok := State.Authorize(r, req)
		if !ok {
			resp <- denied
			return
		}

		resp <- r.Handler(RouteData{Context: ctx, Auth: auth}, req)
	}()

	select {
	case <-ctx.Done():
	case msg := <-resp:
		write(w, msg)
	}
}

// MarshalReq decodes the JSON body of r into dst. ok is false when the body is
// missing or malformed, and resp then holds the 400 to send.
func MarshalReq(r *http.Request, dst any) (resp HttpResponse, ok bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		State.Logger.Error("[uapi.MarshalReq] Failed to read body", zap.Error(err), zap.Int("size", len(body)))
		return DefaultResponse(http.StatusBadRequest), false
	}

	if len(body) == 0 {
		return HttpResponse{
			Status: http.StatusBadRequest,
			Data:   State.Constants.BodyRequired,
		}, false
	}

	if err := jsonimpl.Unmarshal(body, dst); err != nil {
		return HttpResponse{
			Status: http.StatusBadRequest,
			Json: State.DefaultResponder.New("Invalid JSON", map[string]string{
				"error": err.Error(),
			}),
		}, false
	}

	return HttpResponse{}, true
}
