package api

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"sync"

	"encore/database"
	"encore/state"
	"encore/uapi"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PageParams reads sort, limit and cursor from the query string.
func PageParams(r *http.Request) (database.PageRequest, error) {
	q := r.URL.Query()

	sort, err := database.ParseSort(q.Get("sort"))
	if err != nil {
		return database.PageRequest{}, err
	}

	p := database.PageRequest{Sort: sort, Cursor: q.Get("cursor")}

	if l := q.Get("limit"); l != "" {
		p.Limit, err = strconv.Atoi(l)
		if err != nil || p.Limit < 1 {
			return database.PageRequest{}, fmt.Errorf("%w: limit must be a positive number", database.ErrInvalidInput)
		}
	}

	return p, nil
}

func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", database.ErrInvalidInput, name)
	}

	return id, nil
}

// OptionalUUIDQuery parses an optional UUID query parameter.
func OptionalUUIDQuery(r *http.Request, name string) (*uuid.UUID, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}

	id, err := uuid.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a UUID", database.ErrInvalidInput, name)
	}

	return &id, nil
}

func BoolQuery(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

var compiled sync.Map // reflect.Type -> map[string]string

// ReadBody decodes and validates a JSON request body into dst.
func ReadBody[T any](r *http.Request, dst *T) (uapi.HttpResponse, bool) {
	hresp, ok := uapi.MarshalReq(r, dst)
	if !ok {
		return hresp, false
	}

	err := state.Validator.Struct(dst)
	if err == nil {
		return uapi.HttpResponse{}, true
	}

	verrs, isValidation := err.(validator.ValidationErrors)
	if !isValidation {
		return uapi.DefaultResponse(http.StatusBadRequest), false
	}

	typ := reflect.TypeOf(*dst)
	msgs, found := compiled.Load(typ)
	if !found {
		msgs, _ = compiled.LoadOrStore(typ, uapi.CompileValidationErrors(*dst))
	}

	return uapi.ValidatorErrorResponse(msgs.(map[string]string), verrs), false
}
