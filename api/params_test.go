package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"encore/database"
	"encore/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		query   string
		want    database.PageRequest
		wantErr bool
	}{
		{query: "", want: database.PageRequest{Sort: database.SortRecent}},
		{query: "sort=popular&limit=5&cursor=abc", want: database.PageRequest{Sort: database.SortPopular, Limit: 5, Cursor: "abc"}},
		{query: "limit=0", wantErr: true},
		{query: "limit=ten", wantErr: true},
		{query: "sort=random", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got, err := PageParams(httptest.NewRequest(http.MethodGet, "/reviews?"+tc.query, nil))
			if tc.wantErr {
				assert.ErrorIs(t, err, database.ErrInvalidInput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUUIDParam(t *testing.T) {
	id := uuid.New()

	got, err := UUIDParam(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String()), "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = UUIDParam(withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "42"), "id")
	assert.ErrorIs(t, err, database.ErrInvalidInput)

	missing, err := OptionalUUIDQuery(httptest.NewRequest(http.MethodGet, "/", nil), "event_id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = OptionalUUIDQuery(httptest.NewRequest(http.MethodGet, "/?event_id=nope", nil), "event_id")
	assert.ErrorIs(t, err, database.ErrInvalidInput)

	assert.True(t, BoolQuery(httptest.NewRequest(http.MethodGet, "/?unread_only=true", nil), "unread_only"))
	assert.False(t, BoolQuery(httptest.NewRequest(http.MethodGet, "/?unread_only=maybe", nil), "unread_only"))
}

func TestErrorResponse(t *testing.T) {
	testutil.Setup(t)
	Setup()
	t.Cleanup(func() { Sessions = nil })

	r := httptest.NewRequest(http.MethodGet, "/reviews", nil)

	tests := []struct {
		err    error
		status int
	}{
		{database.ErrNotFound, http.StatusNotFound},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: event", database.ErrNotFound), http.StatusNotFound},
		{database.ErrForbidden, http.StatusForbidden},
		{database.ErrUnauthorized, http.StatusUnauthorized},
		{database.ErrSelfFollow, http.StatusBadRequest},
		{database.ErrInvalidCursor, http.StatusBadRequest},
		{fmt.Errorf("%w: limit", database.ErrInvalidInput), http.StatusBadRequest},
		{database.ErrAlreadyReported, http.StatusConflict},
		{gorm.ErrDuplicatedKey, http.StatusConflict},
		{context.Canceled, 499},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.status, ErrorResponse(tc.err, r).Status)
		})
	}
}
