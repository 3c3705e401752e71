package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chemstock/chemstock-backend/pkg/actor"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/i18n"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestError_AppErrorIsLocalized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(i18n.WithLocale(req.Context(), i18n.LocaleVietnamese))
	rec := httptest.NewRecorder()

	Error(rec, req, errors.InsufficientStock(3, 5, "KG"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "3")
	assert.Equal(t, "5", resp.Error.Details["request"])
}

func TestError_UnknownErrorIsInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Error(rec, req, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, rec).Error.Code)
}

func TestJSONWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONWithMeta(rec, http.StatusOK, []int{1, 2}, NewMeta(2, 10, 25))

	resp := decode(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(25), resp.Meta.Total)
}

func TestNewMeta_AllOnOnePage(t *testing.T) {
	assert.Equal(t, 1, NewMeta(1, 0, 7).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 0, 0).TotalPages)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	var v map[string]any
	err := DecodeJSON(req, &v)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "errors.invalid_json", appErr.MessageKey)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	type body struct {
		ItemID   string  `json:"item_id" validate:"required"`
		Quantity float64 `json:"quantity" validate:"gt=0"`
		Type     string  `json:"type" validate:"oneof=IN OUT"`
	}

	err := Validate(&body{Type: "MOVE"})
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "this field is required", appErr.Details["item_id"])
	assert.Equal(t, "must be greater than 0", appErr.Details["quantity"])
	assert.Equal(t, "must be one of: IN OUT", appErr.Details["type"])

	assert.NoError(t, Validate(&body{ItemID: "1", Quantity: 0.5, Type: "IN"}))
}

type stubResolver struct {
	actor *actor.Actor
	err   error
}

func (s stubResolver) ResolveActor(string) (*actor.Actor, error) {
	return s.actor, s.err
}

func TestAuthenticate(t *testing.T) {
	var seen *actor.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = actor.FromContext(r.Context())
		NoContent(w)
	})
	emp := &actor.Actor{EmpID: "E77", Name: "Tran C"}

	tests := []struct {
		name     string
		resolver stubResolver
		required bool
		header   string
		status   int
		want     *actor.Actor
	}{
		{"valid token", stubResolver{actor: emp}, true, "Bearer abc", http.StatusNoContent, emp},
		{"missing header required", stubResolver{actor: emp}, true, "", http.StatusUnauthorized, nil},
		{"missing header optional", stubResolver{actor: emp}, false, "", http.StatusNoContent, nil},
		{"bad scheme", stubResolver{actor: emp}, false, "Basic abc", http.StatusUnauthorized, nil},
		{"expired token", stubResolver{err: errors.TokenExpired()}, false, "Bearer old", http.StatusUnauthorized, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			h := Logger(logger.Nop())(Authenticate(tt.resolver, tt.required)(next))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/transactions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestRequestID(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", got)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
