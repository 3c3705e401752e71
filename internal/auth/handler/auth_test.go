package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chemstock/chemstock-backend/internal/auth/handler"
	"github.com/chemstock/chemstock-backend/internal/auth/jwt"
	"github.com/chemstock/chemstock-backend/internal/auth/service"
	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/config"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/i18n"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type directory map[string]domain.User

func (d directory) Lookup(_ context.Context, empID string) (*domain.User, error) {
	u, ok := d[empID]
	if !ok {
		return nil, errors.EmployeeNotFound()
	}
	return &u, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := repository.New(store.NewMemoryBackend(), nil, logger.Nop())
	mgr := jwt.NewManager(&config.JWTConfig{Secret: "s", AccessExpiry: time.Hour, Issuer: "chemstock"})
	svc := service.NewAuthService(directory{
		"E1001": {EmpID: "E1001", EmpName: "Nguyen Van A", DeptName: "Chemical"},
	}, repo, mgr, false, logger.Nop())

	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	handler.NewAuthHandler(svc, logger.Nop()).Mount(r, nil, httputil.Authenticate(mgr, true))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestLoginMeLogout(t *testing.T) {
	h := newRouter(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/auth/login", `{"emp_id":"E1001"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login service.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "Nguyen Van A", login.User.EmpName)

	rec, env = do(t, h, http.MethodGet, "/api/v1/auth/me", "", login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me domain.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "E1001", me.EmpID)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/auth/logout", "", login.AccessToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/api/v1/auth/me", "", login.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestLogin_Errors(t *testing.T) {
	h := newRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown employee", `{"emp_id":"E404"}`, http.StatusUnauthorized, "EMPLOYEE_NOT_FOUND"},
		{"missing id", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad json", `{`, http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/api/v1/auth/login", tt.body, "")
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestMe_RequiresToken(t *testing.T) {
	rec, env := do(t, newRouter(t), http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}
