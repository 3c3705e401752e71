package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/chemstock/chemstock-backend/internal/auth/jwt"
	"github.com/chemstock/chemstock-backend/internal/auth/service"
	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/actor"
	"github.com/chemstock/chemstock-backend/pkg/config"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	users map[string]domain.User
	err   error
	calls int
}

func (s *stubLookup) Lookup(_ context.Context, empID string) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[empID]
	if !ok {
		return nil, errors.EmployeeNotFound()
	}
	return &u, nil
}

func newAuth(t *testing.T, lookup *stubLookup, demo bool) (*service.AuthService, *repository.Repository, *jwt.Manager) {
	t.Helper()
	repo := repository.New(store.NewMemoryBackend(), nil, logger.Nop())
	mgr := jwt.NewManager(&config.JWTConfig{Secret: "s", AccessExpiry: time.Hour, Issuer: "chemstock"})
	return service.NewAuthService(lookup, repo, mgr, demo, logger.Nop()), repo, mgr
}

func TestLogin_StoresUserAndIssuesToken(t *testing.T) {
	lookup := &stubLookup{users: map[string]domain.User{
		"E1001": {EmpID: "E1001", EmpName: "Nguyen Van A", Dept: "CHM", DeptName: "Chemical"},
	}}
	svc, repo, mgr := newAuth(t, lookup, false)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &service.LoginRequest{EmpID: " E1001 "})
	require.NoError(t, err)
	assert.Equal(t, "E1001", resp.User.EmpID)
	assert.False(t, resp.Demo)

	stored, err := repo.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Nguyen Van A", stored.EmpName)

	a, err := mgr.ResolveActor(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "E1001", a.EmpID)
	assert.Equal(t, "CHM", a.Dept)
}

func TestLogin_UnknownEmployee(t *testing.T) {
	svc, repo, _ := newAuth(t, &stubLookup{}, true)

	_, err := svc.Login(context.Background(), &service.LoginRequest{EmpID: "E404"})
	assert.True(t, errors.Is(err, errors.ErrEmployeeNotFound))

	stored, err := repo.GetUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestLogin_BlankID(t *testing.T) {
	lookup := &stubLookup{}
	svc, _, _ := newAuth(t, lookup, false)

	_, err := svc.Login(context.Background(), &service.LoginRequest{EmpID: "   "})
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Zero(t, lookup.calls)
}

func TestLogin_DemoFallback(t *testing.T) {
	down := errors.LookupUnavailable(fmt.Errorf("dial tcp: connection refused"))

	tests := []struct {
		name     string
		demo     bool
		empID    string
		wantDemo bool
	}{
		{"enabled admin", true, "admin", true},
		{"disabled admin", false, "admin", false},
		{"enabled other id", true, "E1001", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newAuth(t, &stubLookup{err: down}, tt.demo)

			resp, err := svc.Login(context.Background(), &service.LoginRequest{EmpID: tt.empID})
			if !tt.wantDemo {
				assert.True(t, errors.Is(err, errors.ErrLookupUnavailable))
				return
			}

			require.NoError(t, err)
			assert.True(t, resp.Demo)
			assert.Equal(t, domain.DemoAdmin(), *resp.User)

			stored, err := repo.GetUser(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "Admin User", stored.EmpName)
		})
	}
}

func TestLogin_DemoFallbackNeedsUnreachableDirectory(t *testing.T) {
	svc, _, _ := newAuth(t, &stubLookup{}, true)

	_, err := svc.Login(context.Background(), &service.LoginRequest{EmpID: "admin"})
	assert.True(t, errors.Is(err, errors.ErrEmployeeNotFound))
}

func TestLogoutAndMe(t *testing.T) {
	lookup := &stubLookup{users: map[string]domain.User{"E1001": {EmpID: "E1001", EmpName: "A"}}}
	svc, _, _ := newAuth(t, lookup, false)
	ctx := actor.WithActor(context.Background(), &actor.Actor{EmpID: "E1001"})

	_, err := svc.Me(ctx)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = svc.Login(ctx, &service.LoginRequest{EmpID: "E1001"})
	require.NoError(t, err)

	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "E1001", me.EmpID)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Me(ctx)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
