// Package service signs employees in against the company directory.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/chemstock/chemstock-backend/internal/auth/jwt"
	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/pkg/actor"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

// DemoEmployeeID is the only id accepted by the offline demo login
const DemoEmployeeID = "admin"

// EmployeeLookup resolves an employee id against the directory
type EmployeeLookup interface {
	Lookup(ctx context.Context, empID string) (*domain.User, error)
}

// UserStore keeps the signed-in profile
type UserStore interface {
	GetUser(ctx context.Context) (*domain.User, error)
	SaveUser(ctx context.Context, u domain.User) error
	ClearUser(ctx context.Context) error
}

// AuthService handles authentication logic
type AuthService struct {
	lookup       EmployeeLookup
	users        UserStore
	jwtManager   *jwt.Manager
	demoFallback bool
	logger       *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(lookup EmployeeLookup, users UserStore, jwtManager *jwt.Manager, demoFallback bool, log *logger.Logger) *AuthService {
	return &AuthService{
		lookup:       lookup,
		users:        users,
		jwtManager:   jwtManager,
		demoFallback: demoFallback,
		logger:       log,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	EmpID string `json:"emp_id" validate:"required,max=50"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
	Demo        bool         `json:"demo,omitempty"`
}

// Login looks the employee up, stores the profile and issues an access token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	empID := strings.TrimSpace(req.EmpID)
	if empID == "" {
		return nil, errors.Validation(map[string]string{"emp_id": "is required"})
	}

	demo := false
	user, err := s.lookup.Lookup(ctx, empID)
	if err != nil {
		if !s.demoFallback || empID != DemoEmployeeID || !errors.Is(err, errors.ErrLookupUnavailable) {
			return nil, err
		}
		s.logger.Warn().Err(err).Msg("employee directory unreachable, using demo profile")
		admin := domain.DemoAdmin()
		user = &admin
		demo = true
	}

	if err := s.users.SaveUser(ctx, *user); err != nil {
		s.logger.Error().Err(err).Str("emp_id", user.EmpID).Msg("failed to save user")
		return nil, errors.Internal("failed to save user")
	}

	token, err := s.jwtManager.Issue(*user)
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	s.logger.WithEmployee(user.EmpID).Info().
		Str("dept", user.DeptName).
		Bool("demo", demo).
		Msg("employee signed in")

	return &LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        user,
		Demo:        demo,
	}, nil
}

// Logout clears the stored profile
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.users.ClearUser(ctx); err != nil {
		return err
	}
	s.logger.Info().Str("emp_id", actor.FromContext(ctx).ID()).Msg("employee signed out")
	return nil
}

// Me returns the stored profile
func (s *AuthService) Me(ctx context.Context) (*domain.User, error) {
	u, err := s.users.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.NotFound("user")
	}
	return u, nil
}
