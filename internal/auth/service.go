// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

// UserInfo is the credential view of an account that login needs.
type UserInfo struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         authz.Role
	TenantID     *string
	TenantName   *string
	EmployeeID   *string
	IsActive     bool
	TenantActive bool
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type TokenIssuer interface {
	CreateAccessToken(p authz.Principal) (*IssuedToken, error)
	VerifyAccessToken(ctx context.Context, token string) (*authz.Principal, error)
}

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	LoginResult(result string)
}

type Service struct {
	tokens  TokenIssuer
	users   UserProvider
	results LoginRecorder
}

func NewService(tokens TokenIssuer, users UserProvider) *Service {
	return &Service{
		tokens: tokens,
		users:  users,
	}
}

// WithRecorder attaches a login outcome counter.
func (s *Service) WithRecorder(rec LoginRecorder) *Service {
	s.results = rec
	return s
}

func (s *Service) record(result string) {
	if s.results != nil {
		s.results.LoginResult(result)
	}
}

// Authenticate resolves credentials to a Principal. Unknown email,
// inactive account and wrong password all yield ErrInvalidCredentials
// after one argon2 derivation each.
func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (*UserInfo, *authz.Principal, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, nil, core.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive || !user.TenantActive {
		//nolint:errcheck // timing attack prevention
		_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
		return nil, nil, core.ErrInvalidCredentials
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		&user.PasswordHash,
	)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash unreadable",
			"user_id", user.ID,
			"error", err,
		)
		return nil, nil, core.ErrInvalidCredentials
	}

	if !valid {
		return nil, nil, core.ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	principal := &authz.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
	if user.TenantID != nil {
		principal.TenantID = *user.TenantID
	}

	return user, principal, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	user, principal, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			s.record("invalid")
		} else {
			s.record("error")
		}
		return nil, err
	}

	issued, err := s.tokens.CreateAccessToken(*principal)
	if err != nil {
		s.record("error")
		return nil, fmt.Errorf("create access token: %w", err)
	}
	s.record("success")

	slog.InfoContext(ctx, "user logged in",
		"user_id", user.ID,
		"role", user.Role,
	)

	return &LoginResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int(issued.ExpiresAt.Sub(issued.IssuedAt).Seconds()),
		ExpiresAt: issued.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

func (s *Service) ValidateToken(
	ctx context.Context,
	token string,
) (*authz.Principal, error) {
	return s.tokens.VerifyAccessToken(ctx, token)
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		EmployeeID: u.EmployeeID,
		TenantID:   u.TenantID,
		TenantName: u.TenantName,
		IsActive:   u.IsActive,
	}
}
