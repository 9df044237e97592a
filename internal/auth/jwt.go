// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/config"
	"github.com/carterperez-dev/guardops/internal/core"
)

const (
	claimEmail    = "email"
	claimRole     = "role"
	claimTenantID = "tenant_id"
)

// JWTManager issues and validates HS256 access tokens. There is no
// refresh token and no revocation list; expiry is the only way out.
type JWTManager struct {
	key    jwk.Key
	config config.JWTConfig
	now    func() time.Time
}

type IssuedToken struct {
	Token     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	if len(cfg.Key) < 32 {
		return nil, fmt.Errorf("jwt key must be at least 32 bytes")
	}

	key, err := jwk.Import([]byte(cfg.Key))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &JWTManager{
		key:    key,
		config: cfg,
		now:    time.Now,
	}, nil
}

func (m *JWTManager) Expiry() time.Duration {
	return m.config.Expiry()
}

func (m *JWTManager) CreateAccessToken(p authz.Principal) (*IssuedToken, error) {
	if p.UserID == "" || !p.Role.Valid() {
		return nil, fmt.Errorf("create token: %w", core.ErrInvalidInput)
	}

	now := m.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(m.config.Expiry())
	tokenID := uuid.New().String()

	builder := jwt.NewBuilder().
		JwtID(tokenID).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(p.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimEmail, p.Email).
		Claim(claimRole, string(p.Role))

	if p.TenantID != "" {
		builder = builder.Claim(claimTenantID, p.TenantID)
	}

	token, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		TokenID:   tokenID,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyAccessToken checks signature, issuer, audience and the time
// claims with no clock skew, then rebuilds the Principal.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*authz.Principal, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithAcceptableSkew(0),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var roleStr string
	if err := token.Get(claimRole, &roleStr); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	role, ok := authz.ParseRole(roleStr)
	if !ok {
		return nil, fmt.Errorf(
			"verify token: unknown role %q: %w",
			roleStr,
			core.ErrTokenInvalid,
		)
	}

	var email string
	//nolint:errcheck // email is informational
	_ = token.Get(claimEmail, &email)

	var tenantID string
	if token.Has(claimTenantID) {
		if err := token.Get(claimTenantID, &tenantID); err != nil {
			return nil, fmt.Errorf(
				"verify token: malformed tenant_id: %w",
				core.ErrTokenInvalid,
			)
		}
	}

	return &authz.Principal{
		UserID:   subject,
		Email:    email,
		Role:     role,
		TenantID: tenantID,
	}, nil
}
