// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
)

const (
	PrincipalKey contextKey = "principal"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*authz.Principal, error)
}

// DenialRecorder counts policy rejections. A nil recorder is allowed.
type DenialRecorder interface {
	AccessDenied(policy string)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			principal, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			core.AnnotatePrincipal(r.Context(),
				principal.UserID, string(principal.Role), principal.TenantID)
			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePolicy rejects principals whose role is outside policy. It must
// run after Authenticator.
func RequirePolicy(
	policy authz.Policy,
	recorder DenialRecorder,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())

			if principal == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if !authz.Authorize(principal, policy) {
				slog.DebugContext(r.Context(), "policy denied",
					"policy", policy.Name(),
					"role", principal.Role,
					"user_id", principal.UserID,
				)
				core.SpanAccessDenied(r.Context(), policy.Name())
				if recorder != nil {
					recorder.AccessDenied(policy.Name())
				}
				core.JSONError(
					w,
					core.ForbiddenError("insufficient permissions"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func WithPrincipal(ctx context.Context, p *authz.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetPrincipal(ctx context.Context) *authz.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*authz.Principal); ok {
		return p
	}
	return nil
}

// RequestScope is the caller's data scope, narrowed by an optional
// ?tenant_id= query parameter. Narrowing outside the caller's own tenant
// fails with core.ErrForbidden.
func RequestScope(r *http.Request) (authz.Scope, error) {
	scope := authz.ScopeFor(GetPrincipal(r.Context()))

	tenantID := r.URL.Query().Get("tenant_id")
	if tenantID != "" && uuid.Validate(tenantID) != nil {
		return authz.Scope{}, core.NewValidationError("tenant_id", "must be a valid UUID")
	}

	return scope.Narrow(tenantID)
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserID
	}
	return ""
}
