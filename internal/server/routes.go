// AngelaMos | 2026
// routes.go

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/guardops/internal/admin"
	"github.com/carterperez-dev/guardops/internal/auth"
	"github.com/carterperez-dev/guardops/internal/health"
	"github.com/carterperez-dev/guardops/internal/incident"
	"github.com/carterperez-dev/guardops/internal/management"
	"github.com/carterperez-dev/guardops/internal/middleware"
	"github.com/carterperez-dev/guardops/internal/patrol"
	"github.com/carterperez-dev/guardops/internal/shift"
	"github.com/carterperez-dev/guardops/internal/site"
	"github.com/carterperez-dev/guardops/internal/tenant"
	"github.com/carterperez-dev/guardops/internal/user"
)

// Handlers is every HTTP surface the API exposes.
type Handlers struct {
	Health     *health.Handler
	Auth       *auth.Handler
	User       *user.Handler
	Tenant     *tenant.Handler
	Site       *site.Handler
	Shift      *shift.Handler
	Patrol     *patrol.Handler
	Incident   *incident.Handler
	Management *management.Handler
	Admin      *admin.Handler
	Metrics    http.Handler
}

// Routes wires the route groups. Everything except login, the probes
// and /metrics sits behind the authenticator and then the per-caller
// limiter; each group applies its own role policy.
type Routes struct {
	Verifier      middleware.TokenVerifier
	Denials       middleware.DenialRecorder
	LoginLimiter  func(http.Handler) http.Handler
	CallerLimiter func(http.Handler) http.Handler
}

func passThrough(next http.Handler) http.Handler { return next }

func (rt Routes) Mount(r chi.Router, h Handlers) {
	rec := rt.Denials

	loginLimiter := rt.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = passThrough
	}
	callerLimiter := rt.CallerLimiter
	if callerLimiter == nil {
		callerLimiter = passThrough
	}
	authenticate := func(next http.Handler) http.Handler {
		return middleware.Authenticator(rt.Verifier)(callerLimiter(next))
	}

	if h.Health != nil {
		h.Health.RegisterRoutes(r)
	}
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/auth", func(r chi.Router) {
		h.Auth.RegisterRoutes(r, loginLimiter)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			h.User.RegisterRoutes(r, rec)
			h.Tenant.RegisterRoutes(r, rec)
		})
	})

	r.Route("/guard", func(r chi.Router) {
		r.Use(authenticate)
		h.Shift.RegisterRoutes(r, rec)
		h.Patrol.RegisterRoutes(r, rec)
		h.Incident.RegisterGuardRoutes(r, rec)
	})

	r.Route("/management", func(r chi.Router) {
		r.Use(authenticate)
		h.User.RegisterManagementRoutes(r, rec)
		h.Site.RegisterRoutes(r, rec)
		h.Incident.RegisterManagementRoutes(r, rec)
		h.Management.RegisterRoutes(r, rec)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticate)
		h.Management.RegisterDashboardRoutes(r, rec)
	})

	r.Route("/platform", func(r chi.Router) {
		r.Use(authenticate)
		h.Admin.RegisterRoutes(r, rec)
	})
}
