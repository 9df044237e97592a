// AngelaMos | 2026
// handler.go

package management

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the tenant aggregate views. PlatformOwners may
// narrow with ?tenant_id=.
func (h *Handler) RegisterRoutes(r chi.Router, rec middleware.DenialRecorder) {
	admins := middleware.RequirePolicy(authz.CompanyAdminAndAbove, rec)

	r.With(admins).Get("/guards", h.Guards)
	r.With(admins).Get("/patrols", h.Patrols)
	r.With(admins).Get("/incidents", h.Incidents)
	r.With(admins).Get("/stats", h.Stats)
}

func (h *Handler) RegisterDashboardRoutes(r chi.Router, rec middleware.DenialRecorder) {
	everyone := middleware.RequirePolicy(authz.AllRoles, rec)

	r.With(everyone).Get("/stats", h.DashboardStats)
	r.With(everyone).Get("/recent-activity", h.RecentActivity)
}

func (h *Handler) Guards(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "guard")
		return
	}

	guards, err := h.service.Guards(r.Context(), scope)
	if err != nil {
		core.HandleError(w, err, "guard")
		return
	}

	core.OK(w, guards)
}

func (h *Handler) Patrols(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "patrol")
		return
	}

	day := core.QueryDate(r, "date", h.service.now())
	patrols, err := h.service.Patrols(r.Context(), scope, day)
	if err != nil {
		core.HandleError(w, err, "patrol")
		return
	}

	core.OK(w, patrols)
}

func (h *Handler) Incidents(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "incident")
		return
	}

	day := core.QueryDate(r, "date", h.service.now())
	incidents, err := h.service.Incidents(r.Context(), scope, day)
	if err != nil {
		core.HandleError(w, err, "incident")
		return
	}

	core.OK(w, incidents)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "stats")
		return
	}

	stats, err := h.service.Stats(r.Context(), scope)
	if err != nil {
		core.HandleError(w, err, "stats")
		return
	}

	core.OK(w, stats)
}

func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "dashboard")
		return
	}

	stats, err := h.service.Dashboard(r.Context(), middleware.GetPrincipal(r.Context()), scope)
	if err != nil {
		core.HandleError(w, err, "dashboard")
		return
	}

	core.OK(w, stats)
}

func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "dashboard")
		return
	}

	activity, err := h.service.RecentActivity(r.Context(), scope)
	if err != nil {
		core.HandleError(w, err, "dashboard")
		return
	}

	core.OK(w, activity)
}
