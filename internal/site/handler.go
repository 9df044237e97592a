// AngelaMos | 2026
// handler.go

package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /sites under an authenticated /management group.
// Supervisors read; CompanyAdmins and above write.
func (h *Handler) RegisterRoutes(r chi.Router, rec middleware.DenialRecorder) {
	readers := middleware.RequirePolicy(authz.SupervisorAndAbove, rec)
	writers := middleware.RequirePolicy(authz.CompanyAdminAndAbove, rec)

	r.Route("/sites", func(r chi.Router) {
		r.With(readers).Get("/", h.ListSites)
		r.With(writers).Post("/", h.CreateSite)
		r.With(readers).Get("/{id}", h.GetSite)
		r.With(readers).Get("/{id}/checkpoints", h.ListCheckpoints)
		r.With(writers).Post("/{id}/checkpoints", h.CreateCheckpoint)
	})
}

func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "site")
		return
	}

	sites, err := h.service.ListSites(r.Context(), scope, r.URL.Query().Get("active") == "true")
	if err != nil {
		core.HandleError(w, err, "site")
		return
	}

	out := make([]SiteResponse, 0, len(sites))
	for i := range sites {
		out = append(out, ToSiteResponse(&sites[i]))
	}
	core.OK(w, out)
}

func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	s, err := h.service.CreateSite(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "site")
		return
	}

	core.Created(w, ToSiteResponse(s))
}

func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.service.GetSite(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "site")
		return
	}

	core.OK(w, ToSiteResponse(s))
}

func (h *Handler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	checkpoints, err := h.service.ListCheckpoints(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "site")
		return
	}

	out := make([]CheckpointResponse, 0, len(checkpoints))
	for i := range checkpoints {
		out = append(out, ToCheckpointResponse(&checkpoints[i]))
	}
	core.OK(w, out)
}

func (h *Handler) CreateCheckpoint(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	var req CreateCheckpointRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.CreateCheckpoint(r.Context(), middleware.GetPrincipal(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "checkpoint")
		return
	}

	core.Created(w, ToCheckpointResponse(c))
}
