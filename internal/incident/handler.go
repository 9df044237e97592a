// AngelaMos | 2026
// handler.go

package incident

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

// RegisterGuardRoutes mounts the guard's incident filing endpoint.
func (h *Handler) RegisterGuardRoutes(r chi.Router, rec middleware.DenialRecorder) {
	r.With(middleware.RequirePolicy(authz.GuardOnly, rec)).Post("/incident", h.Report)
}

// RegisterManagementRoutes mounts incident detail and lifecycle endpoints.
func (h *Handler) RegisterManagementRoutes(r chi.Router, rec middleware.DenialRecorder) {
	supervisors := middleware.RequirePolicy(authz.SupervisorAndAbove, rec)

	r.With(supervisors).Get("/incidents/{id}", h.Get)
	r.With(supervisors).Put("/incidents/{id}/status", h.UpdateStatus)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	rep, err := h.service.Report(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "site")
		return
	}

	core.Created(w, ToReportResponse(rep))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	rep, err := h.service.Get(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "incident")
		return
	}

	core.OK(w, ToReportResponse(rep))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	rep, err := h.service.UpdateStatus(r.Context(), middleware.GetPrincipal(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "incident")
		return
	}

	core.OK(w, ToReportResponse(rep))
}
