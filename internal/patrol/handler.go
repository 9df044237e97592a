// AngelaMos | 2026
// handler.go

package patrol

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

func (h *Handler) RegisterRoutes(r chi.Router, rec middleware.DenialRecorder) {
	guardOnly := middleware.RequirePolicy(authz.GuardOnly, rec)

	r.With(guardOnly).Post("/checkin", h.CheckIn)
	r.With(guardOnly).Post("/location", h.LogLocation)
	r.With(guardOnly).Get("/patrols/history", h.History)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.CheckIn(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "checkpoint")
		return
	}

	core.Created(w, ToCheckInResponse(c))
}

func (h *Handler) LogLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	l, err := h.service.LogLocation(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "shift")
		return
	}

	core.Created(w, LocationResponse{
		ID:                   l.ID,
		Timestamp:            l.Timestamp,
		IsWithinSiteGeofence: l.IsWithinSiteGeofence,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	days := core.QueryInt(r, "days", DefaultHistoryDays)

	entries, err := h.service.History(r.Context(), middleware.GetPrincipal(r.Context()), days)
	if err != nil {
		core.HandleError(w, err, "patrol")
		return
	}

	core.OK(w, ToHistoryResponseList(entries))
}
