// AngelaMos | 2026
// handler.go

package shift

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
	r.Route("/shifts", func(r chi.Router) {
		r.Use(middleware.RequirePolicy(authz.GuardOnly, rec))
		r.Get("/current", h.Current)
		r.Post("/start", h.Start)
		r.Post("/end", h.End)
	})
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	sh, err := h.service.Current(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		core.HandleError(w, err, "shift")
		return
	}

	core.OK(w, ToCurrentShiftResponse(sh))
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sh, err := h.service.Start(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "site")
		return
	}

	core.Created(w, ToShiftResponse(sh))
}

func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	var req EndRequest
	if r.ContentLength != 0 && !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sh, err := h.service.End(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "shift")
		return
	}

	core.OK(w, ToShiftResponse(sh))
}
