// AngelaMos | 2026
// handler.go

package tenant

import (
	"net/http"
	"strconv"

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

// RegisterRoutes mounts /tenants under an authenticated /auth group. Any
// role may read its own tenant; everything else is PlatformOwner only.
func (h *Handler) RegisterRoutes(r chi.Router, rec middleware.DenialRecorder) {
	ownerOnly := middleware.RequirePolicy(authz.PlatformOwnerOnly, rec)

	r.Route("/tenants", func(r chi.Router) {
		r.With(ownerOnly).Get("/", h.List)
		r.With(ownerOnly).Post("/", h.Create)
		r.With(middleware.RequirePolicy(authz.AllRoles, rec)).Get("/{id}", h.Get)
		r.With(ownerOnly).Put("/{id}", h.Update)
		r.With(ownerOnly).Delete("/{id}", h.Delete)
		r.With(ownerOnly).Put("/{id}/user-limit", h.UpdateUserLimit)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListTenantsParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	if active := r.URL.Query().Get("active"); active != "" {
		b, err := strconv.ParseBool(active)
		if err != nil {
			core.BadRequest(w, "active must be a boolean")
			return
		}
		params.Active = &b
	}
	params.Normalize()

	tenants, total, err := h.service.List(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		params,
	)
	if err != nil {
		core.HandleError(w, err, "tenant")
		return
	}

	core.Paginated(w, ToTenantResponseList(tenants), params.Page, params.PageSize, total)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	t, err := h.service.Create(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "tenant")
		return
	}

	core.Created(w, ToTenantResponse(t))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "tenant")
		return
	}

	core.OK(w, ToTenantResponse(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	t, err := h.service.Update(r.Context(), middleware.GetPrincipal(r.Context()), id, req)
	if err != nil {
		core.HandleError(w, err, "tenant")
		return
	}

	core.OK(w, ToTenantResponse(t))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetPrincipal(r.Context()), id); err != nil {
		core.HandleError(w, err, "tenant")
		return
	}

	core.NoContent(w)
}

func (h *Handler) UpdateUserLimit(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserLimitRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	t, err := h.service.SetUserLimit(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		id,
		req.MaxUserAccounts,
	)
	if err != nil {
		core.HandleError(w, err, "tenant")
		return
	}

	core.OK(w, ToTenantResponse(t))
}
