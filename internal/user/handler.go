// AngelaMos | 2026
// handler.go

package user

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

// RegisterRoutes mounts the identity endpoints under an authenticated
// /auth group.
func (h *Handler) RegisterRoutes(r chi.Router, rec middleware.DenialRecorder) {
	r.With(middleware.RequirePolicy(authz.CompanyAdminAndAbove, rec)).
		Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePolicy(authz.AllRoles, rec))
		r.Get("/me", h.GetMe)
		r.Get("/users/{id}", h.GetUser)
	})
}

// RegisterManagementRoutes mounts tenant user administration under an
// authenticated /management group.
func (h *Handler) RegisterManagementRoutes(
	r chi.Router,
	rec middleware.DenialRecorder,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePolicy(authz.CompanyAdminAndAbove, rec))
		r.Get("/users", h.ListUsers)
		r.Put("/users/{id}/status", h.UpdateStatus)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.service.Register(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		req,
	)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Created(w, ToUserResponse(u))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetMe(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.PathID(w, r, "id")
	if !ok {
		return
	}

	u, err := h.service.GetByID(r.Context(), middleware.GetPrincipal(r.Context()), id)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	params := ListUsersParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
	if role := r.URL.Query().Get("role"); role != "" {
		parsed, ok := authz.ParseRole(role)
		if !ok {
			core.BadRequest(w, "role must be one of PlatformOwner CompanyAdmin Supervisor Guard")
			return
		}
		params.Role = string(parsed)
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

	users, total, err := h.service.List(r.Context(), scope, params)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Paginated(w, ToUserResponseList(users), params.Page, params.PageSize, total)
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

	scope, err := middleware.RequestScope(r)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	u, err := h.service.SetActive(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		scope,
		id,
		*req.IsActive,
	)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(u))
}
