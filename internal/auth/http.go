// Copyright (c) 2026 BookVault. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/bookvault/api/internal/platform/request"
	"github.com/bookvault/api/internal/platform/respond"
	"github.com/bookvault/api/pkg/pagination"
)

// Handler exposes the profile and user-administration endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ProfileRoutes mounts the authenticated profile endpoints.
//
// These routes require a resolved identity but NOT a registered account;
// the profile flow provisions one on first access.
func (h *Handler) ProfileRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", h.profile)
	router.Put("/", h.updateProfile)
	return router
}

// AdminRoutes mounts the admin-only user management endpoints.
func (h *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", h.listUsers)
	return router
}

// profile handles GET /api/v1/me.
func (h *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	user, err := h.service.Profile(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateProfile handles PUT /api/v1/me.
func (h *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	var input UpdateProfileInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := h.service.UpdateProfile(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// listUsers handles GET /api/v1/admin/users.
func (h *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := h.service.ListUsers(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}
