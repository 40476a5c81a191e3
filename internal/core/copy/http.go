// Copyright (c) 2026 BookVault. All rights reserved.

package copy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookvault/api/internal/auth"
	"github.com/bookvault/api/internal/platform/apperr"
	requestutil "github.com/bookvault/api/internal/platform/request"
	"github.com/bookvault/api/internal/platform/respond"
)

// Handler exposes the admin copy-management endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BookRoutes mounts the per-book copy endpoints. The router is nested under
// the admin books router, which provides the bookID URL parameter.
func (h *Handler) BookRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", h.listByBook)
	router.Post("/", h.create)
	return router
}

// AdminRoutes mounts the per-copy endpoints under the admin group.
func (h *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Put("/{copyID}", h.update)
	router.Delete("/{copyID}", h.delete)
	return router
}

func actorFrom(request *http.Request) (*auth.User, error) {
	actor := auth.UserFrom(request.Context())
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return actor, nil
}

// listByBook handles GET /api/v1/admin/books/{bookID}/copies.
func (h *Handler) listByBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	copies, err := h.service.ListByBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, copies)
}

// create handles POST /api/v1/admin/books/{bookID}/copies.
func (h *Handler) create(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := actorFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := h.service.Create(request.Context(), actor.ID, bookID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// update handles PUT /api/v1/admin/copies/{copyID}.
func (h *Handler) update(writer http.ResponseWriter, request *http.Request) {
	copyID, err := requestutil.IntID(request, "copyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := actorFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := h.service.Update(request.Context(), actor.ID, copyID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// delete handles DELETE /api/v1/admin/copies/{copyID}.
func (h *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	copyID, err := requestutil.IntID(request, "copyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor, err := actorFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.Delete(request.Context(), actor.ID, copyID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
