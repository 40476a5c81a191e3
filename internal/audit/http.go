// Copyright (c) 2026 BookVault. All rights reserved.

package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookvault/api/internal/platform/postgres"
	"github.com/bookvault/api/internal/platform/respond"
	"github.com/bookvault/api/pkg/pagination"
)

// Handler exposes the admin audit-trail endpoint.
type Handler struct {
	recorder *Recorder
	db       postgres.DBTX
}

// NewHandler constructs the HTTP handler.
func NewHandler(recorder *Recorder, db postgres.DBTX) *Handler {
	return &Handler{recorder: recorder, db: db}
}

// AdminRoutes mounts the audit endpoints under the admin group.
func (h *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", h.list)
	return router
}

// list handles GET /api/v1/admin/audit.
func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	entries, err := h.recorder.List(request.Context(), h.db, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}
