// Copyright (c) 2026 BookVault. All rights reserved.

package book

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bookvault/api/internal/auth"
	"github.com/bookvault/api/internal/platform/apperr"
	requestutil "github.com/bookvault/api/internal/platform/request"
	"github.com/bookvault/api/internal/platform/respond"
	"github.com/bookvault/api/pkg/pagination"
)

// Handler exposes the catalog and intake endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs the HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the authenticated catalog-browsing endpoints.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", h.list)
	router.Get("/{bookID}", h.get)
	return router
}

// AdminRoutes mounts the admin-only listing and intake endpoints. The copies
// router is nested per book so copy management stays addressed by book.
func (h *Handler) AdminRoutes(copies chi.Router) chi.Router {
	router := chi.NewRouter()
	router.Get("/", h.list)
	router.Get("/lookup", h.lookup)
	router.Post("/", h.create)
	router.Put("/{bookID}", h.update)
	router.Mount("/{bookID}/copies", copies)
	return router
}

// list handles GET /api/v1/books and the admin listing.
func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("q")

	books, total, err := h.service.List(request.Context(), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(params.Page, params.Limit, total))
}

// get handles GET /api/v1/books/{bookID}.
func (h *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// lookup handles GET /api/v1/admin/books/lookup?isbn=<isbn>.
//
// A successful lookup of an unindexed ISBN responds 200 with a null data
// payload; only upstream failures and duplicates are errors.
func (h *Handler) lookup(writer http.ResponseWriter, request *http.Request) {
	isbn := strings.TrimSpace(request.URL.Query().Get("isbn"))
	if isbn == "" {
		respond.Error(writer, request, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "isbn",
			Message: "This field is required",
		}))
		return
	}

	result, err := h.service.Lookup(request.Context(), isbn)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// create handles POST /api/v1/admin/books.
func (h *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CommitInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := auth.UserFrom(request.Context())
	if actor == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	book, err := h.service.Create(request.Context(), actor.ID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

// update handles PUT /api/v1/admin/books/{bookID}.
func (h *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CommitInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	actor := auth.UserFrom(request.Context())
	if actor == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	book, err := h.service.Update(request.Context(), actor.ID, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}
