// Package handler wires the property search endpoint to its service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taxprotest/internal/properties"
	"taxprotest/pkg/platform/httputil"
	"taxprotest/pkg/requestcontext"
)

// Service defines the interface for property search operations.
type Service interface {
	Search(ctx context.Context, q properties.Query) (*properties.Result, error)
}

// Handler serves the property search HTTP surface.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a properties handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the search endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/properties", h.HandleSearch)
}

// HandleSearch handles GET /properties requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	q := properties.Query{
		Account:    params.Get("acct"),
		Street:     params.Get("street"),
		PostalCode: params.Get("zip_code"),
		Owner:      params.Get("owner"),
	}
	switch params.Get("exact_match") {
	case "1", "true", "True":
		q.ExactMatch = true
	}
	if page, err := strconv.Atoi(params.Get("page")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(params.Get("page_size")); err == nil {
		q.PageSize = size
	}

	result, err := h.service.Search(ctx, q)
	if err != nil {
		h.logger.ErrorContext(ctx, "property search failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
