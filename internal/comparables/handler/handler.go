// Package handler wires the comparables endpoints to the matching service.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taxprotest/internal/comparables"
	dErrors "taxprotest/pkg/domain-errors"
	"taxprotest/pkg/platform/httputil"
	"taxprotest/pkg/platform/sentinel"
	"taxprotest/pkg/requestcontext"
)

// Defaults and clamps for the search parameters, matching what the protest
// workflow has always used.
const (
	defaultMaxComps = 25
	defaultMinComps = 20
)

// Service defines the interface for comparable-matching operations.
type Service interface {
	FindComparables(ctx context.Context, req comparables.Request) (*comparables.MatchResult, error)
}

// Handler serves the comparables HTTP surface.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a comparables handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts comparables endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/comparables/{acct}", h.HandleFind)
	r.Get("/comparables/{acct}/export", h.HandleExport)
}

// HandleFind handles GET /comparables/{acct} requests.
func (h *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := parseRequest(r)

	result, err := h.service.FindComparables(ctx, req)
	if err != nil {
		h.writeFindError(ctx, w, req, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleExport handles GET /comparables/{acct}/export requests, streaming the
// comparable set as a CSV attachment.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := parseRequest(r)

	result, err := h.service.FindComparables(ctx, req)
	if err != nil {
		h.writeFindError(ctx, w, req, err)
		return
	}

	filename := comparables.ExportFilename(result, requestcontext.Now(ctx))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := comparables.WriteCSV(w, result); err != nil {
		h.logger.ErrorContext(ctx, "comparables export failed",
			"request_id", requestcontext.RequestID(ctx),
			"account", req.Account,
			"error", err,
		)
	}
}

func (h *Handler) writeFindError(ctx context.Context, w http.ResponseWriter, req comparables.Request, err error) {
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "account "+req.Account+" not found"))
		return
	}
	h.logger.ErrorContext(ctx, "comparables search failed",
		"request_id", requestcontext.RequestID(ctx),
		"account", req.Account,
		"error", err,
	)
	httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "comparables search failed", err))
}

// parseRequest reads the search parameters. Malformed values fall back to
// defaults instead of erroring; a min above max clamps down to max.
func parseRequest(r *http.Request) comparables.Request {
	req := comparables.Request{
		Account:  chi.URLParam(r, "acct"),
		MaxComps: intParam(r, "max", defaultMaxComps),
		MinComps: intParam(r, "min", defaultMinComps),
	}
	if req.MinComps > req.MaxComps {
		req.MinComps = req.MaxComps
	}

	switch r.URL.Query().Get("strict_first") {
	case "1", "true", "True":
		req.StrictFirst = true
	}

	if raw := r.URL.Query().Get("max_radius"); raw != "" && raw != "0" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			req.MaxRadius = &v
		}
	}
	return req
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
