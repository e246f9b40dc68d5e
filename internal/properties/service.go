package properties

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	dErrors "taxprotest/pkg/domain-errors"
)

// Allowed page sizes, matching what the search UI offers.
var allowedPageSizes = map[int]bool{25: true, 50: true, 100: true, 200: true}

const defaultPageSize = 50

// Service validates and paginates property searches.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs the property search service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Search runs one property search. Blank criteria are a bad request; an
// out-of-range page clamps to the last page rather than erroring.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	q.Account = strings.TrimSpace(q.Account)
	q.Street = strings.TrimSpace(q.Street)
	q.PostalCode = strings.TrimSpace(q.PostalCode)
	q.Owner = strings.TrimSpace(q.Owner)
	if !q.HasCriteria() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one search criterion is required")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if !allowedPageSizes[q.PageSize] {
		q.PageSize = defaultPageSize
	}

	start := time.Now()
	hits, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	total := len(hits)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if q.Page > totalPages {
		q.Page = totalPages
	}
	lo := (q.Page - 1) * q.PageSize
	hi := lo + q.PageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	s.logger.InfoContext(ctx, "property search finished",
		"total", total,
		"page", q.Page,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	page := hits[lo:hi]
	if page == nil {
		page = []*Summary{}
	}
	return &Result{
		Properties: page,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}
