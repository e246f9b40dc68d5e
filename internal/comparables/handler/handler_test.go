package handler_test

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxprotest/internal/comparables"
	"taxprotest/internal/comparables/handler"
	"taxprotest/internal/comparables/store"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }
func b(v bool) *bool       { return &v }

func fixture(acct, hood string, lat float64) comparables.Subject {
	return comparables.Subject{
		Account:          acct,
		Address:          acct + " MAIN ST",
		PostalCode:       "77002",
		NeighborhoodCode: hood,
		MarketValue:      f(250000),
		BuildingArea:     f(2000),
		LandArea:         f(6000),
		BuildYear:        i(2000),
		Bedrooms:         f(3),
		Bathrooms:        f(2),
		Stories:          i(1),
		HasPool:          b(false),
		HasGarage:        b(true),
		Latitude:         f(lat),
		Longitude:        f(-95.36),
	}
}

func testRouter() chi.Router {
	mem := store.NewMemory()
	mem.Add(fixture("100", "8001.01", 29.76))
	mem.Add(fixture("200", "8001.01", 29.765))
	mem.Add(fixture("201", "8001.01", 29.77))
	mem.Add(fixture("202", "8001.01", 29.755))

	svc := comparables.NewService(mem, comparables.DefaultConfig(), nil, nil, nil)
	r := chi.NewRouter()
	handler.New(svc, nil).Register(r)
	return r
}

func TestHandleFind(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comparables/100?max=5&min=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result comparables.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "100", result.Subject.Account)
	assert.Len(t, result.Comps, 3)
	require.NotNil(t, result.Meta)
	assert.Equal(t, comparables.TierNeighborhood, result.Meta.GeoTier)
}

func TestHandleFindUnknownAccount(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comparables/absent", nil))

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
}

func TestHandleFindClampsMinToMax(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	// min 20 exceeds max 2; with only 3 candidates the clamp makes this succeed
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comparables/100?max=2&min=20", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var result comparables.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Comps, 2)
}

func TestHandleFindIgnoresMalformedParams(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comparables/100?max=bogus&min=3&max_radius=junk", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleExport(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comparables/100/export?max=5&min=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	disposition := w.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="comparables_100_`), disposition)

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus three comps")
	assert.Equal(t, "Account", rows[0][0])
}

func TestHandleExportUnknownAccount(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comparables/absent/export", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
