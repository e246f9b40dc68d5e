package comparables_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxprotest/internal/comparables"
	"taxprotest/internal/comparables/store"
	"taxprotest/pkg/platform/sentinel"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }
func b(v bool) *bool       { return &v }

// tinyConfig keeps the constraint space small enough to count attempts by
// hand: 2 size x 2 year x 2 pool x 2 garage = 16 combinations per tier for a
// fully-known subject.
func tinyConfig() comparables.Config {
	return comparables.Config{
		SizeBands:    []*float64{f(0.05), nil},
		LotBands:     []*float64{nil},
		YearBands:    []*int{i(5), nil},
		BedBathBands: []*int{nil},
		StoryBands:   []*int{nil},
		RadiusTiers:  []float64{1.5, 3},
		Weights:      comparables.DefaultWeights(),
	}
}

func property(acct, hood, zip string, lat, lon float64) comparables.Subject {
	return comparables.Subject{
		Account:          acct,
		Address:          acct + " MAIN ST",
		PostalCode:       zip,
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
		Longitude:        f(lon),
	}
}

func TestFindComparablesNeighborhoodTier(t *testing.T) {
	mem := store.NewMemory()
	mem.Add(property("100", "8001.01", "77002", 29.76, -95.36))
	mem.Add(property("200", "8001.01", "77002", 29.765, -95.36))
	mem.Add(property("201", "8001.01", "77002", 29.77, -95.36))
	mem.Add(property("202", "8001.01", "77002", 29.755, -95.36))

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 3,
	})
	require.NoError(t, err)

	assert.Len(t, result.Comps, 3)
	assert.Equal(t, comparables.TierNeighborhood, result.Meta.GeoTier)
	assert.True(t, result.Meta.UsedNeighborhood)
	assert.Nil(t, result.Meta.RadiusMiles)
	assert.Equal(t, 1, result.Meta.Attempts, "tightest combination wins immediately")
	assert.True(t, result.Meta.SubjectHasGeo)

	for _, relaxed := range result.Meta.Relaxed {
		assert.False(t, relaxed)
	}

	require.NotNil(t, result.Subject.PricePerSqft)
	assert.Equal(t, 125.0, *result.Subject.PricePerSqft)
	require.NotNil(t, result.Meta.PricingStats)
	assert.Equal(t, 3, result.Meta.PricingStats.ValueStats.Count)
}

func TestFindComparablesFallsBackToRadiusTier(t *testing.T) {
	mem := store.NewMemory()
	mem.Add(property("100", "8001.01", "77002", 29.76, -95.36))
	// same specs, different neighborhood, about 0.7 miles away
	mem.Add(property("200", "9009.99", "77002", 29.77, -95.36))
	mem.Add(property("201", "9009.99", "77002", 29.75, -95.36))

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 2,
	})
	require.NoError(t, err)

	assert.Len(t, result.Comps, 2)
	assert.Equal(t, comparables.TierRadius, result.Meta.GeoTier)
	assert.False(t, result.Meta.UsedNeighborhood)
	require.NotNil(t, result.Meta.RadiusMiles)
	assert.Equal(t, 1.5, *result.Meta.RadiusMiles)
	// 16 combinations exhausted the empty neighborhood tier first
	assert.Equal(t, 17, result.Meta.Attempts)

	for _, c := range result.Comps {
		require.NotNil(t, c.DistanceMiles)
		assert.LessOrEqual(t, *c.DistanceMiles, 1.5)
	}
}

func TestFindComparablesRelaxesWithinTier(t *testing.T) {
	mem := store.NewMemory()
	mem.Add(property("100", "8001.01", "77002", 29.76, -95.36))
	for _, acct := range []string{"200", "201"} {
		p := property(acct, "8001.01", "77002", 29.765, -95.36)
		p.BuildingArea = f(2500) // 25% larger, outside the tight size band
		mem.Add(p)
	}

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 2,
	})
	require.NoError(t, err)

	assert.Len(t, result.Comps, 2)
	// every combination holding size at ±5% fails first: 8 of them, then the
	// first unbounded-size combination accepts
	assert.Equal(t, 9, result.Meta.Attempts)
	assert.Equal(t, "any", result.Meta.SizeBand)
	assert.True(t, result.Meta.Relaxed["size_band"])
	assert.False(t, result.Meta.Relaxed["year_band"])
	assert.False(t, result.Meta.Relaxed["garage_rule"])
	assert.Equal(t, "±5%", result.Meta.Baseline.SizeBand)
}

func TestFindComparablesStrictFirst(t *testing.T) {
	mem := store.NewMemory()
	mem.Add(property("100", "8001.01", "77002", 29.76, -95.36))
	mem.Add(property("200", "9009.99", "77002", 29.765, -95.36))
	mem.Add(property("201", "9009.99", "77002", 29.755, -95.36))

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 2, StrictFirst: true,
	})
	require.NoError(t, err)

	assert.Len(t, result.Comps, 2)
	assert.Equal(t, comparables.TierRadius, result.Meta.GeoTier)
	// one tightest try in the empty neighborhood, one in the first radius
	assert.Equal(t, 2, result.Meta.Attempts)
	for _, relaxed := range result.Meta.Relaxed {
		assert.False(t, relaxed)
	}
}

func TestFindComparablesExhaustedIsNotAnError(t *testing.T) {
	mem := store.NewMemory()
	subject := property("100", "", "77002", 0, 0)
	subject.Latitude, subject.Longitude = nil, nil
	mem.Add(subject)

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 3,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Comps)
	assert.False(t, result.Meta.SubjectHasGeo)
	// only the postal-code tier exists for this subject
	assert.Equal(t, 16, result.Meta.Attempts)
	for _, relaxed := range result.Meta.Relaxed {
		assert.False(t, relaxed)
	}
	require.NotNil(t, result.Meta.PricingStats)
	assert.Equal(t, 0, result.Meta.PricingStats.ValueStats.Count)
}

func TestFindComparablesNoGeographicTiers(t *testing.T) {
	mem := store.NewMemory()
	subject := property("100", "", "", 0, 0)
	subject.Latitude, subject.Longitude = nil, nil
	mem.Add(subject)

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 3,
	})
	require.NoError(t, err)

	// no neighborhood code, no coordinates, no postal code: nothing to search
	assert.Empty(t, result.Comps)
	assert.Equal(t, 0, result.Meta.Attempts)
	assert.False(t, result.Meta.SubjectHasGeo)
	for _, relaxed := range result.Meta.Relaxed {
		assert.False(t, relaxed)
	}
	require.NotNil(t, result.Meta.PricingStats)
	assert.Equal(t, 0, result.Meta.PricingStats.ValueStats.Count)
}

func TestFindComparablesSubjectNotFound(t *testing.T) {
	engine := comparables.NewEngine(store.NewMemory(), tinyConfig())
	_, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "absent", MaxComps: 5, MinComps: 3,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestFindComparablesCapsAndSorts(t *testing.T) {
	mem := store.NewMemory()
	mem.Add(property("100", "8001.01", "77002", 29.76, -95.36))
	// vary the build year so scores differ
	years := map[string]int{"200": 2000, "201": 2002, "202": 2004, "203": 1998, "204": 2001, "205": 2003}
	for acct, year := range years {
		p := property(acct, "8001.01", "77002", 29.765, -95.36)
		p.BuildYear = i(year)
		mem.Add(p)
	}

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 4, MinComps: 2,
	})
	require.NoError(t, err)

	require.Len(t, result.Comps, 4)
	for j := 1; j < len(result.Comps); j++ {
		assert.GreaterOrEqual(t, result.Comps[j-1].Score, result.Comps[j].Score)
	}
}

func TestFindComparablesSortTieBreaksOnDistance(t *testing.T) {
	mem := store.NewMemory()
	mem.Add(property("100", "8001.01", "77002", 29.76, -95.36))

	// two comps beyond the 15-mile distance cap: both take the full distance
	// penalty (score 60) while their distances differ
	near := property("200", "8001.01", "77002", 30.05, -95.36) // ~20 mi
	far := property("201", "8001.01", "77002", 30.34, -95.36)  // ~40 mi
	mem.Add(near)
	mem.Add(far)

	// no coordinates and a hand-picked mix of gaps adding up to the same 0.40
	// penalty: size, year, baths, stories missing, both flags unknown, and a
	// two-bedroom delta
	blind := property("202", "8001.01", "77002", 0, 0)
	blind.Latitude, blind.Longitude = nil, nil
	blind.BuildingArea = nil
	blind.BuildYear = nil
	blind.Bedrooms = f(5)
	blind.Bathrooms = nil
	blind.Stories = nil
	blind.HasPool = nil
	blind.HasGarage = nil
	mem.Add(blind)

	engine := comparables.NewEngine(mem, tinyConfig())
	result, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 3,
	})
	require.NoError(t, err)

	require.Len(t, result.Comps, 3)
	for _, c := range result.Comps {
		assert.Equal(t, 60.0, c.Score)
	}
	// equal scores break on ascending distance, unknown distance last
	assert.Equal(t, "200", result.Comps[0].Account)
	assert.Equal(t, "201", result.Comps[1].Account)
	assert.Equal(t, "202", result.Comps[2].Account)
	require.NotNil(t, result.Comps[0].DistanceMiles)
	require.NotNil(t, result.Comps[1].DistanceMiles)
	assert.Less(t, *result.Comps[0].DistanceMiles, *result.Comps[1].DistanceMiles)
	assert.Nil(t, result.Comps[2].DistanceMiles)
}

func TestFindComparablesMaxRadiusCeiling(t *testing.T) {
	mem := store.NewMemory()
	subject := property("100", "", "", 29.76, -95.36)
	mem.Add(subject)
	// about 2.5 miles north
	mem.Add(property("200", "", "", 29.796, -95.36))
	mem.Add(property("201", "", "", 29.7961, -95.36))

	engine := comparables.NewEngine(mem, tinyConfig())

	capped, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 2, MaxRadius: f(1.5),
	})
	require.NoError(t, err)
	assert.Empty(t, capped.Comps, "neighbors sit beyond the capped radius")

	open, err := engine.FindComparables(context.Background(), comparables.Request{
		Account: "100", MaxComps: 5, MinComps: 2,
	})
	require.NoError(t, err)
	assert.Len(t, open.Comps, 2)
	require.NotNil(t, open.Meta.RadiusMiles)
	assert.Equal(t, 3.0, *open.Meta.RadiusMiles)
}
