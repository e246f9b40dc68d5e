package comparables

import "math"

// materialize turns a passing candidate into a Comparable. distance is the
// precomputed haversine miles for this candidate, nil when either side lacks
// coordinates. radiusCap is the tier's radius for radius tiers and nil
// otherwise; bounding-box queries over-select relative to a true circle, so a
// known distance beyond the cap drops the candidate here as the second-pass
// re-check.
func materialize(c *Candidate, distance *float64, radiusCap *float64) (*Comparable, bool) {
	if radiusCap != nil && distance != nil && *distance > *radiusCap {
		return nil, false
	}
	comp := &Comparable{
		Account:      c.Account,
		Address:      c.Address,
		PostalCode:   c.PostalCode,
		MarketValue:  c.MarketValue,
		LandArea:     c.LandArea,
		BuildingArea: c.BuildingArea,
		BuildYear:    c.BuildYear,
		Bedrooms:     c.Bedrooms,
		Bathrooms:    c.Bathrooms,
		Stories:      c.Stories,
		HasPool:      c.HasPool,
		HasGarage:    c.HasGarage,
		Amenities:    c.Amenities,
		PropertyType: c.PropertyType,
	}
	if distance != nil {
		comp.DistanceMiles = ptr(round2(*distance))
	}
	comp.PricePerSqft = pricePerSqft(c.MarketValue, c.BuildingArea)
	return comp, true
}

// pricePerSqft derives price-per-area when both inputs are known. The
// adapters normalize zero areas and values to nil, so no division guard is
// needed beyond the nil checks.
func pricePerSqft(value, area *float64) *float64 {
	if value == nil || area == nil {
		return nil
	}
	return ptr(round2(*value / *area))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T {
	return &v
}
