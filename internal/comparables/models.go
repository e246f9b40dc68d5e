package comparables

// Optional fields use pointers throughout: the appraisal roll is full of
// blank, zero-as-blank, and non-numeric text values, and the SQL adapters
// normalize all of those to nil before a record reaches the engine. A nil
// field never rejects a candidate (stories excepted, see constraints.go).

// Subject is the property whose comparables are being sought. Immutable for
// the duration of a single matching request.
type Subject struct {
	Account          string   `json:"acct"`
	Address          string   `json:"site_addr_1"`
	PostalCode       string   `json:"site_addr_3"`
	MarketValue      *float64 `json:"market_value"`
	LandArea         *float64 `json:"land_area"`
	BuildingArea     *float64 `json:"building_area"`
	BuildYear        *int     `json:"build_year"`
	Bedrooms         *float64 `json:"bedrooms"`
	Bathrooms        *float64 `json:"bathrooms"`
	Stories          *int     `json:"stories"`
	HasPool          *bool    `json:"has_pool"`
	HasGarage        *bool    `json:"has_garage"`
	Amenities        string   `json:"amenities,omitempty"`
	PropertyType     string   `json:"property_type,omitempty"`
	NeighborhoodCode string   `json:"neighborhood_code,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	PricePerSqft     *float64 `json:"ppsf,omitempty"`
}

// HasGeo reports whether the subject carries a usable coordinate pair.
func (s *Subject) HasGeo() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Candidate is a raw record produced by the repository for one geographic
// tier. Same shape as Subject minus the neighborhood code; geo presence is
// not guaranteed.
type Candidate struct {
	Account      string
	Address      string
	PostalCode   string
	MarketValue  *float64
	LandArea     *float64
	BuildingArea *float64
	BuildYear    *int
	Bedrooms     *float64
	Bathrooms    *float64
	Stories      *int
	HasPool      *bool
	HasGarage    *bool
	Amenities    string
	PropertyType string
	Latitude     *float64
	Longitude    *float64
}

// Comparable is a candidate that survived a constraint combination, enriched
// with distance, price-per-area and (after ranking) a similarity score. It is
// read-only output; nothing mutates it after creation except the single score
// assignment in the engine.
type Comparable struct {
	Account       string   `json:"acct"`
	Address       string   `json:"site_addr_1"`
	PostalCode    string   `json:"site_addr_3"`
	MarketValue   *float64 `json:"market_value"`
	LandArea      *float64 `json:"land_area"`
	BuildingArea  *float64 `json:"building_area"`
	BuildYear     *int     `json:"build_year"`
	Bedrooms      *float64 `json:"bedrooms"`
	Bathrooms     *float64 `json:"bathrooms"`
	Stories       *int     `json:"stories"`
	HasPool       *bool    `json:"has_pool"`
	HasGarage     *bool    `json:"has_garage"`
	Amenities     string   `json:"amenities,omitempty"`
	PropertyType  string   `json:"property_type,omitempty"`
	DistanceMiles *float64 `json:"distance_miles"`
	PricePerSqft  *float64 `json:"ppsf,omitempty"`
	Score         float64  `json:"score"`
}

// Meta records how the accepted comparable set was found.
type Meta struct {
	GeoTier          string          `json:"geo_tier"`
	RadiusMiles      *float64        `json:"radius_miles"`
	SizeBand         string          `json:"size_band"`
	LotBand          string          `json:"lot_band"`
	YearBand         string          `json:"year_band"`
	BedBathBand      string          `json:"bed_bath_band"`
	StoryBand        string          `json:"story_band"`
	PoolRule         string          `json:"pool_rule"`
	GarageRule       string          `json:"garage_rule"`
	Attempts         int             `json:"attempts"`
	SubjectHasGeo    bool            `json:"subject_has_geo"`
	UsedNeighborhood bool            `json:"used_neighborhood"`
	ScoringWeights   Weights         `json:"scoring_weights"`
	Baseline         BaselineLabels  `json:"baseline"`
	Relaxed          map[string]bool `json:"relaxed"`
	PricingStats     *PricingStats   `json:"pricing_stats"`
}

// BaselineLabels are the human-readable labels of the tightest combination,
// reported alongside the accepted labels so the caller can show what was
// relaxed.
type BaselineLabels struct {
	SizeBand    string `json:"size_band"`
	LotBand     string `json:"lot_band"`
	YearBand    string `json:"year_band"`
	BedBathBand string `json:"bed_bath_band"`
	StoryBand   string `json:"story_band"`
	PoolRule    string `json:"pool_rule"`
	GarageRule  string `json:"garage_rule"`
}

// MatchResult is the full outcome of one find-comparables request. It is a
// plain serializable structure; rendering and transport belong to the caller.
type MatchResult struct {
	Subject *Subject      `json:"subject"`
	Comps   []*Comparable `json:"comps"`
	Meta    *Meta         `json:"meta"`
}

// Request carries the caller-supplied search parameters. MinComps ≤ MaxComps
// is the caller's contract (handlers clamp); the engine does not re-validate.
type Request struct {
	Account     string
	MaxComps    int
	MinComps    int
	StrictFirst bool
	MaxRadius   *float64
}
