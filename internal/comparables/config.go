package comparables

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights defines the scoring weight of each similarity dimension. The
// defaults sum to 1.0 so the raw penalty stays near [0, 1] before capping.
type Weights struct {
	Distance   float64 `json:"distance"`
	Size       float64 `json:"size"`
	Year       float64 `json:"year"`
	BedsBaths  float64 `json:"beds_baths"`
	Stories    float64 `json:"stories"`
	PoolGarage float64 `json:"pool_garage"`
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Distance:   0.40,
		Size:       0.25,
		Year:       0.10,
		BedsBaths:  0.10,
		Stories:    0.05,
		PoolGarage: 0.10,
	}
}

// Config holds the search-space data the engine iterates over. Bands are
// ordered tightest first; a nil entry is the unbounded sentinel (no
// constraint on that dimension). All of this is data, not behavior.
type Config struct {
	SizeBands    []*float64 `json:"size_bands"`
	LotBands     []*float64 `json:"lot_bands"`
	YearBands    []*int     `json:"year_bands"`
	BedBathBands []*int     `json:"bed_bath_bands"`
	StoryBands   []*int     `json:"story_bands"`
	RadiusTiers  []float64  `json:"radius_tiers"`
	Weights      Weights    `json:"scoring_weights"`
	CacheSize    int        `json:"cache_max_entries"`
}

// DefaultConfig returns the band lists, radius tiers, weights and cache
// capacity the original appraisal workflow uses.
func DefaultConfig() Config {
	return Config{
		SizeBands:    bandsPct(0.05, 0.10, 0.15, 0.20, 0.25, 0.35),
		LotBands:     bandsPct(0.10, 0.20, 0.30, 0.40, 0.50),
		YearBands:    bandsInt(5, 10, 15, 20, 30),
		BedBathBands: bandsInt(1, 2, 3),
		StoryBands:   bandsInt(0, 1, 2),
		RadiusTiers:  []float64{1.5, 3, 5, 10, 15, 20, 25},
		Weights:      DefaultWeights(),
		CacheSize:    50,
	}
}

// LoadConfigFromFile overlays a JSON file onto the defaults. Unspecified
// fields keep their default values.
func LoadConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read comparables config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal comparables config: %w", err)
	}
	return cfg, nil
}

// bandsPct converts relative tolerances to a band list ending in unbounded.
func bandsPct(vals ...float64) []*float64 {
	out := make([]*float64, 0, len(vals)+1)
	for _, v := range vals {
		v := v
		out = append(out, &v)
	}
	return append(out, nil)
}

func bandsInt(vals ...int) []*int {
	out := make([]*int, 0, len(vals)+1)
	for _, v := range vals {
		v := v
		out = append(out, &v)
	}
	return append(out, nil)
}
