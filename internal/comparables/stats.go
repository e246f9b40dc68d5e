package comparables

import (
	"math"
	"sort"
)

// Distribution is one descriptive-statistics block over a value series.
// Quartiles use the index method int(q*(n-1)) on the sorted series and the
// standard deviation is the population form; both match the figures the
// protest workflow has always reported.
type Distribution struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean,omitempty"`
	Median float64  `json:"median,omitempty"`
	Min    float64  `json:"min,omitempty"`
	Max    float64  `json:"max,omitempty"`
	Q1     float64  `json:"q1,omitempty"`
	Q3     float64  `json:"q3,omitempty"`
	IQR    float64  `json:"iqr,omitempty"`
	Range  float64  `json:"range,omitempty"`
	Std    float64  `json:"std,omitempty"`
	CV     *float64 `json:"cv,omitempty"`
}

// Deviations expresses the subject's value against a distribution's mean and
// median. A base statistic of zero yields no entry for that base.
type Deviations struct {
	DiffVsMean   *float64 `json:"diff_vs_mean,omitempty"`
	PctVsMean    *float64 `json:"pct_vs_mean,omitempty"`
	DiffVsMedian *float64 `json:"diff_vs_median,omitempty"`
	PctVsMedian  *float64 `json:"pct_vs_median,omitempty"`
}

// BandCounts are the comparables whose price-per-area lands within the given
// tolerance of the subject's.
type BandCounts struct {
	Within5Pct  int `json:"within_5pct"`
	Within10Pct int `json:"within_10pct"`
	Within15Pct int `json:"within_15pct"`
}

// PricingStats summarizes the comparable set's pricing against the subject.
type PricingStats struct {
	ValueStats        Distribution `json:"value_stats"`
	PPSFStats         Distribution `json:"ppsf_stats"`
	SubjectVsValue    Deviations   `json:"subject_vs_value"`
	SubjectVsPPSF     Deviations   `json:"subject_vs_ppsf"`
	PPSFBandCounts    *BandCounts  `json:"ppsf_band_counts,omitempty"`
	PoolMatchRate     *float64     `json:"pool_match_rate,omitempty"`
	GarageMatchRate   *float64     `json:"garage_match_rate,omitempty"`
	TrimmedPPSFMedian *float64     `json:"trimmed_ppsf_median,omitempty"`
}

// ComputePricingStats builds the pricing summary over the final comparable
// list. Pure computation over in-memory slices; no I/O.
func ComputePricingStats(subject *Subject, comps []*Comparable) *PricingStats {
	var values, ppsf []float64
	for _, c := range comps {
		if c.MarketValue != nil {
			values = append(values, *c.MarketValue)
		}
		if c.PricePerSqft != nil {
			ppsf = append(ppsf, *c.PricePerSqft)
		}
	}

	stats := &PricingStats{
		ValueStats: describe(values),
		PPSFStats:  describe(ppsf),
	}
	stats.SubjectVsValue = deviations(subject.MarketValue, stats.ValueStats)
	stats.SubjectVsPPSF = deviations(subject.PricePerSqft, stats.PPSFStats)

	if subject.PricePerSqft != nil && len(ppsf) > 0 {
		stats.PPSFBandCounts = &BandCounts{
			Within5Pct:  withinBand(ppsf, *subject.PricePerSqft, 0.05),
			Within10Pct: withinBand(ppsf, *subject.PricePerSqft, 0.10),
			Within15Pct: withinBand(ppsf, *subject.PricePerSqft, 0.15),
		}
	}

	stats.PoolMatchRate = matchRate(subject.HasPool, comps, func(c *Comparable) *bool { return c.HasPool })
	stats.GarageMatchRate = matchRate(subject.HasGarage, comps, func(c *Comparable) *bool { return c.HasGarage })

	// Outlier-trimmed median: only meaningful with a few points, and only
	// reported when trimming actually removed something.
	if stats.PPSFStats.Count >= 4 {
		lo := stats.PPSFStats.Q1 - 1.5*stats.PPSFStats.IQR
		hi := stats.PPSFStats.Q3 + 1.5*stats.PPSFStats.IQR
		var trimmed []float64
		for _, x := range ppsf {
			if x >= lo && x <= hi {
				trimmed = append(trimmed, x)
			}
		}
		if len(trimmed) > 0 && len(trimmed) < len(ppsf) {
			d := describe(trimmed)
			stats.TrimmedPPSFMedian = ptr(d.Median)
		}
	}
	return stats
}

func describe(series []float64) Distribution {
	n := len(series)
	if n == 0 {
		return Distribution{Count: 0}
	}
	s := append([]float64(nil), series...)
	sort.Float64s(s)

	mean := 0.0
	for _, x := range s {
		mean += x
	}
	mean /= float64(n)

	var median float64
	if n%2 == 1 {
		median = s[n/2]
	} else {
		median = (s[n/2-1] + s[n/2]) / 2
	}
	q1 := s[int(0.25*float64(n-1))]
	q3 := s[int(0.75*float64(n-1))]

	variance := 0.0
	for _, x := range s {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(n)
	std := math.Sqrt(variance)

	d := Distribution{
		Count:  n,
		Mean:   round2(mean),
		Median: round2(median),
		Min:    round2(s[0]),
		Max:    round2(s[n-1]),
		Q1:     round2(q1),
		Q3:     round2(q3),
		IQR:    round2(q3 - q1),
		Range:  round2(s[n-1] - s[0]),
		Std:    round2(std),
	}
	if mean != 0 {
		d.CV = ptr(round3(std / mean))
	}
	return d
}

func deviations(value *float64, base Distribution) Deviations {
	var out Deviations
	if value == nil || base.Count == 0 {
		return out
	}
	if base.Mean != 0 {
		out.DiffVsMean = ptr(round2(*value - base.Mean))
		out.PctVsMean = ptr(round2((*value - base.Mean) / base.Mean * 100))
	}
	if base.Median != 0 {
		out.DiffVsMedian = ptr(round2(*value - base.Median))
		out.PctVsMedian = ptr(round2((*value - base.Median) / base.Median * 100))
	}
	return out
}

func withinBand(series []float64, center, pct float64) int {
	lo, hi := center*(1-pct), center*(1+pct)
	count := 0
	for _, x := range series {
		if x >= lo && x <= hi {
			count++
		}
	}
	return count
}

// matchRate is the percentage of tri-state-known comparables whose flag
// agrees with the subject's known flag; nil when either side has no known
// data.
func matchRate(subject *bool, comps []*Comparable, flag func(*Comparable) *bool) *float64 {
	if subject == nil {
		return nil
	}
	known, matched := 0, 0
	for _, c := range comps {
		f := flag(c)
		if f == nil {
			continue
		}
		known++
		if *f == *subject {
			matched++
		}
	}
	if known == 0 {
		return nil
	}
	return ptr(round2(float64(matched) / float64(known) * 100))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
