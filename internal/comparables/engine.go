package comparables

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Geographic tier names as they appear in result metadata.
const (
	TierNeighborhood = "neighborhood"
	TierRadius       = "radius"
	TierZip          = "zip"
)

// unknownDistanceSort places comparables without a distance after every
// comparable with one inside a score tie group.
const unknownDistanceSort = 9999.0

// Engine runs the relaxation search against a repository. It is stateless and
// safe for concurrent use; all per-request state lives on the stack.
type Engine struct {
	store Store
	cfg   Config
}

// NewEngine creates a matching engine over the given repository.
func NewEngine(store Store, cfg Config) *Engine {
	return &Engine{store: store, cfg: cfg}
}

// geoTier is one candidate-discovery strategy, tried in priority order:
// neighborhood, then each radius ascending, then postal code.
type geoTier struct {
	name   string
	radius *float64
	fetch  func(ctx context.Context) ([]*Candidate, error)
}

// FindComparables executes the full relaxation search for one subject.
// Running out of comparables is not an error: the result then carries an
// empty list and the attempt count. Repository failures and an unknown
// subject propagate unchanged.
func (e *Engine) FindComparables(ctx context.Context, req Request) (*MatchResult, error) {
	subject, err := e.store.FetchSubject(ctx, req.Account)
	if err != nil {
		return nil, fmt.Errorf("fetch subject %s: %w", req.Account, err)
	}
	subject.PricePerSqft = pricePerSqft(subject.MarketValue, subject.BuildingArea)

	tiers := e.geoTiers(subject, req.MaxRadius)
	space := newConstraintSpace(&e.cfg, subject)
	baseline := e.baselineLabels(subject)

	meta := &Meta{
		SubjectHasGeo:  subject.HasGeo(),
		ScoringWeights: e.cfg.Weights,
		Baseline:       baseline,
	}

	attempts := 0
	for _, tier := range tiers {
		candidates, err := tier.fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %s candidates: %w", tier.name, err)
		}
		distances := e.distanceMap(subject, candidates)

		if req.StrictFirst {
			// Strict mode tries only the tightest combination per tier, then
			// moves outward geographically instead of relaxing.
			attempts++
			cs := space.tightest()
			selected := e.collect(subject, candidates, distances, cs, tier, req.MaxComps)
			if len(selected) >= req.MinComps {
				return e.accept(subject, selected, tier, cs, meta, attempts), nil
			}
			continue
		}

		it := space.combinations()
		for {
			cs, ok := it.Next()
			if !ok {
				break
			}
			attempts++
			selected := e.collect(subject, candidates, distances, cs, tier, req.MaxComps)
			if len(selected) >= req.MinComps {
				return e.accept(subject, selected, tier, cs, meta, attempts), nil
			}
		}
	}

	// Exhausted: report the empty outcome with everything the caller needs to
	// explain it.
	meta.Attempts = attempts
	meta.Relaxed = relaxedMap(baseline, baseline) // nothing accepted, nothing relaxed
	meta.PricingStats = ComputePricingStats(subject, nil)
	return &MatchResult{Subject: subject, Comps: []*Comparable{}, Meta: meta}, nil
}

// geoTiers builds the ordered tier list for this subject. A maxRadius ceiling
// filters the radius tiers but falls back to the full list rather than
// leaving the radius strategy empty.
func (e *Engine) geoTiers(subject *Subject, maxRadius *float64) []geoTier {
	var tiers []geoTier
	if strings.TrimSpace(subject.NeighborhoodCode) != "" {
		code := subject.NeighborhoodCode
		tiers = append(tiers, geoTier{
			name: TierNeighborhood,
			fetch: func(ctx context.Context) ([]*Candidate, error) {
				return e.store.FetchCandidatesByNeighborhood(ctx, subject.Account, code)
			},
		})
	}
	if subject.HasGeo() {
		radii := e.cfg.RadiusTiers
		if maxRadius != nil {
			var capped []float64
			for _, r := range radii {
				if r <= *maxRadius {
					capped = append(capped, r)
				}
			}
			if len(capped) > 0 {
				radii = capped
			}
		}
		lat, lon := *subject.Latitude, *subject.Longitude
		for _, r := range radii {
			r := r
			tiers = append(tiers, geoTier{
				name:   TierRadius,
				radius: &r,
				fetch: func(ctx context.Context) ([]*Candidate, error) {
					return e.store.FetchCandidatesByRadius(ctx, subject.Account, lat, lon, r)
				},
			})
		}
	}
	if subject.PostalCode != "" {
		tiers = append(tiers, geoTier{
			name: TierZip,
			fetch: func(ctx context.Context) ([]*Candidate, error) {
				return e.store.FetchCandidatesByPostalCode(ctx, subject.Account, subject.PostalCode)
			},
		})
	}
	return tiers
}

// distanceMap precomputes candidate distances when both sides have
// coordinates. Candidates without geo simply have no entry.
func (e *Engine) distanceMap(subject *Subject, candidates []*Candidate) map[string]float64 {
	if !subject.HasGeo() {
		return nil
	}
	out := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		if c.Latitude != nil && c.Longitude != nil {
			out[c.Account] = Distance(*subject.Latitude, *subject.Longitude, *c.Latitude, *c.Longitude)
		}
	}
	return out
}

// collect filters and materializes candidates for one combination, stopping
// once maxComps have been gathered.
func (e *Engine) collect(subject *Subject, candidates []*Candidate, distances map[string]float64,
	cs ConstraintSet, tier geoTier, maxComps int) []*Comparable {

	var selected []*Comparable
	for _, cand := range candidates {
		if !passes(subject, cand, cs) {
			continue
		}
		var dist *float64
		if d, ok := distances[cand.Account]; ok {
			dist = &d
		}
		comp, ok := materialize(cand, dist, tier.radius)
		if !ok {
			continue
		}
		selected = append(selected, comp)
		if len(selected) >= maxComps {
			break
		}
	}
	return selected
}

// accept finalizes the winning combination: scores, sorts, and fills in the
// metadata and pricing statistics.
func (e *Engine) accept(subject *Subject, comps []*Comparable, tier geoTier, cs ConstraintSet,
	meta *Meta, attempts int) *MatchResult {

	labels := cs.Labels()
	meta.GeoTier = tier.name
	meta.RadiusMiles = tier.radius
	meta.SizeBand = labels.SizeBand
	meta.LotBand = labels.LotBand
	meta.YearBand = labels.YearBand
	meta.BedBathBand = labels.BedBathBand
	meta.StoryBand = labels.StoryBand
	meta.PoolRule = labels.PoolRule
	meta.GarageRule = labels.GarageRule
	meta.Attempts = attempts
	meta.UsedNeighborhood = tier.name == TierNeighborhood
	meta.Relaxed = relaxedMap(labels, meta.Baseline)

	for _, c := range comps {
		c.Score = Score(c, subject, e.cfg.Weights)
	}
	sort.SliceStable(comps, func(i, j int) bool {
		if comps[i].Score != comps[j].Score {
			return comps[i].Score > comps[j].Score
		}
		return sortDistance(comps[i]) < sortDistance(comps[j])
	})

	meta.PricingStats = ComputePricingStats(subject, comps)
	return &MatchResult{Subject: subject, Comps: comps, Meta: meta}
}

// baselineLabels describes the tightest bands for relaxation reporting. The
// flag rules always read "match" here even when the subject's own flag is
// unknown, so an accepted "any" shows up as relaxed.
func (e *Engine) baselineLabels(subject *Subject) BaselineLabels {
	story := "any"
	if subject.Stories != nil {
		story = absLabel(e.cfg.StoryBands[0])
	}
	return BaselineLabels{
		SizeBand:    pctLabel(e.cfg.SizeBands[0]),
		LotBand:     pctLabel(e.cfg.LotBands[0]),
		YearBand:    yearLabel(e.cfg.YearBands[0]),
		BedBathBand: absLabel(e.cfg.BedBathBands[0]),
		StoryBand:   story,
		PoolRule:    RuleMatch,
		GarageRule:  RuleMatch,
	}
}

func relaxedMap(accepted, baseline BaselineLabels) map[string]bool {
	return map[string]bool{
		"size_band":     accepted.SizeBand != baseline.SizeBand,
		"lot_band":      accepted.LotBand != baseline.LotBand,
		"year_band":     accepted.YearBand != baseline.YearBand,
		"bed_bath_band": accepted.BedBathBand != baseline.BedBathBand,
		"story_band":    accepted.StoryBand != baseline.StoryBand,
		"pool_rule":     accepted.PoolRule != baseline.PoolRule,
		"garage_rule":   accepted.GarageRule != baseline.GarageRule,
	}
}

func sortDistance(c *Comparable) float64 {
	if c.DistanceMiles == nil {
		return unknownDistanceSort
	}
	return *c.DistanceMiles
}
