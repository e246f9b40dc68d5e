package comparables

import (
	"fmt"
	"math"
)

// Flag-matching rules for the tri-state pool/garage dimensions.
const (
	RuleMatch = "match"
	RuleAny   = "any"
)

// ConstraintSet is one combination of tolerance bands across every matching
// dimension. A nil band means the dimension is unbounded.
type ConstraintSet struct {
	Size    *float64
	Lot     *float64
	Year    *int
	BedBath *int
	Story   *int
	Pool    string
	Garage  string
}

// Labels renders the combination the way the UI and exports expect it.
func (c ConstraintSet) Labels() BaselineLabels {
	return BaselineLabels{
		SizeBand:    pctLabel(c.Size),
		LotBand:     pctLabel(c.Lot),
		YearBand:    yearLabel(c.Year),
		BedBathBand: absLabel(c.BedBath),
		StoryBand:   absLabel(c.Story),
		PoolRule:    c.Pool,
		GarageRule:  c.Garage,
	}
}

func pctLabel(band *float64) string {
	if band == nil {
		return "any"
	}
	return fmt.Sprintf("±%d%%", int(math.Round(*band*100)))
}

func yearLabel(band *int) string {
	if band == nil {
		return "any"
	}
	return fmt.Sprintf("±%dy", *band)
}

func absLabel(band *int) string {
	if band == nil {
		return "any"
	}
	return fmt.Sprintf("±%d", *band)
}

// constraintSpace is the per-request search space: every dimension's band
// list, already narrowed to the subject (story bands collapse to unbounded
// when the subject's story count is unknown, flag rules to "any" when the
// subject's flag is unknown).
type constraintSpace struct {
	size    []*float64
	lot     []*float64
	year    []*int
	bedBath []*int
	story   []*int
	pool    []string
	garage  []string
}

func newConstraintSpace(cfg *Config, subject *Subject) constraintSpace {
	sp := constraintSpace{
		size:    cfg.SizeBands,
		lot:     cfg.LotBands,
		year:    cfg.YearBands,
		bedBath: cfg.BedBathBands,
		story:   cfg.StoryBands,
		pool:    []string{RuleMatch, RuleAny},
		garage:  []string{RuleMatch, RuleAny},
	}
	if subject.Stories == nil {
		sp.story = []*int{nil}
	}
	if subject.HasPool == nil {
		sp.pool = []string{RuleAny}
	}
	if subject.HasGarage == nil {
		sp.garage = []string{RuleAny}
	}
	return sp
}

// tightest returns the first element of every dimension's list: the strict
// baseline combination.
func (sp constraintSpace) tightest() ConstraintSet {
	return ConstraintSet{
		Size:    sp.size[0],
		Lot:     sp.lot[0],
		Year:    sp.year[0],
		BedBath: sp.bedBath[0],
		Story:   sp.story[0],
		Pool:    sp.pool[0],
		Garage:  sp.garage[0],
	}
}

// combinations iterates the Cartesian product lazily in the fixed nesting
// order size → lot → year → bed/bath → stories → pool → garage (garage varies
// fastest). The order decides which combination is accepted first, so it is
// load-bearing, not cosmetic.
type combinations struct {
	space   constraintSpace
	idx     [7]int
	started bool
	done    bool
}

func (sp constraintSpace) combinations() *combinations {
	return &combinations{space: sp}
}

func (it *combinations) dims() [7]int {
	return [7]int{
		len(it.space.size),
		len(it.space.lot),
		len(it.space.year),
		len(it.space.bedBath),
		len(it.space.story),
		len(it.space.pool),
		len(it.space.garage),
	}
}

// Next advances the iterator, returning false once the space is exhausted.
func (it *combinations) Next() (ConstraintSet, bool) {
	if it.done {
		return ConstraintSet{}, false
	}
	if !it.started {
		it.started = true
		return it.current(), true
	}
	dims := it.dims()
	for d := len(it.idx) - 1; d >= 0; d-- {
		it.idx[d]++
		if it.idx[d] < dims[d] {
			return it.current(), true
		}
		it.idx[d] = 0
		if d == 0 {
			it.done = true
			return ConstraintSet{}, false
		}
	}
	it.done = true
	return ConstraintSet{}, false
}

func (it *combinations) current() ConstraintSet {
	return ConstraintSet{
		Size:    it.space.size[it.idx[0]],
		Lot:     it.space.lot[it.idx[1]],
		Year:    it.space.year[it.idx[2]],
		BedBath: it.space.bedBath[it.idx[3]],
		Story:   it.space.story[it.idx[4]],
		Pool:    it.space.pool[it.idx[5]],
		Garage:  it.space.garage[it.idx[6]],
	}
}

// passes reports whether the candidate satisfies every active dimension of
// the combination. Relative bands (size, lot, year) only constrain when both
// sides carry a known value; missing data never rejects there. Stories is the
// deliberate exception: with the subject's story count known and the band
// bounded, a candidate with unknown stories is rejected. Flag rules reject
// only on a definite true/false mismatch.
func passes(subject *Subject, c *Candidate, cs ConstraintSet) bool {
	if cs.Size != nil && subject.BuildingArea != nil && c.BuildingArea != nil {
		base := *subject.BuildingArea
		if *c.BuildingArea < base*(1-*cs.Size) || *c.BuildingArea > base*(1+*cs.Size) {
			return false
		}
	}
	if cs.Lot != nil && subject.LandArea != nil && c.LandArea != nil {
		base := *subject.LandArea
		if *c.LandArea < base*(1-*cs.Lot) || *c.LandArea > base*(1+*cs.Lot) {
			return false
		}
	}
	if cs.Year != nil && subject.BuildYear != nil && c.BuildYear != nil {
		if abs(*c.BuildYear-*subject.BuildYear) > *cs.Year {
			return false
		}
	}
	if cs.BedBath != nil {
		if subject.Bedrooms != nil && c.Bedrooms != nil {
			if math.Abs(*c.Bedrooms-*subject.Bedrooms) > float64(*cs.BedBath) {
				return false
			}
		}
		if subject.Bathrooms != nil && c.Bathrooms != nil {
			if math.Abs(*c.Bathrooms-*subject.Bathrooms) > float64(*cs.BedBath) {
				return false
			}
		}
	}
	if cs.Story != nil && subject.Stories != nil {
		if c.Stories == nil {
			return false
		}
		if abs(*c.Stories-*subject.Stories) > *cs.Story {
			return false
		}
	}
	if cs.Pool == RuleMatch && subject.HasPool != nil && c.HasPool != nil && *c.HasPool != *subject.HasPool {
		return false
	}
	if cs.Garage == RuleMatch && subject.HasGarage != nil && c.HasGarage != nil && *c.HasGarage != *subject.HasGarage {
		return false
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
