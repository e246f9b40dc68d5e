package comparables

import "math"

const (
	// distanceCapMiles is where the distance penalty saturates.
	distanceCapMiles = 15.0
	// sizeDeltaCap is the relative size delta at which the size penalty
	// saturates.
	sizeDeltaCap = 0.30
	// yearDeltaCap is the year delta at which the year penalty saturates.
	yearDeltaCap = 15.0

	// missingPenaltyFactor is applied (times the dimension weight) when the
	// subject has a value but the comparable does not. Sparse records used to
	// rank artificially high with no penalty at all; a flat half-weight keeps
	// them below known-similar records without treating them as worst-case.
	missingPenaltyFactor = 0.5
	// flagMismatchFactor and flagUnknownFactor weight definite pool/garage
	// mismatches and unknown flags; unknown is less punitive than a definite
	// mismatch.
	flagMismatchFactor = 0.5
	flagUnknownFactor  = 0.25
)

// Score computes the similarity score in [0, 100] (higher is better) for a
// comparable against the subject: a weighted sum of capped per-dimension
// penalties, inverted and scaled.
func Score(comp *Comparable, subject *Subject, w Weights) float64 {
	penalty := 0.0

	if comp.DistanceMiles != nil {
		penalty += w.Distance * math.Min(1, *comp.DistanceMiles/distanceCapMiles)
	}

	if subject.BuildingArea != nil {
		if comp.BuildingArea != nil {
			delta := math.Abs(*comp.BuildingArea-*subject.BuildingArea) / *subject.BuildingArea
			penalty += w.Size * math.Min(1, delta/sizeDeltaCap)
		} else {
			penalty += w.Size * missingPenaltyFactor
		}
	}

	if subject.BuildYear != nil {
		if comp.BuildYear != nil {
			delta := math.Abs(float64(*comp.BuildYear - *subject.BuildYear))
			penalty += w.Year * math.Min(1, delta/yearDeltaCap)
		} else {
			penalty += w.Year * missingPenaltyFactor
		}
	}

	if subject.Bedrooms != nil {
		if comp.Bedrooms != nil {
			penalty += w.BedsBaths * math.Min(2, math.Abs(*comp.Bedrooms-*subject.Bedrooms)) / 2
		} else {
			penalty += w.BedsBaths * missingPenaltyFactor
		}
	}
	if subject.Bathrooms != nil {
		if comp.Bathrooms != nil {
			penalty += w.BedsBaths * math.Min(2, math.Abs(*comp.Bathrooms-*subject.Bathrooms)) / 2
		} else {
			penalty += w.BedsBaths * missingPenaltyFactor
		}
	}

	if subject.Stories != nil {
		if comp.Stories != nil {
			penalty += w.Stories * math.Min(1, math.Abs(float64(*comp.Stories-*subject.Stories)))
		} else {
			penalty += w.Stories * missingPenaltyFactor
		}
	}

	penalty += flagPenalty(subject.HasPool, comp.HasPool, w.PoolGarage)
	penalty += flagPenalty(subject.HasGarage, comp.HasGarage, w.PoolGarage)

	score := 100 * (1 - math.Min(0.99, penalty))
	if score < 0 {
		score = 0
	}
	return round2(score)
}

// flagPenalty handles one tri-state flag dimension. No penalty when the
// subject's flag is unknown or both flags agree.
func flagPenalty(subject, comp *bool, weight float64) float64 {
	if subject == nil {
		return 0
	}
	if comp == nil {
		return weight * flagUnknownFactor
	}
	if *comp != *subject {
		return weight * flagMismatchFactor
	}
	return 0
}
