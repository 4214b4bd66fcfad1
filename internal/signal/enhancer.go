package signal

import (
	"math"
	"sort"

	"sniperx/internal/types"
)

// Confidence weights. The sentiment component dominates; engagement is
// log-normalized against the run's maximum so a single viral post cannot
// saturate every signal; the two context flags add fixed boosts.
const (
	engagementWeight = 0.20
	burstBoost       = 0.15
	engagementBoost  = 0.10
	neutralBase      = 0.50
)

// Enhance computes confidence and urgency for each candidate signal, drops
// signals below minConfidence and returns the rest ranked by confidence
// descending, most recent first on ties. The input slice is not modified.
func Enhance(candidates []types.Signal, maxEngagement, minConfidence float64) []types.Signal {
	out := make([]types.Signal, 0, len(candidates))
	for _, sig := range candidates {
		sig.Confidence = confidence(sig, maxEngagement)
		if sig.Confidence < minConfidence {
			continue
		}
		sig.Urgency = urgencyFor(sig.Confidence)
		out = append(out, sig)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func confidence(sig types.Signal, maxEngagement float64) float64 {
	var c float64
	if sig.Type == types.Neutral {
		// Keyword match with weak sentiment: a flat middling base.
		c = neutralBase
	} else {
		c = math.Min(math.Abs(sig.Polarity)*sig.Subjectivity, 1)
	}

	if maxEngagement > 0 {
		c += engagementWeight * math.Log1p(sig.EngagementScore) / math.Log1p(maxEngagement)
	}
	if sig.InBurst {
		c += burstBoost
	}
	if sig.HighEngagement {
		c += engagementBoost
	}

	return math.Min(math.Max(c, 0), 1)
}

func urgencyFor(confidence float64) types.Urgency {
	switch {
	case confidence >= 0.85:
		return types.UrgencyCritical
	case confidence >= 0.70:
		return types.UrgencyHigh
	case confidence >= 0.50:
		return types.UrgencyMedium
	default:
		return types.UrgencyLow
	}
}
