package signal

import (
	"strings"

	"sniperx/internal/types"
)

// Thresholds carries the sentiment cutoffs for signal qualification and
// classification.
type Thresholds struct {
	Positive float64 // polarity at or above this is BULLISH
	Negative float64 // polarity at or below this is BEARISH
}

// Generate builds a candidate signal from one post, its sentiment score and
// keyword matches, and the shared pattern context. It returns false when the
// post does not qualify: no keyword match from either set and sentiment too
// weak in both directions. Confidence and urgency are left for Enhance.
func Generate(post types.Post, score types.SentimentScore, match types.KeywordMatch, pc *types.PatternContext, th Thresholds) (types.Signal, bool) {
	bullish := score.Polarity >= th.Positive
	bearish := score.Polarity <= th.Negative

	if match.Empty() && !bullish && !bearish {
		return types.Signal{}, false
	}

	sig := types.Signal{
		PostID:          post.ID,
		Timestamp:       post.CreatedAt,
		Polarity:        score.Polarity,
		Subjectivity:    score.Subjectivity,
		Keywords:        match,
		EngagementScore: post.EngagementScore(),
		Text:            post.Text,
		InBurst:         pc.InBurst(post.CreatedAt),
		HighEngagement:  pc.HighEngagementHours[post.CreatedAt.UTC().Hour()],
	}

	switch {
	case bullish:
		sig.Type = types.Bullish
	case bearish:
		sig.Type = types.Bearish
	default:
		sig.Type = types.Neutral
	}
	sig.Action = actionFor(sig.Type, match)

	return sig, true
}

// actionFor derives the recommendation text from signal type and matched
// keywords. Crypto matches take precedence over stock matches.
func actionFor(t types.SignalType, match types.KeywordMatch) string {
	keywords := match.Crypto
	if len(keywords) == 0 {
		keywords = match.Stock
	}

	switch t {
	case types.Bullish:
		if len(keywords) > 0 {
			return "CONSIDER BUYING " + joinUpper(keywords)
		}
		return "MONITOR FOR BUYING OPPORTUNITY"
	case types.Bearish:
		if len(keywords) > 0 {
			return "CONSIDER SELLING " + joinUpper(keywords)
		}
		return "MONITOR FOR SELLING OPPORTUNITY"
	default:
		if len(keywords) > 0 {
			return "MONITOR " + joinUpper(keywords)
		}
		return "MONITOR - NO CLEAR SIGNAL"
	}
}

func joinUpper(keywords []string) string {
	return strings.ToUpper(strings.Join(keywords, ", "))
}
