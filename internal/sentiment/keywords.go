package sentiment

import (
	"strings"

	"sniperx/internal/types"
)

// Matcher detects configured crypto and stock keywords in post text.
// Matching is case-insensitive substring matching, so "ethereum" matches
// "$ETHEREUM" and "Ethereum-based" alike.
type Matcher struct {
	crypto []string
	stock  []string
}

// NewMatcher creates a matcher over the two configured keyword sets.
func NewMatcher(cryptoKeywords, stockKeywords []string) *Matcher {
	return &Matcher{
		crypto: lowered(cryptoKeywords),
		stock:  lowered(stockKeywords),
	}
}

// Match returns the keywords found in text. A post may match both sets, one,
// or neither. Empty text matches nothing.
func (m *Matcher) Match(text string) types.KeywordMatch {
	if text == "" {
		return types.KeywordMatch{}
	}
	lower := strings.ToLower(text)
	return types.KeywordMatch{
		Crypto: findAll(lower, m.crypto),
		Stock:  findAll(lower, m.stock),
	}
}

// findAll preserves configured keyword order so results are deterministic.
func findAll(lowerText string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lowerText, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func lowered(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
