package sentiment

import (
	"math"
	"strings"
	"unicode"

	"sniperx/internal/types"
)

// Scorer produces a polarity/subjectivity score for a single post's text.
// Scoring is a pure function of the text: no cross-post state, identical
// input always yields an identical score, so callers may run it in parallel.
type Scorer struct {
	positiveWords map[string]bool
	negativeWords map[string]bool
	intensifiers  map[string]bool
	negations     map[string]bool
	opinionWords  map[string]bool
}

// NewScorer creates a scorer with the built-in lexicon.
func NewScorer() *Scorer {
	return &Scorer{
		positiveWords: loadPositiveWords(),
		negativeWords: loadNegativeWords(),
		intensifiers:  loadIntensifiers(),
		negations:     loadNegations(),
		opinionWords:  loadOpinionWords(),
	}
}

// Score analyzes text and returns its sentiment. Empty or malformed text
// yields a neutral score, never an error.
func (s *Scorer) Score(text string) types.SentimentScore {
	words := tokenize(strings.ToLower(text))
	if len(words) == 0 {
		return types.SentimentScore{}
	}

	var (
		polaritySum  float64
		bearingCount int
		opinionCount int
	)

	for i, word := range words {
		var value float64
		switch {
		case s.positiveWords[word]:
			value = 1
		case s.negativeWords[word]:
			value = -1
		default:
			if s.opinionWords[word] {
				opinionCount++
			}
			continue
		}

		// A negation directly before the word flips it; an intensifier
		// amplifies it. "not very good" resolves through the intensifier
		// to the negation two back.
		if i > 0 && s.intensifiers[words[i-1]] {
			value *= 1.5
			if i > 1 && s.negations[words[i-2]] {
				value = -value
			}
		} else if i > 0 && s.negations[words[i-1]] {
			value = -value
		}

		polaritySum += value
		bearingCount++
	}

	score := types.SentimentScore{}
	if bearingCount > 0 {
		score.Polarity = clamp(polaritySum/float64(bearingCount), -1, 1)
	}

	// Subjectivity grows with the share of polar and opinion tokens. The x4
	// scaling maps typical opinionated posts (~25% marked tokens) to 1.0.
	marked := float64(bearingCount + opinionCount)
	score.Subjectivity = clamp(marked/float64(len(words))*4, 0, 1)

	return score
}

// tokenize splits text into lowercase word tokens, dropping URLs.
func tokenize(text string) []string {
	var words []string
	for _, field := range strings.Fields(text) {
		if strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
			continue
		}
		var current strings.Builder
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				current.WriteRune(r)
			} else if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			words = append(words, current.String())
		}
	}
	return words
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
