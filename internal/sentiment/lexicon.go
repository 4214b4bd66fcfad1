package sentiment

// Word lists for polarity and subjectivity scoring. General-purpose social
// vocabulary extended with market slang, since the posts under analysis mix
// both registers.

func loadPositiveWords() map[string]bool {
	words := []string{
		"amazing", "awesome", "beautiful", "best", "better", "breakthrough",
		"brilliant", "bullish", "cool", "epic", "excellent", "exceptional",
		"exciting", "fantastic", "future", "gain", "gains", "good", "great",
		"growth", "happy", "huge", "improve", "improved", "incredible",
		"innovative", "launch", "love", "massive", "moon", "optimistic",
		"outstanding", "perfect", "positive", "profit", "progress", "promising",
		"pump", "rally", "record", "revolutionary", "rocket", "soar", "solid",
		"strong", "success", "successful", "surge", "unstoppable", "up", "win",
		"winning", "wow",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"awful", "bad", "bearish", "broken", "collapse", "concern", "crash",
		"crisis", "damage", "decline", "disappointing", "disaster", "down",
		"dump", "fail", "failure", "fear", "fraud", "hate", "horrible",
		"loss", "losses", "lost", "negative", "panic", "pathetic", "plunge",
		"poor", "problem", "risk", "risky", "sad", "scam", "sell", "selloff",
		"short", "slow", "stupid", "terrible", "trouble", "ugly", "uncertain",
		"warning", "weak", "worse", "worst", "worthless", "wrong",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Intensifiers amplify the word that follows them.
func loadIntensifiers() map[string]bool {
	words := []string{
		"absolutely", "completely", "definitely", "extremely", "highly",
		"incredibly", "insanely", "really", "seriously", "so", "super",
		"totally", "truly", "very", "wildly",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Negations flip the polarity of the word that follows them.
func loadNegations() map[string]bool {
	words := []string{
		"cannot", "cant", "dont", "isnt", "never", "no", "none", "not",
		"nothing", "wasnt", "wont",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Opinion markers contribute to subjectivity without carrying polarity.
func loadOpinionWords() map[string]bool {
	words := []string{
		"believe", "bet", "doubt", "expect", "feel", "guess", "hope",
		"imagine", "maybe", "might", "opinion", "personally", "predict",
		"probably", "seems", "should", "think", "thought", "wish", "would",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}
