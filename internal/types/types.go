package types

import "time"

// Post is an immutable record of a single fetched post. Only original posts
// (not retweets or replies) enter analysis.
type Post struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
	Text         string    `json:"text"`
	IsRetweet    bool      `json:"is_retweet,omitempty"`
	IsReply      bool      `json:"is_reply,omitempty"`
	LikeCount    int       `json:"like_count"`
	RetweetCount int       `json:"retweet_count"`
	ReplyCount   int       `json:"reply_count"`
}

// EngagementScore weights replies and likes evenly and retweets double,
// matching how far a post actually travels.
func (p Post) EngagementScore() float64 {
	return float64(p.LikeCount) + 2*float64(p.RetweetCount) + float64(p.ReplyCount)
}

// SentimentScore is the per-post polarity/subjectivity pair. Polarity is in
// [-1,1], subjectivity in [0,1]. Identical text always scores identically.
type SentimentScore struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// KeywordMatch lists the configured keywords found in a post's text.
type KeywordMatch struct {
	Crypto []string `json:"crypto_keywords,omitempty"`
	Stock  []string `json:"stock_keywords,omitempty"`
}

// Empty reports whether no keyword from either set matched.
func (m KeywordMatch) Empty() bool {
	return len(m.Crypto) == 0 && len(m.Stock) == 0
}

// BurstWindow is a contiguous interval of anomalously high post volume.
// Windows are non-overlapping and ordered by Start.
type BurstWindow struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PostCount int       `json:"post_count"`
}

// Contains reports whether t falls inside the window (inclusive bounds).
func (b BurstWindow) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}

// TrendPoint is one sample of the rolling sentiment series.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Rolling   float64   `json:"rolling_sentiment"`
}

// SentimentShift marks a point where rolling sentiment moved sharply.
type SentimentShift struct {
	Timestamp time.Time `json:"timestamp"`
	Previous  float64   `json:"previous_sentiment"`
	Current   float64   `json:"current_sentiment"`
	Change    float64   `json:"change"`
	Direction string    `json:"direction"` // POSITIVE or NEGATIVE
}

// FrequencyStats summarizes posting cadence: mean posts per analysis window
// plus gap statistics between consecutive posts, in hours.
type FrequencyStats struct {
	PostsPerWindow float64 `json:"posts_per_window"`
	MeanGapHours   float64 `json:"mean_gap_hours"`
	MedianGapHours float64 `json:"median_gap_hours"`
	MinGapHours    float64 `json:"min_gap_hours"`
	MaxGapHours    float64 `json:"max_gap_hours"`
	StdGapHours    float64 `json:"std_gap_hours"`
}

// PatternContext holds the aggregate behavioral statistics computed once per
// analysis run. It is written once by the pattern detector and shared
// read-only by every signal generation call.
type PatternContext struct {
	Frequency           FrequencyStats   `json:"frequency"`
	BurstWindows        []BurstWindow    `json:"burst_windows"`
	SentimentTrend      []TrendPoint     `json:"sentiment_trend"`
	SentimentShifts     []SentimentShift `json:"sentiment_shifts"`
	HighEngagementHours map[int]bool     `json:"high_engagement_hours"`
	ContentThemes       []Theme          `json:"content_themes"`
	MeanPolarity        float64          `json:"mean_polarity"`
	PolarityVolatility  float64          `json:"polarity_volatility"`
	MeanPostLength      float64          `json:"mean_post_length"`
	PostsAnalyzed       int              `json:"posts_analyzed"`
}

// InBurst reports whether t falls within any detected burst window.
func (pc *PatternContext) InBurst(t time.Time) bool {
	for _, b := range pc.BurstWindows {
		if b.Contains(t) {
			return true
		}
	}
	return false
}

// Theme is a recurring content token and its frequency.
type Theme struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// SignalType classifies the direction of a signal.
type SignalType string

const (
	Bullish SignalType = "BULLISH"
	Bearish SignalType = "BEARISH"
	Neutral SignalType = "NEUTRAL"
)

// Urgency is the four-tier label derived from confidence.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyLow      Urgency = "LOW"
)

// Signal is one ranked, actionable recommendation derived from a qualifying
// post. Immutable once ranked.
type Signal struct {
	PostID          string       `json:"post_id"`
	Timestamp       time.Time    `json:"timestamp"`
	Type            SignalType   `json:"type"`
	Polarity        float64      `json:"polarity"`
	Subjectivity    float64      `json:"subjectivity"`
	Keywords        KeywordMatch `json:"keywords"`
	EngagementScore float64      `json:"engagement_score"`
	Confidence      float64      `json:"confidence"`
	Urgency         Urgency      `json:"urgency,omitempty"`
	Action          string       `json:"action,omitempty"`
	InBurst         bool         `json:"in_burst"`
	HighEngagement  bool         `json:"high_engagement_hour"`
	Text            string       `json:"text"`
}
