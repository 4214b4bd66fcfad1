package pattern

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"sniperx/internal/types"
)

// ErrInvalidInput marks a post sequence that violates the detector's input
// contract (unordered timestamps or mismatched polarity series). Callers
// check it with errors.Is.
var ErrInvalidInput = errors.New("invalid post sequence")

// Config tunes pattern detection. Zero values are not usable; build it from
// store.Config via pipeline, or fill explicitly in tests.
type Config struct {
	BurstSensitivity     float64       // k in mean + k*stddev
	BurstWindow          time.Duration // timeline partition size
	TrendWindow          int           // posts per rolling sentiment sample
	ShiftThreshold       float64       // min rolling change flagged as a shift
	EngagementPercentile float64       // hour buckets above this are high-engagement
	TopThemes            int           // themes reported
}

// Detect computes the PatternContext for an ordered sequence of original
// posts. polarities must align 1:1 with posts (the per-post sentiment scores
// computed upstream). The returned context is written once here and read-only
// afterward.
func Detect(posts []types.Post, polarities []float64, cfg Config) (*types.PatternContext, error) {
	if len(polarities) != len(posts) {
		return nil, fmt.Errorf("%w: %d posts but %d polarity scores", ErrInvalidInput, len(posts), len(polarities))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.Before(posts[i-1].CreatedAt) {
			return nil, fmt.Errorf("%w: post %s at index %d is earlier than its predecessor", ErrInvalidInput, posts[i].ID, i)
		}
	}

	pc := &types.PatternContext{
		PostsAnalyzed:       len(posts),
		HighEngagementHours: map[int]bool{},
	}
	if len(posts) == 0 {
		return pc, nil
	}

	counts := windowCounts(posts, cfg.BurstWindow)

	pc.Frequency = frequencyStats(posts, counts)
	pc.BurstWindows = detectBursts(posts[0].CreatedAt, counts, cfg.BurstSensitivity, cfg.BurstWindow)
	pc.SentimentTrend = rollingTrend(posts, polarities, cfg.TrendWindow)
	pc.SentimentShifts = detectShifts(posts, polarities, cfg.TrendWindow, cfg.ShiftThreshold)
	pc.HighEngagementHours = highEngagementHours(posts, cfg.EngagementPercentile)
	pc.ContentThemes = contentThemes(posts, cfg.TopThemes)

	pc.MeanPolarity = mean(polarities)
	pc.PolarityVolatility = stddev(polarities, pc.MeanPolarity)

	var totalLen float64
	for _, p := range posts {
		totalLen += float64(len(p.Text))
	}
	pc.MeanPostLength = totalLen / float64(len(posts))

	return pc, nil
}

// windowCounts partitions the timeline into fixed windows starting at the
// first post and counts posts per window.
func windowCounts(posts []types.Post, window time.Duration) []int {
	start := posts[0].CreatedAt
	end := posts[len(posts)-1].CreatedAt
	n := int(end.Sub(start)/window) + 1

	counts := make([]int, n)
	for _, p := range posts {
		counts[int(p.CreatedAt.Sub(start)/window)]++
	}
	return counts
}

func frequencyStats(posts []types.Post, counts []int) types.FrequencyStats {
	stats := types.FrequencyStats{
		PostsPerWindow: float64(len(posts)) / float64(len(counts)),
	}
	if len(posts) < 2 {
		return stats
	}

	gaps := make([]float64, 0, len(posts)-1)
	for i := 1; i < len(posts); i++ {
		gaps = append(gaps, posts[i].CreatedAt.Sub(posts[i-1].CreatedAt).Hours())
	}

	stats.MeanGapHours = mean(gaps)
	stats.StdGapHours = stddev(gaps, stats.MeanGapHours)

	sorted := append([]float64(nil), gaps...)
	sort.Float64s(sorted)
	stats.MinGapHours = sorted[0]
	stats.MaxGapHours = sorted[len(sorted)-1]
	if n := len(sorted); n%2 == 1 {
		stats.MedianGapHours = sorted[n/2]
	} else {
		stats.MedianGapHours = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return stats
}

// detectBursts flags windows whose count exceeds mean + k*stddev over the
// observed distribution and merges adjacent flagged windows into one
// interval. Fewer than two windows yields no bursts.
func detectBursts(start time.Time, counts []int, k float64, window time.Duration) []types.BurstWindow {
	if len(counts) < 2 {
		return nil
	}

	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	m := mean(values)
	threshold := m + k*stddev(values, m)

	var bursts []types.BurstWindow
	for i, c := range counts {
		if float64(c) <= threshold {
			continue
		}
		winStart := start.Add(time.Duration(i) * window)
		winEnd := winStart.Add(window)
		if n := len(bursts); n > 0 && bursts[n-1].End.Equal(winStart) {
			bursts[n-1].End = winEnd
			bursts[n-1].PostCount += c
		} else {
			bursts = append(bursts, types.BurstWindow{Start: winStart, End: winEnd, PostCount: c})
		}
	}
	return bursts
}

// rollingTrend is the rolling mean of polarity over the last `window` posts,
// sampled at each post.
func rollingTrend(posts []types.Post, polarities []float64, window int) []types.TrendPoint {
	if window < 1 {
		window = 1
	}
	trend := make([]types.TrendPoint, len(posts))
	var sum float64
	for i := range posts {
		sum += polarities[i]
		if i >= window {
			sum -= polarities[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		trend[i] = types.TrendPoint{Timestamp: posts[i].CreatedAt, Rolling: sum / float64(n)}
	}
	return trend
}

// detectShifts compares the mean over the most recent half-window against the
// full lookback window and flags divergences at or above the threshold.
func detectShifts(posts []types.Post, polarities []float64, window int, threshold float64) []types.SentimentShift {
	if window < 2 || len(posts) <= window {
		return nil
	}

	var shifts []types.SentimentShift
	for i := window; i < len(posts); i++ {
		prev := mean(polarities[i-window : i])
		curr := mean(polarities[i-window/2 : i])
		change := curr - prev
		if math.Abs(change) < threshold {
			continue
		}
		direction := "POSITIVE"
		if change < 0 {
			direction = "NEGATIVE"
		}
		shifts = append(shifts, types.SentimentShift{
			Timestamp: posts[i].CreatedAt,
			Previous:  prev,
			Current:   curr,
			Change:    change,
			Direction: direction,
		})
	}
	return shifts
}

// highEngagementHours buckets posts by hour-of-day (UTC), averages engagement
// per bucket and flags buckets at or above the configured percentile of
// observed bucket means.
func highEngagementHours(posts []types.Post, percentile float64) map[int]bool {
	sums := map[int]float64{}
	nums := map[int]int{}
	for _, p := range posts {
		h := p.CreatedAt.UTC().Hour()
		sums[h] += p.EngagementScore()
		nums[h]++
	}

	means := make([]float64, 0, len(sums))
	for h, s := range sums {
		means = append(means, s/float64(nums[h]))
	}

	flagged := map[int]bool{}
	if len(means) < 2 {
		return flagged
	}
	sort.Float64s(means)

	// Nearest-rank percentile keeps the threshold stable across runs.
	idx := int(math.Ceil(percentile*float64(len(means)))) - 1
	if idx < 0 {
		idx = 0
	}
	threshold := means[idx]

	for h, s := range sums {
		if s/float64(nums[h]) >= threshold {
			flagged[h] = true
		}
	}
	return flagged
}

// contentThemes tokenizes post text, drops stopwords, URLs and short tokens,
// and reports the most frequent remaining tokens. Informational only.
func contentThemes(posts []types.Post, topN int) []types.Theme {
	if topN <= 0 {
		return nil
	}

	counts := map[string]int{}
	for _, p := range posts {
		for _, w := range strings.Fields(strings.ToLower(p.Text)) {
			w = strings.Trim(w, ".,!?;:\"'()[]#@$")
			if len(w) <= 3 || strings.HasPrefix(w, "http") || stopwords[w] {
				continue
			}
			counts[w]++
		}
	}

	themes := make([]types.Theme, 0, len(counts))
	for token, count := range counts {
		themes = append(themes, types.Theme{Token: token, Count: count})
	}
	// Count descending, token ascending on ties, so output is deterministic.
	sort.Slice(themes, func(i, j int) bool {
		if themes[i].Count != themes[j].Count {
			return themes[i].Count > themes[j].Count
		}
		return themes[i].Token < themes[j].Token
	})
	if len(themes) > topN {
		themes = themes[:topN]
	}
	return themes
}

var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true,
	"before": true, "being": true, "could": true, "does": true, "doing": true,
	"down": true, "each": true, "from": true, "have": true, "having": true,
	"here": true, "into": true, "just": true, "more": true, "most": true,
	"only": true, "other": true, "over": true, "same": true, "some": true,
	"such": true, "than": true, "that": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "under": true, "until": true, "very": true,
	"we're": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "will": true, "with": true, "would": true,
	"your": true,
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
