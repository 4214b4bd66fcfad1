package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"sniperx/internal/pipeline"
)

const rule = "================================================================================"
const thinRule = "--------------------------------------------------------------------------------"

// Render formats an analysis result as a plain-text report: a pattern summary
// followed by one block per ranked signal and a disclaimer.
func Render(res *pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "SNIPERX PROFIT SIGNALS REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Generated: %s\n", res.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Target: @%s\n", res.Handle)
	fmt.Fprintf(&b, "Posts Analyzed: %d\n", res.Posts)
	fmt.Fprintf(&b, "Total Signals: %d\n", len(res.Signals))

	if pc := res.Patterns; pc != nil && pc.PostsAnalyzed > 0 {
		fmt.Fprintln(&b, "\nDETECTED PATTERNS:")
		fmt.Fprintln(&b, thinRule)
		fmt.Fprintf(&b, "Posts per window: %.2f\n", pc.Frequency.PostsPerWindow)
		fmt.Fprintf(&b, "Median gap between posts: %.2f hours\n", pc.Frequency.MedianGapHours)
		fmt.Fprintf(&b, "Burst periods detected: %d\n", len(pc.BurstWindows))
		fmt.Fprintf(&b, "Sentiment shifts detected: %d\n", len(pc.SentimentShifts))
		fmt.Fprintf(&b, "Average sentiment: %.2f\n", pc.MeanPolarity)
		fmt.Fprintf(&b, "Sentiment volatility: %.2f\n", pc.PolarityVolatility)
		if hours := formatHours(pc.HighEngagementHours); hours != "" {
			fmt.Fprintf(&b, "High-engagement hours (UTC): %s\n", hours)
		}
		if len(pc.ContentThemes) > 0 {
			themes := make([]string, 0, len(pc.ContentThemes))
			for _, th := range pc.ContentThemes {
				themes = append(themes, th.Token)
			}
			fmt.Fprintf(&b, "Recurring themes: %s\n", strings.Join(themes, ", "))
		}
	}

	if len(res.Signals) == 0 {
		fmt.Fprintln(&b, "\nNo signals detected with sufficient confidence.")
		fmt.Fprintln(&b, rule)
		return b.String()
	}

	for idx, sig := range res.Signals {
		fmt.Fprintf(&b, "\n[SIGNAL #%d] - %s URGENCY\n", idx+1, sig.Urgency)
		fmt.Fprintln(&b, thinRule)
		fmt.Fprintf(&b, "Timestamp: %s\n", sig.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "Type: %s\n", sig.Type)
		fmt.Fprintf(&b, "Confidence: %.2f%%\n", sig.Confidence*100)
		if sig.Action != "" {
			fmt.Fprintf(&b, "Action: %s\n", sig.Action)
		}
		if len(sig.Keywords.Crypto) > 0 {
			fmt.Fprintf(&b, "Crypto Keywords: %s\n", strings.Join(sig.Keywords.Crypto, ", "))
		}
		if len(sig.Keywords.Stock) > 0 {
			fmt.Fprintf(&b, "Stock Keywords: %s\n", strings.Join(sig.Keywords.Stock, ", "))
		}
		fmt.Fprintf(&b, "\nPost Content:\n%q\n", sig.Text)
		fmt.Fprintf(&b, "\nSentiment: %.3f\n", sig.Polarity)
		fmt.Fprintf(&b, "Engagement Score: %.0f\n", sig.EngagementScore)
		if sig.InBurst {
			fmt.Fprintln(&b, "Posted during high-activity burst period")
		}
		if sig.HighEngagement {
			fmt.Fprintln(&b, "Posted during high-engagement time window")
		}
	}

	fmt.Fprintln(&b, "\n"+rule)
	fmt.Fprintln(&b, "DISCLAIMER: These signals are for informational purposes only.")
	fmt.Fprintln(&b, "Always conduct your own research before making investment decisions.")
	fmt.Fprintln(&b, rule)
	return b.String()
}

// WriteJSON writes the full analysis result to path as indented JSON.
func WriteJSON(path string, res *pipeline.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}

// formatHours renders the flagged engagement hours in ascending order.
func formatHours(hours map[int]bool) string {
	flagged := make([]int, 0, len(hours))
	for h, ok := range hours {
		if ok {
			flagged = append(flagged, h)
		}
	}
	if len(flagged) == 0 {
		return ""
	}
	sort.Ints(flagged)

	parts := make([]string, len(flagged))
	for i, h := range flagged {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}
