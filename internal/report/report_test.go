package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sniperx/internal/pipeline"
	"sniperx/internal/types"
)

func sampleResult() *pipeline.Result {
	ts := time.Date(2024, 3, 1, 2, 15, 0, 0, time.UTC)
	return &pipeline.Result{
		Handle:      "elonmusk",
		GeneratedAt: ts,
		Posts:       42,
		Candidates:  3,
		Patterns: &types.PatternContext{
			Frequency:           types.FrequencyStats{PostsPerWindow: 1.75, MedianGapHours: 2.5},
			BurstWindows:        []types.BurstWindow{{Start: ts, End: ts.Add(time.Hour), PostCount: 9}},
			HighEngagementHours: map[int]bool{2: true, 14: true},
			ContentThemes:       []types.Theme{{Token: "dogecoin", Count: 6}},
			MeanPolarity:        0.15,
			PolarityVolatility:  0.45,
			PostsAnalyzed:       42,
		},
		Signals: []types.Signal{
			{
				PostID:          "1",
				Timestamp:       ts,
				Type:            types.Bullish,
				Polarity:        0.65,
				Confidence:      0.91,
				Urgency:         types.UrgencyCritical,
				Action:          "CONSIDER BUYING DOGECOIN",
				Keywords:        types.KeywordMatch{Crypto: []string{"dogecoin"}},
				EngagementScore: 125430,
				InBurst:         true,
				HighEngagement:  true,
				Text:            "Dogecoin is the future of currency!",
			},
		},
	}
}

func TestRenderContainsSignalBlock(t *testing.T) {
	out := Render(sampleResult())

	for _, want := range []string{
		"SNIPERX PROFIT SIGNALS REPORT",
		"Target: @elonmusk",
		"[SIGNAL #1] - CRITICAL URGENCY",
		"Type: BULLISH",
		"Confidence: 91.00%",
		"Action: CONSIDER BUYING DOGECOIN",
		"Crypto Keywords: dogecoin",
		"Engagement Score: 125430",
		"Posted during high-activity burst period",
		"Posted during high-engagement time window",
		"DISCLAIMER",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q", want)
		}
	}
}

func TestRenderPatternSummary(t *testing.T) {
	out := Render(sampleResult())

	for _, want := range []string{
		"DETECTED PATTERNS:",
		"Burst periods detected: 1",
		"Average sentiment: 0.15",
		"High-engagement hours (UTC): 02:00, 14:00",
		"Recurring themes: dogecoin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Report missing %q", want)
		}
	}
}

func TestRenderNoSignals(t *testing.T) {
	res := sampleResult()
	res.Signals = nil

	out := Render(res)
	if !strings.Contains(out, "No signals detected with sufficient confidence.") {
		t.Error("Expected empty-signal notice")
	}
	if strings.Contains(out, "[SIGNAL #") {
		t.Error("Unexpected signal block in empty report")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := WriteJSON(path, sampleResult()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	var decoded pipeline.Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if decoded.Handle != "elonmusk" || len(decoded.Signals) != 1 {
		t.Errorf("Round-trip mismatch: %+v", decoded)
	}
	if decoded.Signals[0].Action != "CONSIDER BUYING DOGECOIN" {
		t.Errorf("Unexpected action: %s", decoded.Signals[0].Action)
	}
}
