package pattern

import (
	"errors"
	"testing"
	"time"

	"sniperx/internal/types"
)

var testCfg = Config{
	BurstSensitivity:     2.0,
	BurstWindow:          time.Hour,
	TrendWindow:          10,
	ShiftThreshold:       0.5,
	EngagementPercentile: 0.75,
	TopThemes:            10,
}

func postAt(id string, t time.Time, text string, likes int) types.Post {
	return types.Post{ID: id, Author: "tester", CreatedAt: t, Text: text, LikeCount: likes}
}

func TestDetectRejectsUnorderedPosts(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []types.Post{
		postAt("1", base.Add(time.Hour), "later", 0),
		postAt("2", base, "earlier", 0),
	}

	_, err := Detect(posts, []float64{0, 0}, testCfg)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestDetectRejectsMismatchedPolarities(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	posts := []types.Post{postAt("1", base, "hello", 0)}

	_, err := Detect(posts, nil, testCfg)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	pc, err := Detect(nil, nil, testCfg)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if pc.PostsAnalyzed != 0 || len(pc.BurstWindows) != 0 {
		t.Errorf("Expected empty context, got %+v", pc)
	}
}

func TestNoBurstsWithSingleWindow(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var posts []types.Post
	var pols []float64
	for i := 0; i < 20; i++ {
		posts = append(posts, postAt("p", base.Add(time.Duration(i)*time.Minute), "text", 0))
		pols = append(pols, 0)
	}

	pc, err := Detect(posts, pols, testCfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(pc.BurstWindows) != 0 {
		t.Errorf("Expected no bursts with fewer than 2 windows, got %d", len(pc.BurstWindows))
	}
}

func TestBurstDetection(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var posts []types.Post

	// One post per hour for 24 hours, then 15 posts inside hour 10.
	for h := 0; h < 24; h++ {
		posts = append(posts, postAt("h", base.Add(time.Duration(h)*time.Hour), "text", 0))
	}
	burstHour := base.Add(10 * time.Hour)
	for i := 0; i < 15; i++ {
		posts = append(posts, postAt("b", burstHour.Add(time.Duration(i)*time.Minute), "burst", 0))
	}
	sortPostsByTime(posts)

	pols := make([]float64, len(posts))
	pc, err := Detect(posts, pols, testCfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pc.BurstWindows) != 1 {
		t.Fatalf("Expected exactly one burst window, got %d", len(pc.BurstWindows))
	}
	b := pc.BurstWindows[0]
	if !b.Start.Equal(burstHour) {
		t.Errorf("Expected burst to start at %v, got %v", burstHour, b.Start)
	}
	if b.PostCount != 16 {
		t.Errorf("Expected 16 posts in burst window, got %d", b.PostCount)
	}
	if !pc.InBurst(burstHour.Add(30 * time.Minute)) {
		t.Error("Expected timestamp inside burst to be flagged")
	}
	if pc.InBurst(base.Add(2 * time.Hour).Add(time.Minute)) {
		t.Error("Expected quiet hour not to be flagged as burst")
	}
}

func TestBurstWindowsOrderedAndNonOverlapping(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var posts []types.Post

	for h := 0; h < 48; h++ {
		posts = append(posts, postAt("h", base.Add(time.Duration(h)*time.Hour), "text", 0))
	}
	// Two separate spikes, the second spanning two adjacent hours.
	for i := 0; i < 12; i++ {
		posts = append(posts, postAt("s1", base.Add(5*time.Hour+time.Duration(i)*time.Minute), "spike", 0))
	}
	for i := 0; i < 12; i++ {
		posts = append(posts, postAt("s2", base.Add(20*time.Hour+time.Duration(i*9)*time.Minute), "spike", 0))
	}
	sortPostsByTime(posts)

	pols := make([]float64, len(posts))
	pc, err := Detect(posts, pols, testCfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pc.BurstWindows) < 2 {
		t.Fatalf("Expected at least two burst windows, got %d", len(pc.BurstWindows))
	}
	for i := 1; i < len(pc.BurstWindows); i++ {
		prev, curr := pc.BurstWindows[i-1], pc.BurstWindows[i]
		if !prev.Start.Before(curr.Start) {
			t.Errorf("Burst windows not ordered: %v before %v", prev.Start, curr.Start)
		}
		if curr.Start.Before(prev.End) {
			t.Errorf("Burst windows overlap: %v..%v and %v..%v", prev.Start, prev.End, curr.Start, curr.End)
		}
	}
}

func TestBurstMonotonicity(t *testing.T) {
	// A flat distribution never flags a burst at any non-negative k.
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var posts []types.Post
	for h := 0; h < 24; h++ {
		for i := 0; i < 3; i++ {
			posts = append(posts, postAt("p", base.Add(time.Duration(h)*time.Hour+time.Duration(i)*time.Minute), "x", 0))
		}
	}
	pols := make([]float64, len(posts))

	for _, k := range []float64{0, 0.5, 1, 2, 5} {
		cfg := testCfg
		cfg.BurstSensitivity = k
		pc, err := Detect(posts, pols, cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(pc.BurstWindows) != 0 {
			t.Errorf("k=%v: flat distribution should have no bursts, got %d", k, len(pc.BurstWindows))
		}
	}
}

func TestRollingSentimentTrend(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := []types.Post{
		postAt("1", base, "a", 0),
		postAt("2", base.Add(time.Hour), "b", 0),
		postAt("3", base.Add(2*time.Hour), "c", 0),
	}
	pols := []float64{1, 0, -1}

	cfg := testCfg
	cfg.TrendWindow = 2
	pc, err := Detect(posts, pols, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []float64{1, 0.5, -0.5}
	if len(pc.SentimentTrend) != len(want) {
		t.Fatalf("Expected %d trend points, got %d", len(want), len(pc.SentimentTrend))
	}
	for i, w := range want {
		if got := pc.SentimentTrend[i].Rolling; got != w {
			t.Errorf("Trend point %d: expected %f, got %f", i, w, got)
		}
	}
}

func TestSentimentShiftDetection(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var posts []types.Post
	var pols []float64
	// Six negative posts followed by six strongly positive ones.
	for i := 0; i < 12; i++ {
		posts = append(posts, postAt("p", base.Add(time.Duration(i)*time.Hour), "t", 0))
		if i < 6 {
			pols = append(pols, -0.8)
		} else {
			pols = append(pols, 0.8)
		}
	}

	cfg := testCfg
	cfg.TrendWindow = 4
	pc, err := Detect(posts, pols, cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pc.SentimentShifts) == 0 {
		t.Fatal("Expected at least one sentiment shift")
	}
	if pc.SentimentShifts[0].Direction != "POSITIVE" {
		t.Errorf("Expected POSITIVE shift, got %s", pc.SentimentShifts[0].Direction)
	}
}

func TestHighEngagementHours(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var posts []types.Post
	var pols []float64
	// Hours 0-3 over several days; hour 2 dominates engagement.
	for day := 0; day < 3; day++ {
		for h := 0; h < 4; h++ {
			likes := 10 * (h + 1)
			if h == 2 {
				likes = 5000
			}
			posts = append(posts, postAt("p", base.AddDate(0, 0, day).Add(time.Duration(h)*time.Hour), "t", likes))
			pols = append(pols, 0)
		}
	}

	pc, err := Detect(posts, pols, testCfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !pc.HighEngagementHours[2] {
		t.Error("Expected hour 2 to be flagged as high engagement")
	}
	if pc.HighEngagementHours[0] {
		t.Error("Expected hour 0 not to be flagged")
	}
}

func TestContentThemes(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := []types.Post{
		postAt("1", base, "dogecoin dogecoin dogecoin rocket", 0),
		postAt("2", base.Add(time.Hour), "rocket launch with dogecoin", 0),
		postAt("3", base.Add(2*time.Hour), "the and a of short http://x.co/abc", 0),
	}
	pols := []float64{0, 0, 0}

	pc, err := Detect(posts, pols, testCfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(pc.ContentThemes) == 0 {
		t.Fatal("Expected content themes")
	}
	if pc.ContentThemes[0].Token != "dogecoin" || pc.ContentThemes[0].Count != 4 {
		t.Errorf("Expected top theme dogecoin x4, got %+v", pc.ContentThemes[0])
	}
	for _, th := range pc.ContentThemes {
		if th.Token == "the" || th.Token == "http://x.co/abc" {
			t.Errorf("Stopword or URL leaked into themes: %q", th.Token)
		}
	}
}

func sortPostsByTime(posts []types.Post) {
	for i := 1; i < len(posts); i++ {
		for j := i; j > 0 && posts[j].CreatedAt.Before(posts[j-1].CreatedAt); j-- {
			posts[j], posts[j-1] = posts[j-1], posts[j]
		}
	}
}
