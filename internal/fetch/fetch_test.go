package fetch

import (
	"context"
	"testing"
	"time"

	"sniperx/internal/store"
)

func TestDemoFetcherOrderedAscending(t *testing.T) {
	posts, err := NewDemoFetcher().Fetch(context.Background(), "elonmusk", 200)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(posts) == 0 {
		t.Fatal("Expected demo posts")
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.Before(posts[i-1].CreatedAt) {
			t.Errorf("Posts out of order at index %d", i)
		}
	}
}

func TestDemoFetcherRespectsLimit(t *testing.T) {
	posts, err := NewDemoFetcher().Fetch(context.Background(), "elonmusk", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(posts) != 5 {
		t.Errorf("Expected 5 posts, got %d", len(posts))
	}
}

func TestDemoFetcherDeterministic(t *testing.T) {
	f := NewDemoFetcher()
	first, _ := f.Fetch(context.Background(), "elonmusk", 200)
	second, _ := f.Fetch(context.Background(), "elonmusk", 200)

	if len(first) != len(second) {
		t.Fatalf("Run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Text != second[i].Text {
			t.Errorf("Post %d differs between runs", i)
		}
	}
}

func TestDemoFetcherFlagsNonOriginals(t *testing.T) {
	posts, _ := NewDemoFetcher().Fetch(context.Background(), "elonmusk", 200)

	var retweets, replies int
	for _, p := range posts {
		if p.IsRetweet {
			retweets++
		}
		if p.IsReply {
			replies++
		}
	}
	if retweets == 0 || replies == 0 {
		t.Errorf("Expected corpus to contain flagged retweets and replies, got %d/%d", retweets, replies)
	}
}

func TestNewSelectsFetcherBySource(t *testing.T) {
	cfg := store.Default()

	cfg.DataSource = "DEMO"
	if got := New(cfg).Source(); got != "DEMO" {
		t.Errorf("Expected DEMO fetcher, got %s", got)
	}

	cfg.DataSource = "SCRAPE"
	if got := New(cfg).Source(); got != "SCRAPE" {
		t.Errorf("Expected SCRAPE fetcher, got %s", got)
	}

	cfg.DataSource = "API"
	t.Setenv("TWITTER_BEARER_TOKEN", "")
	if got := New(cfg).Source(); got != "DEMO" {
		t.Errorf("Expected demo fallback without credentials, got %s", got)
	}

	t.Setenv("TWITTER_BEARER_TOKEN", "test-token")
	if got := New(cfg).Source(); got != "API" {
		t.Errorf("Expected API fetcher with credentials, got %s", got)
	}
}

func TestParseStatCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1,234", 1234},
		{" 42 ", 42},
		{"12.5K", 12500},
		{"1.2M", 1200000},
		{"", 0},
		{"n/a", 0},
	}
	for _, tc := range cases {
		if got := parseStatCount(tc.in); got != tc.want {
			t.Errorf("parseStatCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPostIDFromLink(t *testing.T) {
	if got := postIDFromLink("/elonmusk/status/1763581234567890#m"); got != "1763581234567890" {
		t.Errorf("Unexpected ID: %s", got)
	}
	if got := postIDFromLink("/elonmusk/status/99"); got != "99" {
		t.Errorf("Unexpected ID: %s", got)
	}
}

func TestParseMirrorDate(t *testing.T) {
	got, ok := parseMirrorDate("Mar 1, 2024 · 7:37 PM UTC")
	if !ok {
		t.Fatal("Expected date to parse")
	}
	want := time.Date(2024, 3, 1, 19, 37, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parsed %v, want %v", got, want)
	}

	if _, ok := parseMirrorDate(""); ok {
		t.Error("Expected empty title to fail")
	}
}
