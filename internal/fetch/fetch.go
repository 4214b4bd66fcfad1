package fetch

import (
	"context"
	"errors"
	"os"
	"sort"

	"sniperx/internal/store"
	"sniperx/internal/types"
)

// ErrNoCredentials is returned when the configured data source requires an
// API token and none is present in the environment.
var ErrNoCredentials = errors.New("missing API credentials")

// Fetcher retrieves recent posts for a handle, ordered by created_at
// ascending. Implementations must not return retweets or replies mixed in
// without flagging them.
type Fetcher interface {
	Fetch(ctx context.Context, handle string, limit int) ([]types.Post, error)
	Source() string
}

// New selects a fetcher for the configured data source. An API source with no
// bearer token in the environment falls back to the demo fetcher so the tool
// stays usable out of the box.
func New(cfg *store.Config) Fetcher {
	switch cfg.DataSource {
	case "API":
		token := os.Getenv("TWITTER_BEARER_TOKEN")
		if token == "" {
			return NewDemoFetcher()
		}
		return NewTwitterFetcher(token)
	case "SCRAPE":
		return NewScrapeFetcher()
	default:
		return NewDemoFetcher()
	}
}

// sortByCreatedAt orders posts oldest first, the order the analysis pipeline
// expects. The sort is stable so equal timestamps keep their fetch order.
func sortByCreatedAt(posts []types.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
}
