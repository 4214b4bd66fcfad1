package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sniperx/internal/api"
	"sniperx/internal/logger"
	"sniperx/internal/types"
)

const twitterAPIBase = "https://api.twitter.com"

// TwitterFetcher pulls a user's recent timeline through the X API v2 using an
// app-only bearer token.
type TwitterFetcher struct {
	client *api.Client
}

// NewTwitterFetcher creates a fetcher authenticated with the given bearer token.
func NewTwitterFetcher(token string) *TwitterFetcher {
	return &TwitterFetcher{
		client: api.NewClient(
			api.WithBaseURL(twitterAPIBase),
			api.WithBearerToken(token),
			api.WithTimeout(30*time.Second),
			api.WithLogging(true),
		),
	}
}

func (f *TwitterFetcher) Source() string { return "API" }

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type timelineResponse struct {
	Data []struct {
		ID            string    `json:"id"`
		Text          string    `json:"text"`
		CreatedAt     time.Time `json:"created_at"`
		PublicMetrics struct {
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
			LikeCount    int `json:"like_count"`
		} `json:"public_metrics"`
		ReferencedTweets []struct {
			Type string `json:"type"`
		} `json:"referenced_tweets"`
	} `json:"data"`
	Meta struct {
		NextToken   string `json:"next_token"`
		ResultCount int    `json:"result_count"`
	} `json:"meta"`
}

// Fetch resolves the handle to a user ID, then pages through the user's
// timeline until limit posts are collected or the timeline is exhausted.
func (f *TwitterFetcher) Fetch(ctx context.Context, handle string, limit int) ([]types.Post, error) {
	userID, err := f.lookupUser(ctx, handle)
	if err != nil {
		return nil, err
	}

	posts := make([]types.Post, 0, limit)
	nextToken := ""

	for len(posts) < limit {
		page, err := f.fetchPage(ctx, userID, limit-len(posts), nextToken)
		if err != nil {
			return nil, err
		}

		for _, t := range page.Data {
			post := types.Post{
				ID:           t.ID,
				Author:       handle,
				CreatedAt:    t.CreatedAt.UTC(),
				Text:         t.Text,
				LikeCount:    t.PublicMetrics.LikeCount,
				RetweetCount: t.PublicMetrics.RetweetCount,
				ReplyCount:   t.PublicMetrics.ReplyCount,
			}
			for _, ref := range t.ReferencedTweets {
				switch ref.Type {
				case "retweeted":
					post.IsRetweet = true
				case "replied_to":
					post.IsReply = true
				}
			}
			posts = append(posts, post)
		}

		if page.Meta.NextToken == "" || page.Meta.ResultCount == 0 {
			break
		}
		nextToken = page.Meta.NextToken
	}

	// The endpoint serves at least 5 results per page, so the last page can
	// overshoot the requested limit. Pages arrive newest first, so trimming
	// here keeps the most recent posts.
	if len(posts) > limit {
		posts = posts[:limit]
	}

	sortByCreatedAt(posts)
	logger.Fetch(ctx, handle, f.Source(), len(posts))
	return posts, nil
}

func (f *TwitterFetcher) lookupUser(ctx context.Context, handle string) (string, error) {
	resp, err := f.client.GETWithRetry(ctx, "/2/users/by/username/"+url.PathEscape(handle), nil)
	if err != nil {
		return "", fmt.Errorf("looking up user %q: %w", handle, err)
	}

	var user userResponse
	if err := resp.ParseJSON(&user); err != nil {
		return "", err
	}
	if user.Data.ID == "" {
		return "", fmt.Errorf("user %q not found", handle)
	}
	return user.Data.ID, nil
}

func (f *TwitterFetcher) fetchPage(ctx context.Context, userID string, remaining int, nextToken string) (*timelineResponse, error) {
	// The timeline endpoint accepts 5..100 results per page.
	pageSize := remaining
	if pageSize > 100 {
		pageSize = 100
	}
	if pageSize < 5 {
		pageSize = 5
	}

	q := url.Values{}
	q.Set("max_results", fmt.Sprintf("%d", pageSize))
	q.Set("exclude", "retweets,replies")
	q.Set("tweet.fields", "created_at,public_metrics,referenced_tweets")
	if nextToken != "" {
		q.Set("pagination_token", nextToken)
	}

	resp, err := f.client.GETWithRetry(ctx, fmt.Sprintf("/2/users/%s/tweets?%s", userID, q.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching timeline page: %w", err)
	}

	var page timelineResponse
	if err := resp.ParseJSON(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
