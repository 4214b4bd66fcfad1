package fetch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"sniperx/internal/logger"
	"sniperx/internal/types"
)

// Mirror defines a scrape target serving user timelines as plain HTML.
type Mirror struct {
	Name      string
	BaseURL   string
	Selectors TimelineSelectors
}

// TimelineSelectors defines CSS selectors for extracting post data
type TimelineSelectors struct {
	PostContainer string
	Content       string
	Date          string
	RetweetMark   string
	ReplyMark     string
	StatGroup     string
}

// ScrapeFetcher scrapes a user's timeline from HTML mirrors when no API
// credentials are available. Mirrors are tried in order until one yields posts.
type ScrapeFetcher struct {
	mirrors []Mirror
	timeout time.Duration
}

// NewScrapeFetcher creates a scrape fetcher with the default mirror list.
func NewScrapeFetcher() *ScrapeFetcher {
	return &ScrapeFetcher{
		mirrors: defaultMirrors(),
		timeout: 30 * time.Second,
	}
}

func defaultMirrors() []Mirror {
	selectors := TimelineSelectors{
		PostContainer: "div.timeline-item",
		Content:       "div.tweet-content",
		Date:          "span.tweet-date a",
		RetweetMark:   "div.retweet-header",
		ReplyMark:     "div.replying-to",
		StatGroup:     "span.tweet-stat",
	}
	return []Mirror{
		{Name: "nitter.net", BaseURL: "https://nitter.net", Selectors: selectors},
		{Name: "nitter.privacydev.net", BaseURL: "https://nitter.privacydev.net", Selectors: selectors},
	}
}

func (f *ScrapeFetcher) Source() string { return "SCRAPE" }

// Fetch scrapes up to limit posts for the handle, trying each mirror in turn.
func (f *ScrapeFetcher) Fetch(ctx context.Context, handle string, limit int) ([]types.Post, error) {
	var lastErr error
	for _, mirror := range f.mirrors {
		posts, err := f.scrapeMirror(ctx, mirror, handle, limit)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape mirror", err, "mirror", mirror.Name, "handle", handle)
			lastErr = err
			continue
		}
		if len(posts) == 0 {
			lastErr = fmt.Errorf("mirror %s returned no posts for %q", mirror.Name, handle)
			continue
		}

		sortByCreatedAt(posts)
		logger.Fetch(ctx, handle, f.Source(), len(posts), "mirror", mirror.Name)
		return posts, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no mirrors configured")
	}
	return nil, fmt.Errorf("scraping timeline for %q: %w", handle, lastErr)
}

func (f *ScrapeFetcher) scrapeMirror(ctx context.Context, mirror Mirror, handle string, limit int) ([]types.Post, error) {
	posts := []types.Post{}

	c := colly.NewCollector(
		colly.AllowedDomains(strings.TrimPrefix(mirror.BaseURL, "https://")),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(mirror.Selectors.PostContainer, func(e *colly.HTMLElement) {
		if len(posts) >= limit {
			return
		}

		text := strings.TrimSpace(e.ChildText(mirror.Selectors.Content))
		if text == "" {
			return
		}

		link := e.ChildAttr(mirror.Selectors.Date, "href")
		createdAt, ok := parseMirrorDate(e.ChildAttr(mirror.Selectors.Date, "title"))
		if !ok {
			return
		}

		post := types.Post{
			ID:        postIDFromLink(link),
			Author:    handle,
			CreatedAt: createdAt,
			Text:      text,
			IsRetweet: e.DOM.Find(mirror.Selectors.RetweetMark).Length() > 0,
			IsReply:   e.DOM.Find(mirror.Selectors.ReplyMark).Length() > 0,
		}

		// Stat spans carry an icon class naming the metric and a count.
		e.DOM.Find(mirror.Selectors.StatGroup).Each(func(_ int, s *goquery.Selection) {
			count := parseStatCount(s.Text())
			icon := s.Find("span[class*='icon']")
			class, _ := icon.Attr("class")
			switch {
			case strings.Contains(class, "heart"):
				post.LikeCount = count
			case strings.Contains(class, "retweet"):
				post.RetweetCount = count
			case strings.Contains(class, "comment"):
				post.ReplyCount = count
			}
		})

		posts = append(posts, post)
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scraping error", err, "mirror", mirror.Name, "url", r.Request.URL.String())
	})

	if err := c.Visit(mirror.BaseURL + "/" + handle); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", mirror.BaseURL, err)
	}
	c.Wait()

	return posts, nil
}

// parseMirrorDate parses the timestamp format nitter mirrors put in the date
// link's title attribute, e.g. "Mar 1, 2024 · 7:37 PM UTC".
func parseMirrorDate(title string) (time.Time, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		"Jan 2, 2006 · 3:04 PM MST",
		"Jan 2, 2006 · 15:04 MST",
	} {
		if t, err := time.Parse(layout, title); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// postIDFromLink extracts the numeric status ID from a post permalink like
// "/elonmusk/status/1763581234567890#m".
func postIDFromLink(link string) string {
	if idx := strings.LastIndex(link, "/status/"); idx >= 0 {
		id := link[idx+len("/status/"):]
		if hash := strings.IndexByte(id, '#'); hash >= 0 {
			id = id[:hash]
		}
		return id
	}
	return link
}

// parseStatCount parses counts like "1,234" or "12.5K" into an integer.
func parseStatCount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1_000, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1_000_000, strings.TrimSuffix(s, "M")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(v * mult)
}
