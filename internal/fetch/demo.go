package fetch

import (
	"context"
	"fmt"
	"time"

	"sniperx/internal/logger"
	"sniperx/internal/types"
)

// DemoFetcher serves a fixed, generated timeline so the analyzer runs end to
// end without credentials or network access. The corpus is deterministic: the
// same handle and limit always yield the same posts.
type DemoFetcher struct{}

func NewDemoFetcher() *DemoFetcher { return &DemoFetcher{} }

func (f *DemoFetcher) Source() string { return "DEMO" }

type demoPost struct {
	text     string
	offset   time.Duration
	likes    int
	retweets int
	replies  int
	retweet  bool
	reply    bool
}

// The corpus mimics a week of activity: routine chatter, a crypto hype burst
// in the small hours, a bearish stock run, and some noise the pipeline should
// ignore.
var demoCorpus = []demoPost{
	{text: "Good morning. Big week ahead.", offset: 0, likes: 42000, retweets: 3100, replies: 5200},
	{text: "Working on the next Starship launch window", offset: 5 * time.Hour, likes: 88000, retweets: 12000, replies: 7400},
	{text: "Tesla FSD v13 rollout is going well, huge improvement", offset: 11 * time.Hour, likes: 132000, retweets: 21000, replies: 9800},
	{text: "Reply guy energy today", offset: 14 * time.Hour, likes: 8000, retweets: 400, replies: 1200, reply: true},
	{text: "Dogecoin is the future of currency! Absolutely amazing community", offset: 26 * time.Hour, likes: 245000, retweets: 61000, replies: 18400},
	{text: "Doge to the moon", offset: 26*time.Hour + 9*time.Minute, likes: 198000, retweets: 52000, replies: 15100},
	{text: "Who let the Doge out", offset: 26*time.Hour + 21*time.Minute, likes: 151000, retweets: 38000, replies: 12600},
	{text: "Crypto volatility is not for the faint of heart", offset: 26*time.Hour + 40*time.Minute, likes: 97000, retweets: 14000, replies: 8900},
	{text: "RT spaceflight history thread", offset: 30 * time.Hour, likes: 12000, retweets: 2500, replies: 600, retweet: true},
	{text: "Bitcoin looking strong", offset: 49 * time.Hour, likes: 176000, retweets: 34000, replies: 11200},
	{text: "Legacy media is so boring", offset: 55 * time.Hour, likes: 64000, retweets: 7100, replies: 9300},
	{text: "Tesla production this quarter hit a record, incredible work by the team", offset: 73 * time.Hour, likes: 154000, retweets: 25000, replies: 8800},
	{text: "Supply chain problems are a real risk for the whole industry", offset: 78 * time.Hour, likes: 71000, retweets: 9800, replies: 6100},
	{text: "The stock market is a voting machine in the short run", offset: 97 * time.Hour, likes: 83000, retweets: 11000, replies: 7000},
	{text: "Selling some shares to fund the next thing, nothing to worry about", offset: 101 * time.Hour, likes: 118000, retweets: 29000, replies: 21500},
	{text: "Ethereum gas fees are still terrible", offset: 121 * time.Hour, likes: 92000, retweets: 13000, replies: 7700},
	{text: "Sunday rocket catch attempt, wish us luck", offset: 145 * time.Hour, likes: 139000, retweets: 23000, replies: 9900},
	{text: "Success! Incredible launch, huge milestone for the program", offset: 149 * time.Hour, likes: 310000, retweets: 74000, replies: 26800},
}

// demoBase anchors the corpus one week before now, truncated to the hour so
// repeated runs within the same hour are byte-identical.
func demoBase() time.Time {
	return time.Now().UTC().Truncate(time.Hour).Add(-7 * 24 * time.Hour)
}

func (f *DemoFetcher) Fetch(ctx context.Context, handle string, limit int) ([]types.Post, error) {
	base := demoBase()

	posts := make([]types.Post, 0, len(demoCorpus))
	for i, d := range demoCorpus {
		if len(posts) >= limit {
			break
		}
		posts = append(posts, types.Post{
			ID:           fmt.Sprintf("demo-%03d", i+1),
			Author:       handle,
			CreatedAt:    base.Add(d.offset),
			Text:         d.text,
			IsRetweet:    d.retweet,
			IsReply:      d.reply,
			LikeCount:    d.likes,
			RetweetCount: d.retweets,
			ReplyCount:   d.replies,
		})
	}

	logger.Fetch(ctx, handle, f.Source(), len(posts))
	return posts, nil
}
