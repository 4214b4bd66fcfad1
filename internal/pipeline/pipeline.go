package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"sniperx/internal/logger"
	"sniperx/internal/pattern"
	"sniperx/internal/sentiment"
	"sniperx/internal/signal"
	"sniperx/internal/store"
	"sniperx/internal/trace"
	"sniperx/internal/types"
)

// ErrInvalidInput is returned when the supplied post sequence violates the
// pipeline's input contract. It is the same sentinel the pattern detector
// wraps, so errors.Is works on either layer's result.
var ErrInvalidInput = pattern.ErrInvalidInput

// Result is the structured output of one analysis run.
type Result struct {
	Handle      string                `json:"handle"`
	GeneratedAt time.Time             `json:"generated_at"`
	Posts       int                   `json:"posts_analyzed"`
	Candidates  int                   `json:"candidate_signals"`
	Patterns    *types.PatternContext `json:"patterns"`
	Signals     []types.Signal        `json:"signals"`
}

// Run executes the full analysis pass: filter to original posts, score each
// post's sentiment and keywords in parallel, detect behavioral patterns, then
// generate, enhance and rank signals. The whole pass is synchronous; the
// pattern context is complete before any signal is generated.
func Run(ctx context.Context, posts []types.Post, cfg *store.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, span := trace.StartSpan(ctx, "pipeline-run")
	defer span.End()

	originals := filterOriginals(posts)
	if err := checkOrdered(originals); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Starting analysis run",
		"handle", cfg.TargetHandle, "posts", len(posts), "originals", len(originals))

	scores, matches, err := scoreAll(ctx, originals, cfg)
	if err != nil {
		return nil, err
	}

	polarities := make([]float64, len(scores))
	for i, s := range scores {
		polarities[i] = s.Polarity
	}

	// Barrier: every per-post score is in before the context is built, and
	// the context is complete before any generator call reads it.
	pc, err := pattern.Detect(originals, polarities, patternConfig(cfg))
	if err != nil {
		return nil, err
	}

	th := signal.Thresholds{
		Positive: cfg.Analysis.PositiveThreshold,
		Negative: cfg.Analysis.NegativeThreshold,
	}

	var maxEngagement float64
	for _, p := range originals {
		if e := p.EngagementScore(); e > maxEngagement {
			maxEngagement = e
		}
	}

	candidates := make([]types.Signal, 0, len(originals))
	for i, p := range originals {
		if sig, ok := signal.Generate(p, scores[i], matches[i], pc, th); ok {
			candidates = append(candidates, sig)
		}
	}

	ranked := signal.Enhance(candidates, maxEngagement, cfg.MinConfidence)

	logger.Info(ctx, "Analysis run completed",
		"candidates", len(candidates), "signals", len(ranked), "bursts", len(pc.BurstWindows))

	return &Result{
		Handle:      cfg.TargetHandle,
		GeneratedAt: time.Now().UTC(),
		Posts:       len(originals),
		Candidates:  len(candidates),
		Patterns:    pc,
		Signals:     ranked,
	}, nil
}

// scoreAll runs the pure per-post scorer across workers. Each goroutine
// writes only its own indices, so results recombine by position without
// locking and completion order does not matter.
func scoreAll(ctx context.Context, posts []types.Post, cfg *store.Config) ([]types.SentimentScore, []types.KeywordMatch, error) {
	ctx, span := trace.StartSpan(ctx, "score-posts")
	defer span.End()

	scorer := sentiment.NewScorer()
	matcher := sentiment.NewMatcher(cfg.Trading.CryptoKeywords, cfg.Trading.StockKeywords)

	scores := make([]types.SentimentScore, len(posts))
	matches := make([]types.KeywordMatch, len(posts))

	g, ctx := errgroup.WithContext(ctx)
	workers := runtime.NumCPU()
	if workers > len(posts) {
		workers = len(posts)
	}
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; i < len(posts); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				scores[i] = scorer.Score(posts[i].Text)
				matches[i] = matcher.Match(posts[i].Text)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("scoring posts: %w", err)
	}
	return scores, matches, nil
}

// filterOriginals drops retweets and replies, preserving order.
func filterOriginals(posts []types.Post) []types.Post {
	out := make([]types.Post, 0, len(posts))
	for _, p := range posts {
		if p.IsRetweet || p.IsReply {
			continue
		}
		out = append(out, p)
	}
	return out
}

func checkOrdered(posts []types.Post) error {
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.Before(posts[i-1].CreatedAt) {
			return fmt.Errorf("%w: posts must be ordered by created_at ascending (index %d)", ErrInvalidInput, i)
		}
	}
	return nil
}

func patternConfig(cfg *store.Config) pattern.Config {
	return pattern.Config{
		BurstSensitivity:     cfg.Analysis.BurstSensitivity,
		BurstWindow:          time.Duration(cfg.Analysis.BurstWindowMinutes) * time.Minute,
		TrendWindow:          cfg.Analysis.TrendWindow,
		ShiftThreshold:       cfg.Analysis.ShiftThreshold,
		EngagementPercentile: cfg.Analysis.EngagementPercentile,
		TopThemes:            cfg.Analysis.TopThemes,
	}
}
