package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rathinamurthy/ai-daily-brief/internal/collector"
	"github.com/rathinamurthy/ai-daily-brief/internal/config"
	"github.com/rathinamurthy/ai-daily-brief/internal/publisher"
	"github.com/rathinamurthy/ai-daily-brief/internal/rank"
	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
	"github.com/rathinamurthy/ai-daily-brief/internal/summarizer"
)

// Runner orchestrates the collect -> rank -> summarize -> publish pipeline.
// An empty result at any stage is a valid terminal state: the run logs it
// and ends without sending anything. A partial brief is never sent.
type Runner struct {
	collector  *collector.Collector
	sources    *config.Sources
	lookback   time.Duration
	maxInput   int
	summarizer summarizer.Summarizer
	publishers []publisher.Publisher
	log        *logrus.Logger
}

func New(c *collector.Collector, src *config.Sources, lookback time.Duration, maxInput int, s summarizer.Summarizer, pubs []publisher.Publisher, log *logrus.Logger) *Runner {
	return &Runner{
		collector:  c,
		sources:    src,
		lookback:   lookback,
		maxInput:   maxInput,
		summarizer: s,
		publishers: pubs,
		log:        log,
	}
}

// Run executes the full pipeline once.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Infof("Starting pipeline: %d accounts, %d search queries", len(r.sources.Handles), len(r.sources.Queries))

	posts, results, err := r.collector.Collect(ctx, r.sources.Handles, r.sources.Queries)
	if err != nil {
		return fmt.Errorf("runner: collect aborted: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.log.Infof("Fetched %d posts (%d of %d sources failed)", len(posts), failed, len(results))

	if len(posts) == 0 {
		r.log.Warn("No posts fetched, nothing to send")
		return nil
	}

	ranked := rank.Select(posts, rank.Options{
		Lookback: r.lookback,
		MaxPosts: r.maxInput,
	})
	r.log.Infof("Posts after pre-filtering: %d", len(ranked))

	if len(ranked) == 0 {
		r.log.Warn("No posts passed the pre-filter, nothing to send")
		return nil
	}

	stories, err := r.summarizer.Summarize(ctx, ranked, r.sources.Prompt)
	if err != nil {
		return fmt.Errorf("runner: summarize failed: %w", err)
	}
	r.log.Infof("Generated %d stories", len(stories))

	if len(stories) == 0 {
		r.log.Warn("No stories generated, nothing to send")
		return nil
	}

	brief := &publisher.Brief{
		Date:        time.Now().UTC(),
		Stories:     stories,
		SourceCount: distinctHandles(posts),
		PostCount:   len(posts),
	}

	// Continue with remaining publishers even if one fails.
	var publishErrors []error
	for _, pub := range r.publishers {
		r.log.Infof("Publishing via %T...", pub)
		if err := pub.Publish(ctx, brief); err != nil {
			publishErr := fmt.Errorf("publish via %T failed: %w", pub, err)
			publishErrors = append(publishErrors, publishErr)
			r.log.Warn(publishErr.Error())
		} else {
			r.log.Infof("Successfully published via %T", pub)
		}
	}

	if len(publishErrors) == len(r.publishers) && len(r.publishers) > 0 {
		return fmt.Errorf("runner: all publishers failed: %v", publishErrors)
	}

	if len(publishErrors) > 0 {
		r.log.Warnf("Pipeline completed with %d publisher failures out of %d publishers", len(publishErrors), len(r.publishers))
	} else {
		r.log.Info("Pipeline completed successfully")
	}

	return nil
}

func distinctHandles(posts []scraper.Post) int {
	handles := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		handles[p.AuthorHandle] = struct{}{}
	}
	return len(handles)
}
