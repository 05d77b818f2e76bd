// Package collector gathers posts from a fixed set of accounts and search
// queries, one source at a time, and deduplicates them by post id.
package collector

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
)

// Result records the outcome of one fetch call: either a batch of posts or
// the reason the source produced nothing. A failed source never aborts the
// collection run.
type Result struct {
	Source string
	Posts  []scraper.Post
	Err    error
}

// Collector runs the two fetch phases (accounts, then searches) strictly in
// order, with a fixed courtesy delay between remote calls.
type Collector struct {
	scraper  scraper.Scraper
	perUser  int
	perQuery int
	delay    time.Duration
	log      *logrus.Logger
}

func New(s scraper.Scraper, perUser, perQuery int, delay time.Duration, log *logrus.Logger) *Collector {
	return &Collector{
		scraper:  s,
		perUser:  perUser,
		perQuery: perQuery,
		delay:    delay,
		log:      log,
	}
}

// Collect fetches posts for every handle, then every query, in input order.
// The returned posts are deduplicated by id, keeping the first occurrence in
// fetch order. The per-source results are returned alongside for reporting.
// The only error Collect itself returns is context cancellation.
func (c *Collector) Collect(ctx context.Context, handles, queries []string) ([]scraper.Post, []Result, error) {
	seen := make(map[string]struct{})
	var posts []scraper.Post
	results := make([]Result, 0, len(handles)+len(queries))

	add := func(batch []scraper.Post) int {
		added := 0
		for _, p := range batch {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			posts = append(posts, p)
			added++
		}
		return added
	}

	for _, handle := range handles {
		c.log.Infof("Scraping @%s ...", handle)
		batch, err := c.scraper.FetchByHandle(ctx, handle, c.perUser)
		results = append(results, Result{Source: "@" + handle, Posts: batch, Err: err})
		if ctx.Err() != nil {
			return posts, results, ctx.Err()
		}
		if err != nil {
			c.log.WithError(err).Warnf("Failed to scrape @%s, skipping", handle)
		} else {
			c.log.Infof("Got %d posts from @%s (%d new)", len(batch), handle, add(batch))
		}
		if err := c.pause(ctx); err != nil {
			return posts, results, err
		}
	}

	for _, query := range queries {
		c.log.Infof("Searching %q ...", query)
		batch, err := c.scraper.FetchByQuery(ctx, query, c.perQuery)
		results = append(results, Result{Source: query, Posts: batch, Err: err})
		if ctx.Err() != nil {
			return posts, results, ctx.Err()
		}
		if err != nil {
			c.log.WithError(err).Warnf("Failed to search %q, skipping", query)
		} else {
			c.log.Infof("Got %d results for %q (%d new)", len(batch), query, add(batch))
		}
		if err := c.pause(ctx); err != nil {
			return posts, results, err
		}
	}

	return posts, results, nil
}

// pause waits the inter-call delay, or returns early when ctx is cancelled.
func (c *Collector) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}
