// Package rank reduces a raw post list to the most relevant recent subset:
// drop reposts, drop posts older than the lookback window, order the rest by
// engagement, and cap the result.
package rank

import (
	"sort"
	"time"

	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
)

type Options struct {
	// Lookback is the maximum post age relative to Now.
	Lookback time.Duration
	// MaxPosts caps the result after sorting. Zero keeps nothing.
	MaxPosts int
	// Now anchors the cutoff; the zero value means the current time.
	Now time.Time
}

// Select filters and orders posts. A post survives only if it is not a
// repost and its creation time is at or after Now-Lookback (the boundary is
// inclusive). Survivors are sorted by engagement score descending with a
// stable sort, so equal scores keep their input order, then truncated to
// MaxPosts.
func Select(posts []scraper.Post, opts Options) []scraper.Post {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	cutoff := now.Add(-opts.Lookback)

	kept := make([]scraper.Post, 0, len(posts))
	for _, p := range posts {
		if p.IsRepost || p.CreatedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, p)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].EngagementScore() > kept[j].EngagementScore()
	})

	limit := opts.MaxPosts
	if limit < 0 {
		limit = 0
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
