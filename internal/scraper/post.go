package scraper

import "time"

// Post represents one fetched social-media item.
type Post struct {
	ID           string
	AuthorHandle string
	AuthorName   string
	Text         string
	CreatedAt    time.Time
	Likes        int
	Reposts      int
	Replies      int
	Views        int
	URL          string
	IsRepost     bool
	MediaURLs    []string
}

// EngagementScore weighs reposts double and replies half. Computed from the
// counters on every call so it cannot drift from them.
func (p Post) EngagementScore() float64 {
	return float64(p.Likes) + 2*float64(p.Reposts) + 0.5*float64(p.Replies)
}
