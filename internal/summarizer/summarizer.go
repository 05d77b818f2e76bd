package summarizer

import (
	"context"

	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
)

// Story is one curated news item synthesized from a batch of posts.
type Story struct {
	Headline   string        `json:"headline"`
	Summary    string        `json:"summary"`
	Sources    []StorySource `json:"sources"`
	Importance string        `json:"importance"`
	Category   string        `json:"category"`
}

// StorySource points back at one of the posts a story was drawn from.
type StorySource struct {
	Handle string `json:"handle"`
	URL    string `json:"url"`
}

// Importance tiers, most urgent first.
const (
	ImportanceBreaking    = "BREAKING"
	ImportanceNotable     = "NOTABLE"
	ImportanceInteresting = "INTERESTING"
)

// Summarizer turns a ranked post list into curated stories. A response that
// cannot be parsed into stories yields an empty list, not an error; only
// transport and API failures are returned.
type Summarizer interface {
	Summarize(ctx context.Context, posts []scraper.Post, instructions string) ([]Story, error)
}
