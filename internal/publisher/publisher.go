package publisher

import (
	"context"
	"time"

	"github.com/rathinamurthy/ai-daily-brief/internal/summarizer"
)

// Brief is the assembled digest handed to publishers: the curated stories
// plus collection metadata for the header.
type Brief struct {
	Date        time.Time
	Stories     []summarizer.Story
	SourceCount int // distinct author handles across all fetched posts
	PostCount   int // all fetched posts, before filtering
}

// Publisher delivers a brief to some output destination.
type Publisher interface {
	Publish(ctx context.Context, brief *Brief) error
}
