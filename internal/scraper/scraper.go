package scraper

import (
	"context"
	"errors"
)

// Scraper fetches recent posts from a social-media source, either by account
// handle or by search query.
type Scraper interface {
	FetchByHandle(ctx context.Context, handle string, max int) ([]Post, error)
	FetchByQuery(ctx context.Context, query string, max int) ([]Post, error)
	Close() error
}

// ErrNoCredentials is returned when no session cookies are available in any
// configured form. This is fatal: the caller must not attempt any fetch.
var ErrNoCredentials = errors.New("scraper: no session cookies found (set X_COOKIES or run setup-cookies)")
