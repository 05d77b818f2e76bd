package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Public bearer token used by the X web client. Requests are authorized by
// the session cookies; this token only identifies the client application.
const webBearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

const defaultBaseURL = "https://api.x.com"

// createdAtLayout is the timestamp format used by the API,
// e.g. "Wed Oct 10 20:19:24 +0000 2018".
const createdAtLayout = time.RubyDate

// XClient fetches posts from X using a cookie-authenticated session.
type XClient struct {
	client *resty.Client
	log    *logrus.Logger
}

// NewXClient builds a client authenticated from cookiesJSON (a JSON object of
// cookie name to value, typically the X_COOKIES env var) or, when that is
// empty, from the cookies file written by setup-cookies. It returns
// ErrNoCredentials when neither source is available.
func NewXClient(cookiesJSON, cookiesFile string, log *logrus.Logger) (*XClient, error) {
	if cookiesJSON != "" {
		cookies, err := decodeCookies([]byte(cookiesJSON))
		if err != nil {
			return nil, fmt.Errorf("scraper: X_COOKIES is not valid JSON: %w", err)
		}
		log.Info("Authenticated with cookies from environment")
		return NewXClientWithCookies(cookies, log), nil
	}

	if cookiesFile != "" {
		data, err := os.ReadFile(cookiesFile)
		if err == nil {
			cookies, err := decodeCookies(data)
			if err != nil {
				return nil, fmt.Errorf("scraper: %s is not valid JSON: %w", cookiesFile, err)
			}
			log.Infof("Authenticated with cookies from %s", cookiesFile)
			return NewXClientWithCookies(cookies, log), nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("scraper: failed to read %s: %w", cookiesFile, err)
		}
	}

	return nil, ErrNoCredentials
}

// NewXClientWithCookies builds a client from an explicit cookie map.
func NewXClientWithCookies(cookies map[string]string, log *logrus.Logger) *XClient {
	client := resty.New()
	client.SetBaseURL(defaultBaseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	client.SetAuthToken(webBearerToken)

	for name, value := range cookies {
		client.SetCookie(&http.Cookie{Name: name, Value: value})
	}
	// The session cookie pair: auth_token authenticates, ct0 doubles as the
	// CSRF header value.
	if ct0, ok := cookies["ct0"]; ok {
		client.SetHeader("x-csrf-token", ct0)
	}

	return &XClient{
		client: client,
		log:    log,
	}
}

func decodeCookies(data []byte) (map[string]string, error) {
	var cookies map[string]string
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

// API response types.

type apiUser struct {
	IDStr      string `json:"id_str"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

type apiMedia struct {
	MediaURLHTTPS string `json:"media_url_https"`
	URL           string `json:"url"`
}

type apiTweet struct {
	IDStr            string    `json:"id_str"`
	FullText         string    `json:"full_text"`
	Text             string    `json:"text"`
	CreatedAt        string    `json:"created_at"`
	FavoriteCount    int       `json:"favorite_count"`
	RetweetCount     int       `json:"retweet_count"`
	ReplyCount       int       `json:"reply_count"`
	ViewCount        int       `json:"view_count"`
	User             *apiUser  `json:"user"`
	RetweetedStatus  *struct{} `json:"retweeted_status"`
	ExtendedEntities struct {
		Media []apiMedia `json:"media"`
	} `json:"extended_entities"`
}

type apiSearchResult struct {
	Statuses []apiTweet `json:"statuses"`
}

type apiError struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchByHandle returns up to max recent posts from one account.
func (c *XClient) FetchByHandle(ctx context.Context, handle string, max int) ([]Post, error) {
	var user apiUser
	if err := c.get(ctx, "/1.1/users/show.json", map[string]string{
		"screen_name": handle,
	}, &user); err != nil {
		return nil, fmt.Errorf("scraper: user @%s: %w", handle, err)
	}
	if user.IDStr == "" {
		return nil, fmt.Errorf("scraper: user @%s not found", handle)
	}

	var timeline []apiTweet
	if err := c.get(ctx, "/1.1/statuses/user_timeline.json", map[string]string{
		"user_id":    user.IDStr,
		"count":      strconv.Itoa(max),
		"tweet_mode": "extended",
	}, &timeline); err != nil {
		return nil, fmt.Errorf("scraper: timeline @%s: %w", handle, err)
	}

	posts := make([]Post, 0, len(timeline))
	for _, t := range timeline {
		posts = append(posts, c.toPost(t, handle, user.Name))
	}
	return posts, nil
}

// FetchByQuery returns up to max recent posts matching a search query.
func (c *XClient) FetchByQuery(ctx context.Context, query string, max int) ([]Post, error) {
	var result apiSearchResult
	if err := c.get(ctx, "/1.1/search/tweets.json", map[string]string{
		"q":           query,
		"count":       strconv.Itoa(max),
		"result_type": "recent",
		"tweet_mode":  "extended",
	}, &result); err != nil {
		return nil, fmt.Errorf("scraper: search %q: %w", query, err)
	}

	posts := make([]Post, 0, len(result.Statuses))
	for _, t := range result.Statuses {
		handle, name := "unknown", "unknown"
		if t.User != nil {
			handle, name = t.User.ScreenName, t.User.Name
		}
		posts = append(posts, c.toPost(t, handle, name))
	}
	return posts, nil
}

// VerifyCredentials confirms the session is valid and returns the
// authenticated account's handle.
func (c *XClient) VerifyCredentials(ctx context.Context) (string, error) {
	var user apiUser
	if err := c.get(ctx, "/1.1/account/verify_credentials.json", nil, &user); err != nil {
		return "", fmt.Errorf("scraper: verify credentials: %w", err)
	}
	return user.ScreenName, nil
}

func (c *XClient) Close() error {
	return nil
}

func (c *XClient) get(ctx context.Context, path string, params map[string]string, out any) error {
	req := c.client.R().SetContext(ctx).SetResult(out)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		var apiErr apiError
		if jsonErr := json.Unmarshal(resp.Body(), &apiErr); jsonErr == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), apiErr.Errors[0].Message)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return nil
}

func (c *XClient) toPost(t apiTweet, handle, name string) Post {
	text := t.FullText
	if text == "" {
		text = t.Text
	}

	var media []string
	for _, m := range t.ExtendedEntities.Media {
		if m.MediaURLHTTPS != "" {
			media = append(media, m.MediaURLHTTPS)
		} else if m.URL != "" {
			media = append(media, m.URL)
		}
	}

	return Post{
		ID:           t.IDStr,
		AuthorHandle: handle,
		AuthorName:   name,
		Text:         text,
		CreatedAt:    c.parseCreatedAt(t.CreatedAt),
		Likes:        clampCount(t.FavoriteCount),
		Reposts:      clampCount(t.RetweetCount),
		Replies:      clampCount(t.ReplyCount),
		Views:        clampCount(t.ViewCount),
		URL:          fmt.Sprintf("https://x.com/%s/status/%s", handle, t.IDStr),
		IsRepost:     isRepost(t, text),
		MediaURLs:    media,
	}
}

func (c *XClient) parseCreatedAt(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	parsed, err := time.Parse(createdAtLayout, s)
	if err != nil {
		c.log.WithField("created_at", s).Warn("Unparseable timestamp, falling back to now")
		return time.Now().UTC()
	}
	return parsed
}

func isRepost(t apiTweet, text string) bool {
	if t.RetweetedStatus != nil {
		return true
	}
	return len(text) >= 4 && text[:4] == "RT @"
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
