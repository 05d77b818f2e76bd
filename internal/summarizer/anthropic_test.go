package summarizer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rathinamurthy/ai-daily-brief/internal/retry"
	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSummarizer(ts *httptest.Server) *AnthropicSummarizer {
	s := NewAnthropicSummarizer("test-key", "claude-sonnet-4-20250514", 4096, 15, testLogger())
	s.client = ts.Client()
	s.baseURL = ts.URL
	s.retryConfig = retry.Config{MaxRetries: 1, BaseDelay: time.Millisecond}
	return s
}

func samplePosts() []scraper.Post {
	return []scraper.Post{
		{
			ID:           "1001",
			AuthorHandle: "examplelab",
			Text:         "We are releasing a new model today.",
			CreatedAt:    time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
			Likes:        120,
			Reposts:      40,
			Replies:      15,
			URL:          "https://x.com/examplelab/status/1001",
		},
		{
			ID:           "1002",
			AuthorHandle: "indiedev",
			Text:         "Benchmarks for the new release.",
			CreatedAt:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			Likes:        30,
			URL:          "https://x.com/indiedev/status/1002",
		},
	}
}

const storiesJSON = `[
  {
    "headline": "Example Lab ships a new model",
    "summary": "A new model was released with improved benchmarks.",
    "sources": [{"handle": "examplelab", "url": "https://x.com/examplelab/status/1001"}],
    "importance": "BREAKING",
    "category": "Models"
  }
]`

func anthropicReply(text string) string {
	resp := anthropicResponse{Content: []anthropicContent{{Type: "text", Text: text}}}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestSummarizeParsesStories(t *testing.T) {
	var gotReq anthropicRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Expected anthropic-version header")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Errorf("Failed to parse request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(anthropicReply(storiesJSON)))
	}))
	defer ts.Close()

	s := newTestSummarizer(ts)
	stories, err := s.Summarize(context.Background(), samplePosts(), "Focus on model releases.")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if len(stories) != 1 {
		t.Fatalf("Expected 1 story, got %d", len(stories))
	}
	st := stories[0]
	if st.Headline != "Example Lab ships a new model" {
		t.Errorf("Unexpected headline: %q", st.Headline)
	}
	if st.Importance != ImportanceBreaking || st.Category != "Models" {
		t.Errorf("Unexpected importance/category: %q / %q", st.Importance, st.Category)
	}
	if len(st.Sources) != 1 || st.Sources[0].Handle != "examplelab" {
		t.Errorf("Unexpected sources: %v", st.Sources)
	}

	// The request carried the curation instructions and the post block.
	if !strings.Contains(gotReq.System, "Focus on model releases.") {
		t.Error("Expected curation instructions in system prompt")
	}
	if len(gotReq.Messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(gotReq.Messages))
	}
	for _, want := range []string{
		"[@examplelab]",
		"We are releasing a new model today.",
		"Likes:120 Reposts:40 Replies:15",
		"URL: https://x.com/examplelab/status/1001",
		"[@indiedev]",
	} {
		if !strings.Contains(gotReq.Messages[0].Content, want) {
			t.Errorf("Expected user message to contain %q", want)
		}
	}
}

func TestSummarizeStripsMarkdownFences(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(anthropicReply("```json\n" + storiesJSON + "\n```")))
	}))
	defer ts.Close()

	s := newTestSummarizer(ts)
	stories, err := s.Summarize(context.Background(), samplePosts(), "")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if len(stories) != 1 {
		t.Fatalf("Expected 1 story after fence stripping, got %d", len(stories))
	}
}

func TestSummarizeFailsClosedOnUnparseableResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(anthropicReply("Sorry, I cannot produce JSON today.")))
	}))
	defer ts.Close()

	s := newTestSummarizer(ts)
	stories, err := s.Summarize(context.Background(), samplePosts(), "")
	if err != nil {
		t.Fatalf("Expected no error for unparseable response, got: %v", err)
	}
	if len(stories) != 0 {
		t.Fatalf("Expected empty story list, got %d", len(stories))
	}
}

func TestSummarizeTruncatesToMaxStories(t *testing.T) {
	many := make([]Story, 5)
	for i := range many {
		many[i] = Story{Headline: "h", Importance: ImportanceInteresting}
	}
	payload, _ := json.Marshal(many)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(anthropicReply(string(payload))))
	}))
	defer ts.Close()

	s := newTestSummarizer(ts)
	s.maxStories = 3
	stories, err := s.Summarize(context.Background(), samplePosts(), "")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if len(stories) != 3 {
		t.Fatalf("Expected 3 stories after truncation, got %d", len(stories))
	}
}

func TestSummarizeAPIErrorIsReturned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	s := newTestSummarizer(ts)
	_, err := s.Summarize(context.Background(), samplePosts(), "")
	if err == nil {
		t.Fatal("Expected error for API failure")
	}
	if !strings.Contains(err.Error(), "unexpected status 401") {
		t.Errorf("Expected status in error, got: %v", err)
	}
}

func TestSummarizeRetriesOnServerError(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(anthropicReply(storiesJSON)))
	}))
	defer ts.Close()

	s := newTestSummarizer(ts)
	stories, err := s.Summarize(context.Background(), samplePosts(), "")
	if err != nil {
		t.Fatalf("Expected retry to recover, got: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("Expected 2 attempts, got %d", attempts)
	}
	if len(stories) != 1 {
		t.Fatalf("Expected 1 story, got %d", len(stories))
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := NewAnthropicSummarizer("k", "m", 4096, 15, testLogger())
	stories, err := s.Summarize(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("Expected no error for empty input, got: %v", err)
	}
	if len(stories) != 0 {
		t.Fatalf("Expected no stories for empty input, got %d", len(stories))
	}
}
