package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rathinamurthy/ai-daily-brief/internal/retry"
	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
)

// AnthropicSummarizer curates posts into stories via the Anthropic Messages API.
type AnthropicSummarizer struct {
	apiKey      string
	model       string
	maxTokens   int
	maxStories  int
	client      *http.Client
	baseURL     string
	retryConfig retry.Config
	log         *logrus.Logger
}

func NewAnthropicSummarizer(apiKey, model string, maxTokens, maxStories int, log *logrus.Logger) *AnthropicSummarizer {
	return &AnthropicSummarizer{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		maxStories:  maxStories,
		client:      &http.Client{Timeout: 120 * time.Second},
		baseURL:     "https://api.anthropic.com/v1/messages",
		retryConfig: retry.DefaultConfig(),
		log:         log,
	}
}

// Anthropic API request/response types

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *AnthropicSummarizer) Summarize(ctx context.Context, posts []scraper.Post, instructions string) ([]Story, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	system := s.buildSystemPrompt(instructions)
	user := fmt.Sprintf("Here are today's posts:\n\n%s", buildPostBlock(posts))

	var body string
	err := retry.WithBackoff(ctx, s.retryConfig, func(ctx context.Context) error {
		var callErr error
		body, callErr = s.callAPI(ctx, system, user)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	return s.parseStories(body), nil
}

func (s *AnthropicSummarizer) buildSystemPrompt(instructions string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI news curator. You will receive a batch of posts from AI companies ")
	sb.WriteString("and researchers. Your job is to identify the most important stories, group related ")
	sb.WriteString("posts together, and produce a structured JSON summary.\n\n")
	sb.WriteString(fmt.Sprintf("Curation instructions from the user:\n%s\n\n", instructions))
	sb.WriteString(`Output a JSON array of story objects. Each story has:
- "headline": concise headline (max 15 words)
- "summary": 2-3 sentence summary of the story
- "sources": list of objects with "handle" and "url" fields
- "importance": one of "BREAKING", "NOTABLE", or "INTERESTING"
- "category": one of "Models", "Products", "Research", "Open Source", "Industry", "Policy", "Insights"

`)
	sb.WriteString(fmt.Sprintf("Return at most %d stories, ordered by importance.\n", s.maxStories))
	sb.WriteString("Return ONLY the JSON array, no markdown fences or extra text.")
	return sb.String()
}

func buildPostBlock(posts []scraper.Post) string {
	blocks := make([]string, 0, len(posts))
	for _, p := range posts {
		blocks = append(blocks, fmt.Sprintf(
			"[@%s] (%s UTC) [Likes:%d Reposts:%d Replies:%d]\n%s\nURL: %s\n",
			p.AuthorHandle,
			p.CreatedAt.UTC().Format("2006-01-02 15:04"),
			p.Likes, p.Reposts, p.Replies,
			p.Text,
			p.URL,
		))
	}
	return strings.Join(blocks, "\n---\n")
}

func (s *AnthropicSummarizer) callAPI(ctx context.Context, system, user string) (string, error) {
	reqBody := anthropicRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic: unexpected status %d", resp.StatusCode)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("anthropic: failed to parse response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("anthropic: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}

	return apiResp.Content[0].Text, nil
}

// parseStories decodes the model's JSON array. It fails closed: anything
// that does not parse into the expected shape yields zero stories, logged
// at error level, so the run ends with "nothing to deliver" rather than a
// crash.
func (s *AnthropicSummarizer) parseStories(body string) []Story {
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var stories []Story
	if err := json.Unmarshal([]byte(body), &stories); err != nil {
		s.log.WithError(err).Errorf("Failed to parse model response as story JSON:\n%s", body)
		return nil
	}

	if len(stories) > s.maxStories {
		stories = stories[:s.maxStories]
	}
	return stories
}
