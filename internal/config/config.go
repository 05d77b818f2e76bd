package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Schedule   string           `yaml:"schedule"`
	RunOnStart bool             `yaml:"run_on_start"`
	Sources    string           `yaml:"sources"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Publisher  PublisherConfig  `yaml:"publisher"`
}

type ScraperConfig struct {
	MaxPostsPerUser   int    `yaml:"max_posts_per_user"`
	MaxPostsPerSearch int    `yaml:"max_posts_per_search"`
	DelaySeconds      int    `yaml:"delay_between_calls"`
	LookbackHours     int    `yaml:"lookback_hours"`
	CookiesFile       string `yaml:"cookies_file"`
}

// Delay is the fixed courtesy wait between remote calls.
func (c ScraperConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// Lookback is the maximum post age eligible for the brief.
func (c ScraperConfig) Lookback() time.Duration {
	return time.Duration(c.LookbackHours) * time.Hour
}

type SummarizerConfig struct {
	Type          string `yaml:"type"`
	Model         string `yaml:"model"`
	APIKey        string `yaml:"api_key"`
	MaxTokens     int    `yaml:"max_tokens"`
	MaxStories    int    `yaml:"max_stories"`
	MaxInputPosts int    `yaml:"max_input_posts"`
}

type PublisherConfig struct {
	Type    string        `yaml:"type"`
	Email   EmailConfig   `yaml:"email"`
	Web     WebConfig     `yaml:"web"`
	Discord DiscordConfig `yaml:"discord"`
}

type EmailConfig struct {
	SMTPHost      string   `yaml:"smtp_host"`
	SMTPPort      int      `yaml:"smtp_port"`
	Username      string   `yaml:"username"`
	Password      string   `yaml:"password"`
	From          string   `yaml:"from"`
	To            []string `yaml:"to"`
	SubjectPrefix string   `yaml:"subject_prefix"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 7 * * *"
	}
	if cfg.Sources == "" {
		cfg.Sources = "sources.md"
	}
	if cfg.Scraper.MaxPostsPerUser == 0 {
		cfg.Scraper.MaxPostsPerUser = 50
	}
	if cfg.Scraper.MaxPostsPerSearch == 0 {
		cfg.Scraper.MaxPostsPerSearch = 20
	}
	if cfg.Scraper.DelaySeconds == 0 {
		cfg.Scraper.DelaySeconds = 2
	}
	if cfg.Scraper.LookbackHours == 0 {
		cfg.Scraper.LookbackHours = 24
	}
	if cfg.Scraper.CookiesFile == "" {
		cfg.Scraper.CookiesFile = "cookies.json"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "anthropic"
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Summarizer.MaxTokens == 0 {
		cfg.Summarizer.MaxTokens = 4096
	}
	if cfg.Summarizer.MaxStories == 0 {
		cfg.Summarizer.MaxStories = 15
	}
	if cfg.Summarizer.MaxInputPosts == 0 {
		cfg.Summarizer.MaxInputPosts = 200
	}
	if cfg.Publisher.Type == "" {
		cfg.Publisher.Type = "stdout"
	}
	if cfg.Publisher.Email.SMTPHost == "" {
		cfg.Publisher.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Publisher.Email.SMTPPort == 0 {
		cfg.Publisher.Email.SMTPPort = 587
	}
	if cfg.Publisher.Email.SubjectPrefix == "" {
		cfg.Publisher.Email.SubjectPrefix = "AI Daily Brief"
	}
	if cfg.Publisher.Web.Addr == "" {
		cfg.Publisher.Web.Addr = ":8080"
	}
}

func validate(cfg *Config) error {
	if cfg.Summarizer.Type != "anthropic" {
		return fmt.Errorf("config: unsupported summarizer type %q (supported: anthropic)", cfg.Summarizer.Type)
	}
	if cfg.Summarizer.APIKey == "" {
		return fmt.Errorf("config: summarizer.api_key is required (set ANTHROPIC_API_KEY env var)")
	}
	switch cfg.Publisher.Type {
	case "stdout", "email", "web", "discord":
	default:
		return fmt.Errorf("config: unsupported publisher type %q (supported: stdout, email, web, discord)", cfg.Publisher.Type)
	}
	if cfg.Publisher.Type == "email" {
		if cfg.Publisher.Email.From == "" {
			return fmt.Errorf("config: publisher.email.from is required for email publisher")
		}
		if len(cfg.Publisher.Email.To) == 0 {
			return fmt.Errorf("config: publisher.email.to is required for email publisher")
		}
		if cfg.Publisher.Email.Password == "" {
			return fmt.Errorf("config: publisher.email.password is required (set GMAIL_APP_PASSWORD env var)")
		}
	}
	if cfg.Publisher.Type == "discord" && cfg.Publisher.Discord.WebhookURL == "" {
		return fmt.Errorf("config: publisher.discord.webhook_url is required for discord publisher")
	}
	return nil
}

// Load reads the settings file, expands environment variables, applies
// defaults, and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
