package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/rathinamurthy/ai-daily-brief/internal/collector"
	"github.com/rathinamurthy/ai-daily-brief/internal/config"
	"github.com/rathinamurthy/ai-daily-brief/internal/logging"
	"github.com/rathinamurthy/ai-daily-brief/internal/publisher"
	"github.com/rathinamurthy/ai-daily-brief/internal/runner"
	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
	"github.com/rathinamurthy/ai-daily-brief/internal/summarizer"
)

func main() {
	settingsPath := flag.String("settings", "settings.yaml", "path to settings file")
	sourcesPath := flag.String("sources", "", "path to sources file (overrides settings)")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	_ = godotenv.Load()

	log := logging.New()

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load settings")
	}

	srcPath := cfg.Sources
	if *sourcesPath != "" {
		srcPath = *sourcesPath
	}
	src, err := config.ParseSources(srcPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load sources")
	}
	log.Infof("Found %d accounts and %d search queries", len(src.Handles), len(src.Queries))

	// Build scraper. Missing credentials are fatal before any fetch.
	xc, err := scraper.NewXClient(os.Getenv("X_COOKIES"), cfg.Scraper.CookiesFile, log)
	if err != nil {
		log.WithError(err).Fatal("Scraper authentication failed")
	}
	defer xc.Close()

	col := collector.New(xc, cfg.Scraper.MaxPostsPerUser, cfg.Scraper.MaxPostsPerSearch, cfg.Scraper.Delay(), log)

	summ := summarizer.NewAnthropicSummarizer(
		cfg.Summarizer.APIKey,
		cfg.Summarizer.Model,
		cfg.Summarizer.MaxTokens,
		cfg.Summarizer.MaxStories,
		log,
	)

	pubs, webPub := buildPublishers(cfg, log)

	if webPub != nil {
		if err := webPub.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start web publisher")
		}
	}

	r := runner.New(col, src, cfg.Scraper.Lookback(), cfg.Summarizer.MaxInputPosts, summ, pubs, log)

	// Single-run mode: run the pipeline once and exit.
	if *once {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		log.Info("Running brief (once mode)...")
		if err := r.Run(ctx); err != nil {
			log.WithError(err).Fatal("Pipeline failed")
		}
		log.Info("Done")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunOnStart {
		log.Info("Running initial brief...")
		if err := r.Run(ctx); err != nil {
			log.WithError(err).Error("Initial run failed")
		}
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Info("Cron triggered, running brief...")
		if err := r.Run(ctx); err != nil {
			log.WithError(err).Error("Scheduled run failed")
		}
	})
	if err != nil {
		log.WithError(err).Fatalf("Failed to set up cron schedule %q", cfg.Schedule)
	}
	c.Start()
	log.Infof("Scheduled brief with cron expression: %s", cfg.Schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infof("Received signal %v, shutting down...", sig)

	cancel()
	c.Stop()

	if webPub != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := webPub.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Web server shutdown error")
		}
	}

	log.Info("Shutdown complete")
}

func buildPublishers(cfg *config.Config, log *logrus.Logger) ([]publisher.Publisher, *publisher.WebPublisher) {
	switch cfg.Publisher.Type {
	case "email":
		e := cfg.Publisher.Email
		return []publisher.Publisher{publisher.NewEmailPublisher(
			e.SMTPHost, e.SMTPPort, e.Username, e.Password, e.From, e.To, e.SubjectPrefix,
		)}, nil
	case "web":
		webPub := publisher.NewWebPublisher(cfg.Publisher.Web.Addr, log)
		return []publisher.Publisher{webPub}, webPub
	case "discord":
		return []publisher.Publisher{publisher.NewDiscordPublisher(cfg.Publisher.Discord.WebhookURL)}, nil
	default:
		return []publisher.Publisher{publisher.NewStdoutPublisher()}, nil
	}
}
