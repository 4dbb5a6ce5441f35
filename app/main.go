package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"clipfeed/app/archive"
	"clipfeed/app/cache"
	"clipfeed/app/cfg"
	"clipfeed/app/config"
	"clipfeed/app/extract"
	"clipfeed/app/feed"
	"clipfeed/app/fetch"
	"clipfeed/app/notion"
	"clipfeed/app/tasks"
	"clipfeed/app/translate"
)

func main() {
	// Credentials live in .env during local runs; absence is fine in
	// containerized deployments where the environment is set directly.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Environment loaded from .env file")
	}

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting clipfeed", "version", cfg.GetVersion())

	feedConfig, err := config.Load(appCfg.ConfigFile)
	if err != nil {
		slog.Error("Failed to load pipeline configuration", "path", appCfg.ConfigFile, "error", err)
		os.Exit(1)
	}

	subscriptions, err := config.LoadOPML(appCfg.OPMLFile)
	if err != nil {
		slog.Error("Failed to load subscriptions", "path", appCfg.OPMLFile, "error", err)
		os.Exit(1)
	}
	if len(subscriptions) == 0 {
		slog.Error("No subscriptions found", "path", appCfg.OPMLFile)
		os.Exit(1)
	}
	slog.Info("Subscriptions loaded", "count", len(subscriptions))

	seen := cache.Load(appCfg.CacheFile)
	slog.Info("Article cache loaded", "entries", seen.Len())

	client := fetch.NewClient(time.Duration(appCfg.HTTPTimeout)*time.Second, appCfg.UserAgent)
	parser := feed.NewParser()
	extractor := extract.NewExtractor(extractOptions(*feedConfig), client)
	archiver := archive.NewWriter(appCfg.ArticlesDir)

	translator := buildTranslator(feedConfig.Translation)

	publisher, err := notion.NewPublisher(appCfg.NotionToken, appCfg.NotionDatabaseID)
	if err != nil {
		slog.Error("Failed to initialize Notion publisher", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := publisher.EnsureDatabase(ctx, appCfg.NotionPageID); err != nil {
		slog.Error("Failed to prepare Notion database", "error", err)
		os.Exit(1)
	}

	scheduler := tasks.NewScheduler(subscriptions, *feedConfig, client, parser,
		extractor, translator, publisher, archiver, seen,
		time.Duration(appCfg.PollInterval)*time.Second)

	if appCfg.RunOnce {
		slog.Info("Running single pass")
		if err := scheduler.RunOnce(ctx); err != nil {
			slog.Error("Run finished with errors", "error", err)
			saveCache(seen)
			os.Exit(1)
		}
		saveCache(seen)
		return
	}

	scheduler.Start()
	slog.Info("Scheduler started", "poll_interval", appCfg.PollInterval)

	<-ctx.Done()
	slog.Info("Shutting down")

	scheduler.Stop()
	saveCache(seen)
	slog.Info("Shutdown complete")
}

func extractOptions(feedConfig config.Config) extract.Options {
	opts := extract.DefaultOptions()
	opts.IncludeImages = feedConfig.IncludeImages
	opts.MaxContentLength = feedConfig.MaxContentLength
	opts.MinMeaningfulChars = feedConfig.Thresholds.MinMeaningfulChars
	opts.MinCharsWithImages = feedConfig.Thresholds.MinCharsWithImages
	opts.MinFallbackChars = feedConfig.Thresholds.MinFallbackChars
	return opts
}

// buildTranslator assembles the provider chain. Translation is optional:
// misconfigured providers disable it with a warning instead of stopping
// the pipeline.
func buildTranslator(translation config.Translation) translate.Provider {
	if !translation.Enabled {
		return nil
	}

	primary, err := translate.NewProvider(translation.Provider)
	if err != nil {
		slog.Warn("Translation disabled", "provider", translation.Provider, "error", err)
		return nil
	}

	var fallback translate.Provider
	if translation.FallbackProvider != "" {
		fallback, err = translate.NewProvider(translation.FallbackProvider)
		if err != nil {
			slog.Warn("Fallback translation provider unavailable",
				"provider", translation.FallbackProvider, "error", err)
		}
	}

	return translate.NewChain(primary, fallback)
}

func saveCache(seen *cache.SeenCache) {
	if _, err := seen.Save(); err != nil {
		slog.Error("Failed to save article cache", "error", err)
	}
}
