package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

func Load(path string) (*Config, error) {
	config := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Warn("Pipeline config not found, using defaults", "path", path)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(config)

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	slog.Debug("Pipeline configuration loaded", "path", path,
		"extractor", config.Extractor,
		"translation", config.Translation.Enabled)

	return config, nil
}

func defaults() *Config {
	return &Config{
		Extractor:          "dom",
		IncludeImages:      true,
		MaxContentLength:   50000,
		MaxArticlesPerFeed: 20,
		Translation: Translation{
			Provider:         "nvidia",
			FallbackProvider: "gemini",
		},
		Thresholds: Thresholds{
			MinMeaningfulChars: 40,
			MinCharsWithImages: 120,
			MinFallbackChars:   200,
		},
	}
}

func setDefaults(config *Config) {
	if config.Extractor == "" {
		config.Extractor = "dom"
	}
	if config.MaxContentLength == 0 {
		config.MaxContentLength = 50000
	}
	if config.MaxArticlesPerFeed == 0 {
		config.MaxArticlesPerFeed = 20
	}
	if config.Translation.Provider == "" {
		config.Translation.Provider = "nvidia"
	}
	if config.Translation.FallbackProvider == "" {
		config.Translation.FallbackProvider = "gemini"
	}
	if config.Thresholds.MinMeaningfulChars == 0 {
		config.Thresholds.MinMeaningfulChars = 40
	}
	if config.Thresholds.MinCharsWithImages == 0 {
		config.Thresholds.MinCharsWithImages = 120
	}
	if config.Thresholds.MinFallbackChars == 0 {
		config.Thresholds.MinFallbackChars = 200
	}
}

func validate(config *Config) error {
	switch config.Extractor {
	case "dom", "readability":
	default:
		return fmt.Errorf("unknown extractor: %s", config.Extractor)
	}
	if config.MaxContentLength < 0 {
		return fmt.Errorf("max content length must be non-negative")
	}
	if config.MaxArticlesPerFeed < 0 {
		return fmt.Errorf("max articles per feed must be non-negative")
	}
	if config.MinScoreThreshold < 0 {
		return fmt.Errorf("min score threshold must be non-negative")
	}
	return nil
}
