package cfg

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

type rawCfg struct {
	// Pipeline configuration
	ConfigFile  string `long:"config" env:"CONFIG_FILE" default:"./config.yml" description:"Pipeline configuration file"`
	OPMLFile    string `long:"opml" env:"OPML_FILE" default:"./subscriptions.opml" description:"OPML file with feed subscriptions"`
	CacheFile   string `long:"cache-file" env:"CACHE_FILE" default:"./article_cache.json" description:"Seen-article cache file"`
	ArticlesDir string `long:"articles-dir" env:"ARTICLES_DIR" default:"./articles" description:"Directory for the local Markdown archive"`

	// Scheduling
	PollInterval int  `long:"poll-interval" env:"POLL_INTERVAL" default:"1800" description:"Feed poll interval in seconds"`
	RunOnce      bool `long:"once" env:"RUN_ONCE" description:"Process all feeds once and exit"`

	// HTTP
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" description:"User agent string for HTTP requests"`
	HTTPTimeout int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"HTTP request timeout in seconds"`

	// Notion sink
	NotionToken      string `long:"notion-token" env:"NOTION_TOKEN" description:"Notion integration token (empty disables publishing)"`
	NotionDatabaseID string `long:"notion-database-id" env:"NOTION_DATABASE_ID" description:"Existing Notion database ID"`
	NotionPageID     string `long:"notion-page-id" env:"NOTION_PAGE_ID" description:"Parent page ID used when creating a new database"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		ConfigFile:       raw.ConfigFile,
		OPMLFile:         raw.OPMLFile,
		CacheFile:        raw.CacheFile,
		ArticlesDir:      raw.ArticlesDir,
		PollInterval:     raw.PollInterval,
		RunOnce:          raw.RunOnce,
		UserAgent:        raw.UserAgent,
		HTTPTimeout:      raw.HTTPTimeout,
		NotionToken:      raw.NotionToken,
		NotionDatabaseID: raw.NotionDatabaseID,
		NotionPageID:     raw.NotionPageID,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
