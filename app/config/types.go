package config

// firstNonEmpty returns the first of its arguments that is not the empty
// string, or "" if all are empty (stand-in for cmp.Or on Go < 1.22).
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Config is the pipeline configuration loaded from config.yml.
type Config struct {
	Extractor          string      `yaml:"extractor"`
	IncludeImages      bool        `yaml:"include_images"`
	MaxContentLength   int         `yaml:"max_content_length"`
	MaxArticlesPerFeed int         `yaml:"max_articles_per_feed"`
	MinScoreThreshold  int         `yaml:"min_score_threshold"`
	Translation        Translation `yaml:"translation"`
	Thresholds         Thresholds  `yaml:"thresholds"`
}

type Translation struct {
	Enabled          bool   `yaml:"enabled"`
	Provider         string `yaml:"provider"`
	FallbackProvider string `yaml:"fallback_provider"`
}

// Thresholds are the empirically tuned extraction constants. They are
// configuration, not invariants; the pattern lists grow over time and
// these numbers move with them.
type Thresholds struct {
	MinMeaningfulChars int `yaml:"min_meaningful_chars"`
	MinCharsWithImages int `yaml:"min_chars_with_images"`
	MinFallbackChars   int `yaml:"min_fallback_chars"`
}

// Subscription is a single feed from the OPML file.
type Subscription struct {
	Text     string
	Title    string
	URL      string
	Type     string
	Category string
}

// Name returns the display name of the subscription, falling back to the
// feed URL when the OPML entry carries no label.
func (s Subscription) Name() string {
	return firstNonEmpty(s.Title, s.Text, s.URL)
}
