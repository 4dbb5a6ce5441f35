package cfg

type Cfg struct {
	// Pipeline configuration
	ConfigFile  string
	OPMLFile    string
	CacheFile   string
	ArticlesDir string

	// Scheduling
	PollInterval int
	RunOnce      bool

	// HTTP
	UserAgent   string
	HTTPTimeout int

	// Notion sink
	NotionToken      string
	NotionDatabaseID string
	NotionPageID     string

	// Application metadata
	Debug   bool
	Version string
}
