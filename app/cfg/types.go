package cfg

type Cfg struct {
	// Storage and watchlist
	DBPath   string
	FeedsDir string

	// HTTP cache
	CacheDir string
	CacheTTL int // seconds

	// Server and background processing
	Port            string
	WorkerCount     int
	RefreshInterval int // seconds
	APIAccessKey    string

	// Outbound HTTP
	UserAgent   string
	HTTPTimeout int // seconds

	// Application metadata
	Debug   bool
	Version string

	// Remaining positional arguments (subcommand and its operands)
	Args []string
}
