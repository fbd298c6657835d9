package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage and watchlist
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./feedmill.db" description:"Path to the SQLite database file"`
	FeedsDir string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing feed watchlist files"`

	// HTTP cache
	CacheDir string `long:"cache-dir" env:"CACHE_DIR" default:"./cache" description:"Directory for cached feed responses"`
	CacheTTL int    `long:"cache-ttl" env:"CACHE_TTL" default:"900" description:"Cache entry lifetime in seconds"`

	// Server and background processing
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Concurrent feed fetches (clamped to 1-10)"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"300" description:"Background refresh interval in seconds"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Outbound HTTP
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"feedmill/1.0" description:"User agent string for HTTP requests"`
	HTTPTimeout int    `long:"http-timeout" env:"HTTP_TIMEOUT" default:"30" description:"HTTP request timeout in seconds"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:          raw.DBPath,
		FeedsDir:        raw.FeedsDir,
		CacheDir:        raw.CacheDir,
		CacheTTL:        raw.CacheTTL,
		Port:            raw.Port,
		WorkerCount:     raw.WorkerCount,
		RefreshInterval: raw.RefreshInterval,
		APIAccessKey:    raw.APIAccessKey,
		UserAgent:       raw.UserAgent,
		HTTPTimeout:     raw.HTTPTimeout,
		Debug:           raw.Debug,
		Version:         GetVersion(),
		Args:            args,
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
