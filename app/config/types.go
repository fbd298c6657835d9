package config

// FeedConfig is one watched feed, loaded from a YAML file in the feeds
// directory. Name is derived from the filename (without extension).
type FeedConfig struct {
	Name     string
	URL      string       `yaml:"url"`
	Settings FeedSettings `yaml:"settings"`
}

// FeedSettings contains per-feed processing settings.
type FeedSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"` // seconds
	ExtractContent  bool `yaml:"extract_content"`
}
