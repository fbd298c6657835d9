package feed

import (
	"strings"
	"time"
)

// Format identifies the syndication format a feed was parsed from.
type Format string

const (
	FormatRSS2     Format = "rss2"
	FormatAtom     Format = "atom"
	FormatJSONFeed Format = "jsonfeed"
	FormatUnknown  Format = "unknown"
)

// DisplayName returns a human-readable name for the format.
func (f Format) DisplayName() string {
	switch f {
	case FormatRSS2:
		return "RSS 2.0"
	case FormatAtom:
		return "Atom"
	case FormatJSONFeed:
		return "JSON Feed"
	default:
		return "Unknown"
	}
}

// Feed is the in-memory representation of a parsed feed. Optional string
// fields use "" for absent and optional dates use nil, matching how the
// values come off the wire. A Feed is not mutated after construction;
// consumers that need a changed feed build a new value.
type Feed struct {
	Title       string
	Description string
	Link        string
	Language    string
	Copyright   string
	Author      string
	ImageURL    string

	PubDate       *time.Time
	LastBuildDate *time.Time

	Categories []string
	Items      []Item

	Format   Format
	Metadata map[string]any
}

// Item is a single entry of a feed. Items keep the document order of their
// source; ContentHash is derived from title, description and link.
type Item struct {
	Title       string
	Description string
	Link        string
	GUID        string
	Author      string
	SourceFeed  string
	ContentHash string

	PubDate *time.Time

	Categories []string
	Enclosures []Enclosure

	Metadata map[string]any
}

// Enclosure describes one media attachment of an item. URL, Type and Length
// come from RSS <enclosure> elements; the remaining fields exist for richer
// formats and stay zero for RSS input. Length 0 means unknown.
type Enclosure struct {
	URL    string
	Type   string
	Length int64

	Title       string
	Description string
	Width       int
	Height      int
	Duration    int // seconds
}

func (e Enclosure) IsImage() bool {
	return strings.HasPrefix(e.Type, "image/")
}

func (e Enclosure) IsVideo() bool {
	return strings.HasPrefix(e.Type, "video/")
}

func (e Enclosure) IsAudio() bool {
	return strings.HasPrefix(e.Type, "audio/")
}
