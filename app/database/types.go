package database

import (
	"time"

	"github.com/feedmill/feedmill/app/feed"
)

// Feed is a feed record as stored in the database.
type Feed struct {
	ID            int64
	Name          string
	FeedURL       string
	Title         string
	Description   string
	Link          string
	Language      string
	Copyright     string
	Author        string
	ImageURL      string
	PubDate       *time.Time
	LastBuildDate *time.Time
	Categories    []string
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item is a feed item record. Position preserves the document order of the
// source feed so regenerated output keeps item ordering.
type Item struct {
	ID          int64
	FeedID      int64
	GUID        string
	Title       string
	Description string
	Link        string
	Author      string
	PubDate     *time.Time
	Categories  []string
	Enclosures  []feed.Enclosure
	Content     string
	ContentHash string
	Position    int
	CreatedAt   time.Time
}
