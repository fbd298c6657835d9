package database

import (
	"github.com/feedmill/feedmill/app/feed"
)

type FeedRepository interface {
	UpsertFeed(name, feedURL string) (int64, error)
	UpdateFeedMetadata(feedID int64, f *feed.Feed) error
	GetFeed(name string) (*Feed, error)
	ListFeeds() ([]Feed, error)
	GetFeedCount() (int, error)
}

type ItemRepository interface {
	CheckDuplicate(feedID int64, contentHash string) (bool, error)
	StoreItem(feedID int64, position int, item feed.Item) error
	GetItems(feedID int64, limit int) ([]Item, error)
	GetItemCount() (int, error)
}
