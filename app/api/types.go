package api

import (
	"github.com/feedmill/feedmill/app/database"
	"github.com/feedmill/feedmill/app/feed"
)

type GeneratorInterface interface {
	Run(f *feed.Feed) string
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	feedRepo  database.FeedRepository
	itemRepo  database.ItemRepository
	generator GeneratorInterface
	maxItems  int
}
