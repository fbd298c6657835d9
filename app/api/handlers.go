package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedmill/feedmill/app/cfg"
	"github.com/feedmill/feedmill/app/database"
	"github.com/feedmill/feedmill/app/feed"
)

func NewHandler(feedRepo database.FeedRepository, itemRepo database.ItemRepository,
	maxItems int) *Handler {
	return &Handler{
		feedRepo:  feedRepo,
		itemRepo:  itemRepo,
		generator: feed.NewGenerator(),
		maxItems:  maxItems,
	}
}

// GetFeed regenerates a stored feed as RSS 2.0 XML.
func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	stored, err := h.feedRepo.GetFeed(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if stored == nil {
		c.Status(http.StatusNotFound)
		return
	}

	items, err := h.itemRepo.GetItems(stored.ID, h.maxItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss := h.generator.Run(toFeed(stored, items))

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": cfg.GetVersion(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	feedCount, err := h.feedRepo.GetFeedCount()
	if err != nil {
		slog.Error("Database error", "operation", "feed_count", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	itemCount, err := h.itemRepo.GetItemCount()
	if err != nil {
		slog.Error("Database error", "operation", "item_count", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feeds": feedCount,
		"items": itemCount,
	})
}

// ListFeeds returns registered feeds with their fetch state. Requires the
// API access key.
func (h *Handler) ListFeeds(c *gin.Context) {
	feeds, err := h.feedRepo.ListFeeds()
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	type feedInfo struct {
		Name        string     `json:"name"`
		URL         string     `json:"url"`
		Title       string     `json:"title"`
		LastFetched *time.Time `json:"last_fetched,omitempty"`
	}

	out := make([]feedInfo, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, feedInfo{
			Name:        f.Name,
			URL:         f.FeedURL,
			Title:       f.Title,
			LastFetched: f.LastFetchedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"feeds": out})
}

// toFeed rebuilds a feed value from its database records for regeneration.
func toFeed(stored *database.Feed, items []database.Item) *feed.Feed {
	f := &feed.Feed{
		Title:         stored.Title,
		Description:   stored.Description,
		Link:          stored.Link,
		Language:      stored.Language,
		Copyright:     stored.Copyright,
		Author:        stored.Author,
		ImageURL:      stored.ImageURL,
		PubDate:       stored.PubDate,
		LastBuildDate: stored.LastBuildDate,
		Categories:    stored.Categories,
		Format:        feed.FormatRSS2,
		Metadata:      map[string]any{},
	}

	f.Items = make([]feed.Item, 0, len(items))
	for _, item := range items {
		fi := feed.Item{
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			GUID:        item.GUID,
			Author:      item.Author,
			SourceFeed:  stored.Name,
			ContentHash: item.ContentHash,
			PubDate:     item.PubDate,
			Categories:  item.Categories,
			Enclosures:  item.Enclosures,
			Metadata:    map[string]any{},
		}
		if item.Content != "" {
			fi.Metadata["content"] = item.Content
		}
		f.Items = append(f.Items, fi)
	}

	return f
}
