package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/feedmill/feedmill/app/config"
	"github.com/feedmill/feedmill/app/database"
	"github.com/feedmill/feedmill/app/feed"
)

const (
	DefaultWorkerCount = 3
	minWorkers         = 1
	maxWorkers         = 10
)

// Fetcher retrieves a feed body over the network.
type Fetcher interface {
	Run(ctx context.Context, url string) ([]byte, error)
}

// ResponseCache is a best-effort body cache keyed by URL.
type ResponseCache interface {
	Read(key string) ([]byte, bool)
	Write(key string, body []byte)
}

// Result is the outcome of analyzing one watched feed. Err is set when the
// fetch or parse failed; the other feeds are unaffected.
type Result struct {
	Name       string
	URL        string
	Feed       *feed.Feed
	FromCache  bool
	Stored     int
	Duplicates int
	Duration   time.Duration
	Err        error
}

// Analyzer runs the fetch-parse-store pipeline for a batch of watched feeds
// with a bounded number of concurrent workers. Cache and repositories are
// optional: with a nil cache every run hits the network, with nil
// repositories nothing is persisted.
type Analyzer struct {
	fetcher     Fetcher
	cache       ResponseCache
	parser      *feed.Parser
	extractor   *feed.ContentExtractor
	feedRepo    database.FeedRepository
	itemRepo    database.ItemRepository
	workerCount int
}

func New(fetcher Fetcher, cache ResponseCache, feedRepo database.FeedRepository,
	itemRepo database.ItemRepository, workerCount int) *Analyzer {
	if workerCount == 0 {
		workerCount = DefaultWorkerCount
	}
	if workerCount < minWorkers {
		workerCount = minWorkers
	}
	if workerCount > maxWorkers {
		workerCount = maxWorkers
	}

	return &Analyzer{
		fetcher:     fetcher,
		cache:       cache,
		parser:      feed.NewParser(),
		extractor:   feed.NewContentExtractor(),
		feedRepo:    feedRepo,
		itemRepo:    itemRepo,
		workerCount: workerCount,
	}
}

// Run analyzes all given feeds and returns one Result per feed, in input
// order. Feeds are processed concurrently; one feed's failure never aborts
// its siblings.
func (a *Analyzer) Run(ctx context.Context, configs []*config.FeedConfig) []Result {
	results := make([]Result, len(configs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = a.analyzeFeed(ctx, configs[idx])
			}
		}()
	}

	for i := range configs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (a *Analyzer) analyzeFeed(ctx context.Context, fc *config.FeedConfig) Result {
	result := Result{Name: fc.Name, URL: fc.URL}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	data, fromCache := a.loadBody(fc.URL)
	result.FromCache = fromCache
	if data == nil {
		fetched, err := a.fetcher.Run(ctx, fc.URL)
		if err != nil {
			result.Err = fmt.Errorf("failed to fetch feed: %w", err)
			return result
		}
		data = fetched
		if a.cache != nil {
			a.cache.Write(fc.URL, data)
		}
	}

	parsed, err := a.parser.Run(data)
	if err != nil {
		result.Err = fmt.Errorf("failed to parse feed: %w", err)
		return result
	}

	if fc.Settings.MaxItems > 0 && len(parsed.Items) > fc.Settings.MaxItems {
		parsed.Items = parsed.Items[:fc.Settings.MaxItems]
	}
	for i := range parsed.Items {
		parsed.Items[i].SourceFeed = fc.Name
	}

	if fc.Settings.ExtractContent {
		a.extractItemContent(ctx, parsed.Items)
	}

	result.Feed = parsed

	if a.feedRepo == nil || a.itemRepo == nil {
		return result
	}

	feedID, err := a.feedRepo.UpsertFeed(fc.Name, fc.URL)
	if err != nil {
		result.Err = fmt.Errorf("failed to register feed: %w", err)
		return result
	}

	if err := a.feedRepo.UpdateFeedMetadata(feedID, parsed); err != nil {
		result.Err = fmt.Errorf("failed to store feed metadata: %w", err)
		return result
	}

	for i, item := range parsed.Items {
		isDuplicate, err := a.itemRepo.CheckDuplicate(feedID, item.ContentHash)
		if err != nil {
			result.Err = fmt.Errorf("failed to check for duplicates: %w", err)
			return result
		}
		if isDuplicate {
			result.Duplicates++
			continue
		}

		if err := a.itemRepo.StoreItem(feedID, i, item); err != nil {
			result.Err = fmt.Errorf("failed to store item: %w", err)
			return result
		}
		result.Stored++
	}

	slog.Info("Feed analyzed",
		"feed", fc.Name,
		"items", len(parsed.Items),
		"stored", result.Stored,
		"duplicates", result.Duplicates,
		"from_cache", result.FromCache,
		"duration", result.Duration)

	return result
}

func (a *Analyzer) loadBody(url string) ([]byte, bool) {
	if a.cache == nil {
		return nil, false
	}
	if data, ok := a.cache.Read(url); ok {
		return data, true
	}
	return nil, false
}

// extractItemContent fetches each item's page and replaces teaser
// descriptions with readable article content. Extraction failures only cost
// that one item its content.
func (a *Analyzer) extractItemContent(ctx context.Context, items []feed.Item) {
	for i := range items {
		link := items[i].Link
		if link == "" {
			continue
		}

		page, err := a.fetcher.Run(ctx, link)
		if err != nil {
			slog.Debug("Failed to fetch item page", "link", link, "error", err)
			continue
		}

		content, err := a.extractor.Run(page, link)
		if err != nil {
			slog.Debug("Failed to extract content", "link", link, "error", err)
			continue
		}

		items[i].Metadata["content"] = content
	}
}
