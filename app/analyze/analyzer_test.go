package analyze

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/feedmill/feedmill/app/config"
	"github.com/feedmill/feedmill/app/fetch"
)

const sampleRSS = `<rss version="2.0"><channel>
  <title>Sample Feed</title>
  <link>https://example.com</link>
  <description>Sample</description>
  <item><title>One</title><link>https://example.com/1</link><description>First</description></item>
  <item><title>Two</title><link>https://example.com/2</link><description>Second</description></item>
  <item><title>Three</title><link>https://example.com/3</link><description>Third</description></item>
</channel></rss>`

func feedConfig(name, url string) *config.FeedConfig {
	return &config.FeedConfig{
		Name: name,
		URL:  url,
		Settings: config.FeedSettings{
			Enabled:  true,
			MaxItems: 100,
			Timeout:  5,
		},
	}
}

func TestWorkerCountClamping(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultWorkerCount},
		{-5, 1},
		{1, 1},
		{7, 7},
		{25, 10},
	}

	for _, tt := range tests {
		a := New(nil, nil, nil, nil, tt.input)
		if a.workerCount != tt.expected {
			t.Errorf("Worker count %d: expected %d, got %d", tt.input, tt.expected, a.workerCount)
		}
	}
}

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer server.Close()

	client := fetch.NewClient("feedmill/test", 5*time.Second)
	analyzer := New(client, nil, nil, nil, 2)

	results := analyzer.Run(context.Background(), []*config.FeedConfig{
		feedConfig("sample", server.URL),
	})

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got: %d", len(results))
	}
	result := results[0]
	if result.Err != nil {
		t.Fatalf("Expected no error, got: %v", result.Err)
	}
	if result.Feed == nil || result.Feed.Title != "Sample Feed" {
		t.Error("Expected parsed feed")
	}
	if len(result.Feed.Items) != 3 {
		t.Errorf("Expected 3 items, got: %d", len(result.Feed.Items))
	}
	for _, item := range result.Feed.Items {
		if item.SourceFeed != "sample" {
			t.Errorf("Expected source feed 'sample', got: %s", item.SourceFeed)
		}
	}
	if result.FromCache {
		t.Error("Expected result not to come from cache")
	}
}

func TestAnalyzeFailureIsolation(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/notxml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	})

	client := fetch.NewClient("feedmill/test", 5*time.Second)
	analyzer := New(client, nil, nil, nil, 3)

	results := analyzer.Run(context.Background(), []*config.FeedConfig{
		feedConfig("good", server.URL+"/good"),
		feedConfig("broken", server.URL+"/broken"),
		feedConfig("notxml", server.URL+"/notxml"),
	})

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got: %d", len(results))
	}

	// Results come back in input order regardless of worker scheduling.
	if results[0].Name != "good" || results[1].Name != "broken" || results[2].Name != "notxml" {
		t.Errorf("Expected results in input order, got: %s, %s, %s",
			results[0].Name, results[1].Name, results[2].Name)
	}

	if results[0].Err != nil {
		t.Errorf("Expected healthy feed to succeed, got: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("Expected HTTP 500 feed to fail")
	}
	if results[2].Err == nil {
		t.Error("Expected unparseable feed to fail")
	}
}

func TestAnalyzeMaxItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer server.Close()

	client := fetch.NewClient("feedmill/test", 5*time.Second)
	analyzer := New(client, nil, nil, nil, 1)

	fc := feedConfig("truncated", server.URL)
	fc.Settings.MaxItems = 2

	results := analyzer.Run(context.Background(), []*config.FeedConfig{fc})

	if results[0].Err != nil {
		t.Fatalf("Expected no error, got: %v", results[0].Err)
	}
	if len(results[0].Feed.Items) != 2 {
		t.Errorf("Expected 2 items after truncation, got: %d", len(results[0].Feed.Items))
	}
	if results[0].Feed.Items[0].Title != "One" {
		t.Errorf("Expected truncation to keep leading items, got: %s", results[0].Feed.Items[0].Title)
	}
}

type stubCache struct {
	entries map[string][]byte
	writes  int
}

func (s *stubCache) Read(key string) ([]byte, bool) {
	data, ok := s.entries[key]
	return data, ok
}

func (s *stubCache) Write(key string, body []byte) {
	s.writes++
	s.entries[key] = body
}

type failingFetcher struct{}

func (failingFetcher) Run(ctx context.Context, url string) ([]byte, error) {
	return nil, fmt.Errorf("network unavailable")
}

func TestAnalyzeCacheHit(t *testing.T) {
	cache := &stubCache{entries: map[string][]byte{
		"https://example.com/feed.xml": []byte(sampleRSS),
	}}

	// The fetcher always fails, so success proves the body came from cache.
	analyzer := New(failingFetcher{}, cache, nil, nil, 1)

	results := analyzer.Run(context.Background(), []*config.FeedConfig{
		feedConfig("cached", "https://example.com/feed.xml"),
	})

	if results[0].Err != nil {
		t.Fatalf("Expected cache hit to succeed, got: %v", results[0].Err)
	}
	if !results[0].FromCache {
		t.Error("Expected result to be marked as cached")
	}
	if results[0].Feed.Title != "Sample Feed" {
		t.Errorf("Expected cached feed to parse, got title: %s", results[0].Feed.Title)
	}
}

func TestAnalyzeCacheWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer server.Close()

	cache := &stubCache{entries: map[string][]byte{}}
	client := fetch.NewClient("feedmill/test", 5*time.Second)
	analyzer := New(client, cache, nil, nil, 1)

	results := analyzer.Run(context.Background(), []*config.FeedConfig{
		feedConfig("fresh", server.URL),
	})

	if results[0].Err != nil {
		t.Fatalf("Expected no error, got: %v", results[0].Err)
	}
	if cache.writes != 1 {
		t.Errorf("Expected fetched body to be cached once, got %d writes", cache.writes)
	}
}
