package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedmill/feedmill/app/analyze"
	"github.com/feedmill/feedmill/app/api"
	"github.com/feedmill/feedmill/app/cache"
	"github.com/feedmill/feedmill/app/cfg"
	"github.com/feedmill/feedmill/app/config"
	"github.com/feedmill/feedmill/app/database"
	"github.com/feedmill/feedmill/app/datetime"
	"github.com/feedmill/feedmill/app/feed"
	"github.com/feedmill/feedmill/app/fetch"
)

const usage = `usage: feedmill [options] <command>

commands:
  serve              run the feed server (default)
  fetch URL          fetch a feed, normalize it and print it as RSS 2.0
  analyze            fetch and store all watched feeds once
  validate [DATE...] check date/timezone resolution, sample set when no args
`

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	command := "serve"
	args := appCfg.Args
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		os.Exit(runServe(appCfg))
	case "fetch":
		os.Exit(runFetch(appCfg, args))
	case "analyze":
		os.Exit(runAnalyze(appCfg))
	case "validate":
		os.Exit(runValidate(args))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// runFetch fetches one feed, parses it and prints the normalized RSS 2.0
// rendition to stdout. Structural parse failures exit non-zero.
func runFetch(appCfg *cfg.Cfg, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "fetch requires exactly one URL\n\n%s", usage)
		return 2
	}
	url := args[0]

	client := fetch.NewClient(appCfg.UserAgent, time.Duration(appCfg.HTTPTimeout)*time.Second)

	data, err := client.Run(context.Background(), url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feedmill: %v\n", err)
		return 1
	}

	parsed, err := feed.NewParser().Run(data)
	if err != nil {
		var parseErr *feed.ParseError
		if errors.As(err, &parseErr) {
			fmt.Fprintf(os.Stderr, "feedmill: %s: %s\n", parseErr.Kind, parseErr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "feedmill: %v\n", err)
		}
		return 1
	}

	fmt.Print(feed.NewGenerator().Run(parsed))
	return 0
}

// runAnalyze processes the whole watchlist once and reports per-feed
// results. One feed failing does not stop the rest; the exit code reflects
// whether any feed failed.
func runAnalyze(appCfg *cfg.Cfg) int {
	configs, err := loadWatchlist(appCfg.FeedsDir)
	if err != nil {
		slog.Error("Failed to load watchlist", "error", err)
		return 1
	}
	if len(configs) == 0 {
		slog.Info("No enabled feeds in watchlist", "dir", appCfg.FeedsDir)
		return 0
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return 1
	}
	defer db.Close()

	if _, _, err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return 1
	}

	analyzer, err := newAnalyzer(appCfg, db)
	if err != nil {
		slog.Error("Failed to initialize analyzer", "error", err)
		return 1
	}

	results := analyzer.Run(context.Background(), configs)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			slog.Error("Feed analysis failed", "feed", result.Name, "url", result.URL, "error", result.Err)
			continue
		}
		fmt.Printf("%s: %d items (%d new, %d duplicates) in %s\n",
			result.Name, len(result.Feed.Items), result.Stored, result.Duplicates,
			result.Duration.Round(time.Millisecond))
	}

	if failed > 0 {
		slog.Error("Analysis finished with failures", "failed", failed, "total", len(results))
		return 1
	}
	return 0
}

// runValidate prints a timezone resolution report for the given date
// strings, or for a built-in sample set covering every supported zone kind.
func runValidate(args []string) int {
	inputs := args
	if len(inputs) == 0 {
		inputs = []string{
			"Thu, 28 Aug 2025 00:46:04 +0800",
			"Wed, 27 Aug 2025 12:00:00 -0500",
			"Wed, 27 Aug 2025 15:30:00 GMT",
			"Sat, 30 Aug 2025 09:15:00 JST",
			"Mon, 25 Aug 2025 08:00:00 PST",
			"Tue, 26 Aug 2025 23:59:59 XYZ",
		}
	}

	failed := 0
	for _, input := range inputs {
		result := datetime.Validate(input)

		status := "OK"
		if !result.Success {
			status = "FAIL"
			failed++
		}

		fmt.Printf("%-4s %s\n", status, result.Input)
		fmt.Printf("     zone: %s (%s)\n", result.Zone.Token, result.Zone.Description)
		if result.Parsed != nil {
			fmt.Printf("     parsed: %s\n", result.Parsed.Format(time.RFC3339))
		}
		if result.Error != "" {
			fmt.Printf("     error: %s\n", result.Error)
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}

// runServe is the long-running mode: background watchlist refresh plus the
// HTTP server exposing regenerated feeds.
func runServe(appCfg *cfg.Cfg) int {
	slog.Info("Starting feedmill server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return 1
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return 1
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration", version, "dirty", dirty)

	configs, err := loadWatchlist(appCfg.FeedsDir)
	if err != nil {
		slog.Error("Failed to load watchlist", "error", err)
		return 1
	}
	slog.Info("Watchlist loaded", "dir", appCfg.FeedsDir, "feeds", len(configs))

	feedRepo := database.NewFeedRepository(db)
	for _, fc := range configs {
		if _, err := feedRepo.UpsertFeed(fc.Name, fc.URL); err != nil {
			slog.Warn("Failed to register feed", "feed", fc.Name, "error", err)
		}
	}

	analyzer, err := newAnalyzer(appCfg, db)
	if err != nil {
		slog.Error("Failed to initialize analyzer", "error", err)
		return 1
	}

	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	defer cancelRefresh()
	go refreshLoop(refreshCtx, analyzer, configs, time.Duration(appCfg.RefreshInterval)*time.Second)

	handler := api.NewHandler(feedRepo, database.NewItemRepository(db), maxServedItems(configs))
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")
	cancelRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return 1
	}

	slog.Info("Shutdown complete")
	return 0
}

// refreshLoop reprocesses the watchlist on a fixed interval, starting with
// one immediate pass so the server has data to serve.
func refreshLoop(ctx context.Context, analyzer *analyze.Analyzer, configs []*config.FeedConfig, interval time.Duration) {
	run := func() {
		results := analyzer.Run(ctx, configs)
		for _, result := range results {
			if result.Err != nil {
				slog.Error("Feed refresh failed", "feed", result.Name, "error", result.Err)
			}
		}
	}

	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

func newAnalyzer(appCfg *cfg.Cfg, db *database.DB) (*analyze.Analyzer, error) {
	responseCache, err := cache.New(appCfg.CacheDir, time.Duration(appCfg.CacheTTL)*time.Second)
	if err != nil {
		return nil, err
	}

	client := fetch.NewClient(appCfg.UserAgent, time.Duration(appCfg.HTTPTimeout)*time.Second)

	return analyze.New(client, responseCache,
		database.NewFeedRepository(db), database.NewItemRepository(db),
		appCfg.WorkerCount), nil
}

func loadWatchlist(feedsDir string) ([]*config.FeedConfig, error) {
	configs, err := config.NewLoader(feedsDir).LoadAll()
	if err != nil {
		return nil, err
	}

	var enabled []*config.FeedConfig
	for _, fc := range configs {
		if fc.Settings.Enabled {
			enabled = append(enabled, fc)
		}
	}
	return enabled, nil
}

func maxServedItems(configs []*config.FeedConfig) int {
	max := 0
	for _, fc := range configs {
		if fc.Settings.MaxItems > max {
			max = fc.Settings.MaxItems
		}
	}
	if max == 0 {
		max = 100
	}
	return max
}
