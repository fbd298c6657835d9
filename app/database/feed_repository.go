package database

import (
	"database/sql"
	"fmt"

	"github.com/feedmill/feedmill/app/feed"
)

// FeedRepo handles database operations for feeds
type FeedRepo struct {
	db *DB
}

var _ FeedRepository = (*FeedRepo)(nil)

func NewFeedRepository(db *DB) *FeedRepo {
	return &FeedRepo{db: db}
}

// UpsertFeed registers a watched feed by name, updating its URL if the
// watchlist changed, and returns the database id.
func (r *FeedRepo) UpsertFeed(name, feedURL string) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO feeds (name, feed_url)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			feed_url = excluded.feed_url,
			updated_at = datetime('now')
		RETURNING id
	`, name, feedURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert feed: %w", err)
	}

	return id, nil
}

// UpdateFeedMetadata stores the channel-level fields of a parsed feed and
// stamps the fetch time.
func (r *FeedRepo) UpdateFeedMetadata(feedID int64, f *feed.Feed) error {
	categories, err := encodeJSON(f.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE feeds
		SET title = ?, description = ?, link = ?, language = ?, copyright = ?,
		    author = ?, image_url = ?, pub_date = ?, last_build_date = ?,
		    categories = ?, last_fetched_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ?
	`, f.Title, f.Description, f.Link, f.Language, f.Copyright,
		f.Author, f.ImageURL, encodeTime(f.PubDate), encodeTime(f.LastBuildDate),
		categories, feedID)
	if err != nil {
		return fmt.Errorf("failed to update feed metadata: %w", err)
	}

	return nil
}

// GetFeed returns the feed with the given watchlist name, or nil when it is
// not registered.
func (r *FeedRepo) GetFeed(name string) (*Feed, error) {
	row := r.db.QueryRow(`
		SELECT id, name, feed_url, title, description, link, language,
		       copyright, author, image_url, pub_date, last_build_date,
		       categories, last_fetched_at, created_at, updated_at
		FROM feeds
		WHERE name = ?
	`, name)

	f, err := scanFeed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return f, nil
}

// ListFeeds returns all registered feeds sorted by name.
func (r *FeedRepo) ListFeeds() ([]Feed, error) {
	rows, err := r.db.Query(`
		SELECT id, name, feed_url, title, description, link, language,
		       copyright, author, image_url, pub_date, last_build_date,
		       categories, last_fetched_at, created_at, updated_at
		FROM feeds
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed: %w", err)
		}
		feeds = append(feeds, *f)
	}

	return feeds, rows.Err()
}

func (r *FeedRepo) GetFeedCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM feeds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var f Feed
	var pubDate, lastBuildDate, lastFetchedAt sql.NullString
	var categories, createdAt, updatedAt string

	err := row.Scan(&f.ID, &f.Name, &f.FeedURL, &f.Title, &f.Description,
		&f.Link, &f.Language, &f.Copyright, &f.Author, &f.ImageURL,
		&pubDate, &lastBuildDate, &categories, &lastFetchedAt,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	f.PubDate = decodeTime(pubDate)
	f.LastBuildDate = decodeTime(lastBuildDate)
	f.LastFetchedAt = decodeTime(lastFetchedAt)
	f.CreatedAt = decodeTimestamp(createdAt)
	f.UpdatedAt = decodeTimestamp(updatedAt)

	if err := decodeJSON(categories, &f.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return &f, nil
}
