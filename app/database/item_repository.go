package database

import (
	"cmp"
	"database/sql"
	"fmt"

	"github.com/feedmill/feedmill/app/feed"
)

// ItemRepo handles database operations for feed items
type ItemRepo struct {
	db *DB
}

var _ ItemRepository = (*ItemRepo)(nil)

func NewItemRepository(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// CheckDuplicate reports whether an item with the given content hash is
// already stored for the feed.
func (r *ItemRepo) CheckDuplicate(feedID int64, contentHash string) (bool, error) {
	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM items WHERE feed_id = ? AND content_hash = ? LIMIT 1
	`, feedID, contentHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}

	return true, nil
}

// StoreItem upserts an item keyed by (feed_id, guid); items without a guid
// fall back to link, then content hash. Position records document order.
func (r *ItemRepo) StoreItem(feedID int64, position int, item feed.Item) error {
	categories, err := encodeJSON(item.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	enclosures, err := encodeJSON(item.Enclosures)
	if err != nil {
		return fmt.Errorf("failed to encode enclosures: %w", err)
	}

	guid := cmp.Or(item.GUID, item.Link, item.ContentHash)

	var content string
	if c, ok := item.Metadata["content"].(string); ok {
		content = c
	}

	_, err = r.db.Exec(`
		INSERT INTO items (
			feed_id, guid, title, description, link, author, pub_date,
			categories, enclosures, content, content_hash, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (feed_id, guid) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			link = excluded.link,
			author = excluded.author,
			pub_date = excluded.pub_date,
			categories = excluded.categories,
			enclosures = excluded.enclosures,
			content = excluded.content,
			content_hash = excluded.content_hash,
			position = excluded.position
	`, feedID, guid, item.Title, item.Description, item.Link, item.Author,
		encodeTime(item.PubDate), categories, enclosures, content,
		item.ContentHash, position)
	if err != nil {
		return fmt.Errorf("failed to store item: %w", err)
	}

	return nil
}

// GetItems returns a feed's items in document order. A limit of 0 means all.
func (r *ItemRepo) GetItems(feedID int64, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = -1 // SQLite: negative LIMIT means unlimited
	}

	rows, err := r.db.Query(`
		SELECT id, feed_id, guid, title, description, link, author, pub_date,
		       categories, enclosures, content, content_hash, position, created_at
		FROM items
		WHERE feed_id = ?
		ORDER BY position ASC, id ASC
		LIMIT ?
	`, feedID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var pubDate sql.NullString
		var categories, enclosures, createdAt string

		err := rows.Scan(&item.ID, &item.FeedID, &item.GUID, &item.Title,
			&item.Description, &item.Link, &item.Author, &pubDate,
			&categories, &enclosures, &item.Content, &item.ContentHash,
			&item.Position, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		item.PubDate = decodeTime(pubDate)
		item.CreatedAt = decodeTimestamp(createdAt)

		if err := decodeJSON(categories, &item.Categories); err != nil {
			return nil, fmt.Errorf("failed to decode categories: %w", err)
		}
		if err := decodeJSON(enclosures, &item.Enclosures); err != nil {
			return nil, fmt.Errorf("failed to decode enclosures: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *ItemRepo) GetItemCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
