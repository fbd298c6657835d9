package database

import (
	"database/sql"
	"encoding/json"
	"time"
)

// SQLite has no native time type; instants are stored as RFC 3339 strings in
// UTC, and the datetime('now') defaults produce "2006-01-02 15:04:05".
const sqliteTimeLayout = "2006-01-02 15:04:05"

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, ns.String); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse(sqliteTimeLayout, ns.String); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}

func decodeTimestamp(s string) time.Time {
	if t := decodeTime(sql.NullString{String: s, Valid: true}); t != nil {
		return *t
	}
	return time.Time{}
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	// Normalize nil slices so the column never holds "null".
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}

func decodeJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
