package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContentHash derives a stable deduplication hash from an item's title,
// description and link. Empty members are skipped, the rest are trimmed and
// joined with "|" in fixed order, so the same triple always produces the
// same digest across runs and processes.
func ContentHash(title, description, link string) string {
	var parts []string
	for _, part := range []string{title, description, link} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
