package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// HashQuery produces a stable cache key for a query string. Case and
// surrounding whitespace are normalized so "Oreo" and " oreo " share a key.
func HashQuery(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("%x", hash)
}
