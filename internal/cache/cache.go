// Package cache memoizes per-file line counts by content hash so unchanged
// files are not classified again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is safe for concurrent use. A nil *Cache never hits.
type Cache struct {
	entries *lru.Cache[string, int]
}

// New returns a cache holding up to size counts, or nil when size <= 0.
func New(size int) (*Cache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, err := lru.New[string, int](size)
	if err != nil {
		return nil, fmt.Errorf("create count cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Key identifies a count by file content, language and mode.
func Key(content []byte, language string, strict bool) string {
	h := sha256.New()
	h.Write(content)
	fmt.Fprintf(h, "\x00%s\x00%t", language, strict)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) Get(key string) (int, bool) {
	if c == nil {
		return 0, false
	}
	return c.entries.Get(key)
}

func (c *Cache) Add(key string, count int) {
	if c == nil {
		return
	}
	c.entries.Add(key, count)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
