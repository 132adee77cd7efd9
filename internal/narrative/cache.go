package narrative

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache provides file-based caching for generated narratives.
type Cache struct {
	dir    string
	maxAge time.Duration
}

// NewCache creates a narrative cache in the specified directory.
func NewCache(dir string) *Cache {
	if err := os.MkdirAll(dir, 0755); err != nil {
		// Cache is optional; generation still works without it.
		fmt.Printf("Warning: could not create narrative cache directory: %v\n", err)
	}
	return &Cache{
		dir:    dir,
		maxAge: 24 * time.Hour,
	}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".txt")
}

// Get retrieves a cached narrative if it exists and is not stale.
func (c *Cache) Get(key string) (string, bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > c.maxAge {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores a narrative in the cache.
func (c *Cache) Set(key, text string) error {
	return os.WriteFile(c.path(key), []byte(text), 0644)
}
