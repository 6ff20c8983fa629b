package discord

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const globalScope = "global"

// hashCache remembers the definition hash of every command last pushed to
// Discord, one JSON file per scope (guild ID or "global").
type hashCache struct {
	dir string
	mu  sync.Mutex
}

func newHashCache(dir string) *hashCache {
	return &hashCache{dir: dir}
}

func scopeName(guildID string) string {
	if guildID == "" {
		return globalScope
	}
	return guildID
}

// path returns the path to the scope's cache file
func (c *hashCache) path(guildID string) string {
	return filepath.Join(c.dir, scopeName(guildID)+".json")
}

// load loads the scope's hashes; a missing or corrupt file reads as empty.
func (c *hashCache) load(guildID string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := make(map[string]string)
	if c.dir == "" {
		return data
	}
	if file, err := os.ReadFile(c.path(guildID)); err == nil {
		_ = json.Unmarshal(file, &data)
	}
	return data
}

// save saves the scope's hashes
func (c *hashCache) save(guildID string, hashes map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dir == "" {
		return nil
	}
	path := c.path(guildID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
