// Package themes caches the backend's theme catalog.
package themes

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mithrel/mdslides/pkg/api"
)

type Fetcher interface {
	FetchThemes(ctx context.Context) (map[string]api.Theme, error)
}

// Catalog is read-mostly: Load swaps the whole map, readers never see a
// partial merge. Safe for concurrent use.
type Catalog struct {
	src Fetcher
	log zerolog.Logger

	mu     sync.RWMutex
	themes map[string]api.Theme
	loaded bool
}

func NewCatalog(src Fetcher, log zerolog.Logger) *Catalog {
	return &Catalog{src: src, log: log, themes: map[string]api.Theme{}}
}

// Load fetches the catalog and replaces the cached one. On failure the
// previous contents stay in place; the error is logged and returned so
// callers may ignore it.
func (c *Catalog) Load(ctx context.Context) error {
	fetched, err := c.src.FetchThemes(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("themes: load failed; keeping previous catalog")
		return err
	}
	next := make(map[string]api.Theme, len(fetched))
	for k, t := range fetched {
		t.Key = k
		next[k] = t
	}
	c.mu.Lock()
	c.themes = next
	c.loaded = true
	c.mu.Unlock()
	c.log.Debug().Int("count", len(next)).Msg("themes: loaded")
	return nil
}

func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.themes)
}

func (c *Catalog) Get(key string) (api.Theme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.themes[key]
	return t, ok
}

// Name returns the display name for key, falling back to the key itself.
func (c *Catalog) Name(key string) string {
	if t, ok := c.Get(key); ok && t.Name != "" {
		return t.Name
	}
	return key
}

// Keys returns the theme keys in lexical order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.themes))
	for k := range c.themes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns the themes ordered by key.
func (c *Catalog) List() []api.Theme {
	keys := c.Keys()
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Theme, 0, len(keys))
	for _, k := range keys {
		if t, ok := c.themes[k]; ok {
			out = append(out, t)
		}
	}
	return out
}
