// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kithkit/kithkit-core/skillerr"
)

// DefaultCacheTTL is how long a fetched index stays fresh on disk.
const DefaultCacheTTL = 1 * time.Hour

// Cache holds one signed index on local disk with a freshness TTL.
// Freshness never substitutes for verification: callers re-verify the
// index signature after every Get.
type Cache struct {
	// Path is the cache file location.
	Path string
	// TTL is the freshness window. Zero means DefaultCacheTTL.
	TTL time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewCache creates a cache at the given file path.
func NewCache(path string, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{Path: path, TTL: ttl, now: time.Now}
}

// cacheFile is the persisted shape.
type cacheFile struct {
	FetchedAt time.Time `json:"fetched_at"`
	Index     *Index    `json:"index"`
}

// Get returns the cached index when fresh, otherwise calls fetch,
// persists the result, and returns it.
func (c *Cache) Get(fetch func() (*Index, error)) (*Index, error) {
	if idx := c.fresh(); idx != nil {
		return idx, nil
	}

	idx, err := fetch()
	if err != nil {
		return nil, skillerr.WithKind(fmt.Errorf("fetching index: %w", err), skillerr.Fetch)
	}

	if err := c.persist(idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Invalidate removes the cache file. A missing file is not an error.
func (c *Cache) Invalidate() error {
	if err := os.Remove(c.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return skillerr.WithKind(err, skillerr.IO)
	}
	return nil
}

func (c *Cache) fresh() *Index {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil || cf.Index == nil {
		// Corrupt cache files are treated as absent.
		return nil
	}
	if c.now().Sub(cf.FetchedAt) >= c.TTL {
		return nil
	}
	return cf.Index
}

func (c *Cache) persist(idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o750); err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	data, err := json.Marshal(cacheFile{FetchedAt: c.now(), Index: idx})
	if err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	if err := os.WriteFile(c.Path, data, 0o600); err != nil {
		return skillerr.WithKind(err, skillerr.IO)
	}
	return nil
}
