// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kithkit/kithkit-core/skillerr"
)

func TestCache_FetchesOnceWithinTTL(t *testing.T) {
	t.Parallel()

	cache := NewCache(filepath.Join(t.TempDir(), "index-cache.json"), time.Hour)

	calls := 0
	fetch := func() (*Index, error) {
		calls++
		return searchIndex(), nil
	}

	idx, err := cache.Get(fetch)
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, 1, calls)

	again, err := cache.Get(fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "fresh cache must not re-fetch")
	assert.Equal(t, idx.Updated, again.Updated)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	cache := NewCache(filepath.Join(t.TempDir(), "index-cache.json"), time.Hour)

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	calls := 0
	fetch := func() (*Index, error) {
		calls++
		return searchIndex(), nil
	}

	_, err := cache.Get(fetch)
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	_, err = cache.Get(fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "stale cache must re-fetch")
}

func TestCache_FetchErrorIsFetchKind(t *testing.T) {
	t.Parallel()

	cache := NewCache(filepath.Join(t.TempDir(), "index-cache.json"), time.Hour)

	_, err := cache.Get(func() (*Index, error) {
		return nil, errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, skillerr.Fetch, skillerr.KindOf(err))
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	cache := NewCache(filepath.Join(t.TempDir(), "index-cache.json"), time.Hour)

	calls := 0
	fetch := func() (*Index, error) {
		calls++
		return searchIndex(), nil
	}

	_, err := cache.Get(fetch)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate())

	_, err = cache.Get(fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// Invalidating a missing file is fine.
	require.NoError(t, cache.Invalidate())
	require.NoError(t, cache.Invalidate())
}

func TestCache_CorruptFileTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index-cache.json")
	cache := NewCache(path, time.Hour)

	require.NoError(t, writeFile(path, []byte("not json")))

	calls := 0
	_, err := cache.Get(func() (*Index, error) {
		calls++
		return searchIndex(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
