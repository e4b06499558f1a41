// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kithkit/kithkit-core/skillerr"
)

func TestCheckForUpdate(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, map[string][]string{"weather-check": {"1.0.0", "1.1.0"}})

	// Not installed yet.
	check := CheckForUpdate(reg.skillsDir, "weather-check", reg.index)
	assert.False(t, check.Installed)
	assert.False(t, check.HasUpdate)

	opts := reg.options("weather-check")
	opts.Version = "1.0.0"
	_, err := Install(context.Background(), opts)
	require.NoError(t, err)

	check = CheckForUpdate(reg.skillsDir, "weather-check", reg.index)
	assert.True(t, check.Installed)
	assert.Equal(t, "1.0.0", check.CurrentVersion)
	assert.Equal(t, "1.1.0", check.LatestVersion)
	assert.True(t, check.HasUpdate)

	// Not in index.
	check = CheckForUpdate(reg.skillsDir, "unknown", reg.index)
	assert.False(t, check.HasUpdate)
}

func TestUpdate_PreservesConfig(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, map[string][]string{"weather-check": {"1.0.0", "1.1.0"}})

	opts := reg.options("weather-check")
	opts.Version = "1.0.0"
	_, err := Install(context.Background(), opts)
	require.NoError(t, err)

	// User edits their config.
	userConfig := []byte(`{"api_key": "secret-value", "units": "imperial"}` + "\n")
	require.NoError(t, os.WriteFile(ConfigPath(reg.skillsDir, "weather-check"), userConfig, 0o644))

	result, err := Update(context.Background(), reg.options("weather-check"))
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, "1.1.0", result.Version)
	assert.True(t, result.ConfigPreserved)

	restored, err := os.ReadFile(ConfigPath(reg.skillsDir, "weather-check"))
	require.NoError(t, err)
	assert.Equal(t, userConfig, restored, "user config bytes must survive the update verbatim")

	meta, err := ReadMetadata(reg.skillsDir, "weather-check")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", meta.Version)
}

func TestUpdate_AlreadyLatest(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, map[string][]string{"weather-check": {"1.0.0"}})

	_, err := Install(context.Background(), reg.options("weather-check"))
	require.NoError(t, err)

	result, err := Update(context.Background(), reg.options("weather-check"))
	require.NoError(t, err, "no newer version is not an error")
	assert.False(t, result.Updated)
	assert.Equal(t, "1.0.0", result.Version)
}

func TestUpdate_NotInstalled(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, map[string][]string{"weather-check": {"1.0.0"}})

	_, err := Update(context.Background(), reg.options("weather-check"))
	assert.Equal(t, skillerr.NotInstalled, skillerr.KindOf(err))
}

func TestUninstall_BacksUpConfig(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, map[string][]string{"weather-check": {"1.0.0"}})

	_, err := Install(context.Background(), reg.options("weather-check"))
	require.NoError(t, err)

	userConfig := []byte(`{"api_key": "keep-me"}` + "\n")
	require.NoError(t, os.WriteFile(ConfigPath(reg.skillsDir, "weather-check"), userConfig, 0o644))

	result, err := Uninstall(reg.skillsDir, "weather-check")
	require.NoError(t, err)
	assert.True(t, result.ConfigBackedUp)
	assert.NoDirExists(t, InstallDir(reg.skillsDir, "weather-check"))

	backup, err := RestoreBackup(reg.skillsDir, "weather-check")
	require.NoError(t, err)
	assert.Equal(t, userConfig, backup)
}

func TestUninstall_NotInstalled(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, map[string][]string{"weather-check": {"1.0.0"}})

	_, err := Uninstall(reg.skillsDir, "weather-check")
	assert.Equal(t, skillerr.NotInstalled, skillerr.KindOf(err))
}

func TestRestoreBackup_NoBackup(t *testing.T) {
	t.Parallel()

	data, err := RestoreBackup(t.TempDir(), "anything")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestList(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, map[string][]string{
		"weather-check": {"1.0.0", "1.1.0"},
		"calendar-sync": {"2.0.0"},
	})

	opts := reg.options("weather-check")
	opts.Version = "1.0.0"
	_, err := Install(context.Background(), opts)
	require.NoError(t, err)
	_, err = Install(context.Background(), reg.options("calendar-sync"))
	require.NoError(t, err)

	// Hidden directories and metadata-less directories are skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(reg.skillsDir, ".cache"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(reg.skillsDir, "stray-dir"), 0o750))

	entries, err := List(reg.skillsDir, reg.index)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]ListEntry{}
	for _, e := range entries {
		byName[e.Metadata.Name] = e
	}
	assert.True(t, byName["weather-check"].HasUpdate)
	assert.Equal(t, "1.1.0", byName["weather-check"].LatestVersion)
	assert.False(t, byName["calendar-sync"].HasUpdate)
}

func TestList_MissingSkillsDir(t *testing.T) {
	t.Parallel()

	entries, err := List(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
