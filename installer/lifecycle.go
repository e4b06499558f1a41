// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/kithkit/kithkit-core/catalog"
	"github.com/kithkit/kithkit-core/logger"
	"github.com/kithkit/kithkit-core/skillerr"
)

// UpdateCheck compares an installed skill against the index.
type UpdateCheck struct {
	Name           string `json:"name"`
	Installed      bool   `json:"installed"`
	CurrentVersion string `json:"current_version,omitempty"`
	LatestVersion  string `json:"latest_version,omitempty"`
	HasUpdate      bool   `json:"has_update"`
}

// CheckForUpdate never errors for a skill that is not installed or not in
// the index; it reports HasUpdate false instead.
func CheckForUpdate(skillsDir, name string, idx *catalog.Index) UpdateCheck {
	check := UpdateCheck{Name: name}

	meta, err := ReadMetadata(skillsDir, name)
	if err != nil || meta == nil {
		return check
	}
	check.Installed = true
	check.CurrentVersion = meta.Version

	if idx == nil {
		return check
	}
	entry := idx.Entry(name)
	if entry == nil {
		return check
	}
	check.LatestVersion = entry.Latest
	check.HasUpdate = entry.Latest != meta.Version && catalog.IsNewer(entry.Latest, meta.Version)
	return check
}

// UpdateResult reports the outcome of an update attempt.
type UpdateResult struct {
	Name string `json:"name"`
	// Updated is false when the installed version is already the latest.
	Updated         bool   `json:"updated"`
	Version         string `json:"version"`
	ConfigPreserved bool   `json:"config_preserved"`
}

// Update reinstalls a skill at its latest version, preserving the user's
// config file bytes verbatim. When no newer version exists the call
// succeeds with Updated false and the current version.
func Update(ctx context.Context, opts Options) (*UpdateResult, error) {
	check := CheckForUpdate(opts.SkillsDir, opts.Name, opts.Index)
	if !check.Installed {
		return nil, skillerr.New(skillerr.NotInstalled, "skill %q is not installed", opts.Name)
	}
	if !check.HasUpdate {
		return &UpdateResult{Name: opts.Name, Updated: false, Version: check.CurrentVersion}, nil
	}

	configPath := ConfigPath(opts.SkillsDir, opts.Name)
	configBytes, err := os.ReadFile(configPath)
	hadConfig := err == nil

	installDir := InstallDir(opts.SkillsDir, opts.Name)
	if err := os.RemoveAll(installDir); err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}

	opts.Version = check.LatestVersion
	result, err := Install(ctx, opts)
	if err != nil {
		return nil, err
	}

	if hadConfig {
		if err := os.WriteFile(configPath, configBytes, 0o644); err != nil {
			return nil, skillerr.WithKind(err, skillerr.IO)
		}
	}

	logger.Infow("updated skill", "name", opts.Name, "from", check.CurrentVersion, "to", result.Version)
	return &UpdateResult{
		Name:            opts.Name,
		Updated:         true,
		Version:         result.Version,
		ConfigPreserved: hadConfig,
	}, nil
}

// UninstallResult reports the outcome of an uninstall.
type UninstallResult struct {
	Name           string `json:"name"`
	ConfigBackedUp bool   `json:"config_backed_up"`
	BackupPath     string `json:"backup_path,omitempty"`
}

// Uninstall removes a skill's install directory. If a config file exists
// it is copied to the backups area first.
func Uninstall(skillsDir, name string) (*UninstallResult, error) {
	meta, err := ReadMetadata(skillsDir, name)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, skillerr.New(skillerr.NotInstalled, "skill %q is not installed", name)
	}

	result := &UninstallResult{Name: name}

	configBytes, err := os.ReadFile(ConfigPath(skillsDir, name))
	if err == nil {
		backupPath := BackupPath(skillsDir, name)
		if err := os.MkdirAll(filepath.Dir(backupPath), 0o750); err != nil {
			return nil, skillerr.WithKind(err, skillerr.IO)
		}
		if err := os.WriteFile(backupPath, configBytes, 0o600); err != nil {
			return nil, skillerr.WithKind(err, skillerr.IO)
		}
		result.ConfigBackedUp = true
		result.BackupPath = backupPath
	}

	if err := os.RemoveAll(InstallDir(skillsDir, name)); err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}
	return result, nil
}

// RestoreBackup returns the backed-up config bytes for a skill, or nil
// when no backup exists.
func RestoreBackup(skillsDir, name string) ([]byte, error) {
	data, err := os.ReadFile(BackupPath(skillsDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}
	return data, nil
}

// ListEntry is one installed skill, optionally annotated against an index.
type ListEntry struct {
	Metadata      InstallMetadata `json:"metadata"`
	HasUpdate     bool            `json:"has_update"`
	LatestVersion string          `json:"latest_version,omitempty"`
}

// List enumerates installed skills: non-hidden subdirectories of the
// skills directory that carry readable install metadata. When idx is
// non-nil each entry is annotated with update availability.
func List(skillsDir string, idx *catalog.Index) ([]ListEntry, error) {
	dirs, err := os.ReadDir(skillsDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}

	var entries []ListEntry
	for _, d := range dirs {
		if !d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		meta, err := ReadMetadata(skillsDir, d.Name())
		if err != nil || meta == nil {
			continue
		}
		entry := ListEntry{Metadata: *meta}
		if idx != nil {
			check := CheckForUpdate(skillsDir, d.Name(), idx)
			entry.HasUpdate = check.HasUpdate
			entry.LatestVersion = check.LatestVersion
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
