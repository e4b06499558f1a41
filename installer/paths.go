// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Fixed names within a skills directory.
const (
	// MetadataFileName is the hidden install metadata sidecar inside every
	// install directory.
	MetadataFileName = ".kithkit-meta.json"
	// ConfigFileName is the user-owned config file inside every install
	// directory.
	ConfigFileName = "config.json"
	// backupsDirName holds config backups made by uninstall.
	backupsDirName = ".backups"
	// cacheDirName holds the index cache.
	cacheDirName = ".cache"
)

// SkillsRoot returns the skills directory within the given data home.
// This is the injectable, testable form. For the standard XDG location,
// use DefaultSkillsRoot.
func SkillsRoot(dataHome string) string {
	return filepath.Join(dataHome, "kithkit", "skills")
}

// DefaultSkillsRoot returns the default skills directory using XDG base
// directory conventions.
func DefaultSkillsRoot() string {
	return SkillsRoot(xdg.DataHome)
}

// InstallDir returns the install directory for a skill.
func InstallDir(skillsDir, name string) string {
	return filepath.Join(skillsDir, name)
}

// MetadataPath returns the metadata sidecar path for a skill.
func MetadataPath(skillsDir, name string) string {
	return filepath.Join(InstallDir(skillsDir, name), MetadataFileName)
}

// ConfigPath returns the config file path for a skill.
func ConfigPath(skillsDir, name string) string {
	return filepath.Join(InstallDir(skillsDir, name), ConfigFileName)
}

// BackupPath returns where uninstall preserves a skill's config file.
func BackupPath(skillsDir, name string) string {
	return filepath.Join(skillsDir, backupsDirName, name, "config.bak")
}

// CacheFilePath returns the index cache location under a skills directory.
func CacheFilePath(skillsDir string) string {
	return filepath.Join(skillsDir, cacheDirName, "index-cache.json")
}
