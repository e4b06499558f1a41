// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extract writes the archive's regular-file entries under targetDir.
//
// The leading skill-name component of each entry is stripped; the
// remainder becomes the output path. Entries with absolute names or ".."
// components abort extraction, as does any resolved path that escapes
// targetDir. Non-regular-file entries are skipped. On failure the caller
// is responsible for removing the partially populated target directory.
func Extract(data []byte, targetDir string) error {
	tr, err := tarReader(data)
	if err != nil {
		return err
	}

	resolvedTarget, err := filepath.Abs(targetDir)
	if err != nil {
		return &ExtractError{Kind: KindIO, Path: targetDir, Err: err}
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return headerError(err)
		}

		if err := validateEntryName(hdr.Name); err != nil {
			return err
		}

		// Only regular-file entries produce files. Directories are implied
		// by their children; links and devices are skipped defensively.
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		rel := stripSkillPrefix(hdr.Name)
		if rel == "" {
			continue
		}

		outPath := filepath.Join(resolvedTarget, filepath.FromSlash(rel))
		if !withinDir(resolvedTarget, outPath) {
			return &ExtractError{Kind: KindPathTraversal, Path: hdr.Name}
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
			return &ExtractError{Kind: KindIO, Path: rel, Err: err}
		}

		content, err := readEntry(tr, hdr)
		if err != nil {
			return err
		}

		mode := os.FileMode(0o644)
		if hdr.Mode != 0 {
			mode = os.FileMode(hdr.Mode) & 0o777
		}
		if err := os.WriteFile(outPath, content, mode); err != nil {
			return &ExtractError{Kind: KindIO, Path: rel, Err: err}
		}
	}

	return nil
}

// withinDir reports whether path lies inside dir after resolution.
func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SkillDirName returns the single top-level directory name of the archive,
// which by construction equals the skill name.
func SkillDirName(data []byte) (string, error) {
	tr, err := tarReader(data)
	if err != nil {
		return "", err
	}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", headerError(err)
		}
		name := strings.TrimSuffix(hdr.Name, "/")
		if i := strings.IndexByte(name, '/'); i >= 0 {
			return name[:i], nil
		}
		if name != "" {
			return name, nil
		}
	}
	return "", &ExtractError{Kind: KindBadHeader, Err: fmt.Errorf("empty archive")}
}
