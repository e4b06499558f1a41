// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import (
	"fmt"
	"path"
	"strings"
)

// RequiredFiles every skill must carry.
var RequiredFiles = []string{"manifest.yaml", "SKILL.md"}

// Size caps the structure check enforces on source trees. Exposed as
// variables for test override.
var (
	// MaxFileBytes bounds a single file (1 MiB).
	MaxFileBytes int64 = 1 * 1024 * 1024
	// MaxTotalBytes bounds the whole skill (5 MiB).
	MaxTotalBytes int64 = 5 * 1024 * 1024
)

// DeniedExtensions are executable file types a skill may not contain:
// scripts, binaries, shared libraries, and bytecode.
var DeniedExtensions = []string{
	".sh", ".bash", ".zsh", ".ps1", ".bat", ".cmd",
	".exe", ".dll", ".so", ".dylib", ".bin",
	".py", ".pyc", ".rb", ".pl", ".php", ".js", ".mjs",
	".jar", ".class", ".wasm",
}

// CheckStructure verifies required files, rejects executable content, and
// enforces size caps.
func CheckStructure(files map[string][]byte) []Finding {
	var findings []Finding

	for _, required := range RequiredFiles {
		if _, ok := files[required]; !ok {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Check:    "structure",
				Message:  fmt.Sprintf("required file %s is missing", required),
				File:     required,
			})
		}
	}

	var total int64
	for name, content := range files {
		ext := strings.ToLower(path.Ext(name))
		for _, denied := range DeniedExtensions {
			if ext == denied {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Check:    "structure",
					Message:  fmt.Sprintf("executable file type %s is not allowed", ext),
					File:     name,
				})
				break
			}
		}

		size := int64(len(content))
		total += size
		if size > MaxFileBytes {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Check:    "structure",
				Message:  fmt.Sprintf("file is %d bytes, over the %d byte limit", size, MaxFileBytes),
				File:     name,
			})
		}
	}

	if total > MaxTotalBytes {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Check:    "structure",
			Message:  fmt.Sprintf("skill totals %d bytes, over the %d byte limit", total, MaxTotalBytes),
		})
	}

	return findings
}
