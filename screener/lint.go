// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kithkit/kithkit-core/archive"
	"github.com/kithkit/kithkit-core/manifest"
	"github.com/kithkit/kithkit-core/skillerr"
)

// LintOptions configures a lint run.
type LintOptions struct {
	// ExistingNames are published skill names for the typosquat check.
	ExistingNames []string
	// Rules overrides the pattern library; nil means DefaultRules.
	Rules []Rule
}

// Lint screens a skill source directory: structure, manifest, naming,
// patterns, scope, and unicode checks, aggregated into one result.
func Lint(dir string, opts LintOptions) (*LintResult, error) {
	files := map[string][]byte{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path) // #nosec G304 -- walking the lint target
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = content
		return nil
	})
	if err != nil {
		return nil, skillerr.WithKind(err, skillerr.IO)
	}

	return LintFiles(files, opts), nil
}

// LintArchive screens a built archive without extracting it to disk.
func LintArchive(data []byte, opts LintOptions) (*LintResult, error) {
	entries, err := archive.List(data)
	if err != nil {
		return nil, err
	}
	files := make(map[string][]byte, len(entries))
	for _, e := range entries {
		files[e.Name] = e.Content
	}
	return LintFiles(files, opts), nil
}

// LintFiles runs every check over an in-memory file set.
func LintFiles(files map[string][]byte, opts LintOptions) *LintResult {
	start := time.Now()
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	result := &LintResult{}

	result.Checks = append(result.Checks, CheckResult{
		Check:    "structure",
		Findings: CheckStructure(files),
	})

	var m *manifest.Manifest
	var manifestFindings []Finding
	if raw, ok := files["manifest.yaml"]; ok {
		parsed, fieldFindings := manifest.ValidateBytes(raw)
		m = parsed
		for _, f := range fieldFindings {
			manifestFindings = append(manifestFindings, Finding{
				Severity: manifestSeverity(f.Severity),
				Check:    "manifest",
				Message:  f.Message,
				File:     "manifest.yaml",
				Pattern:  f.Field,
			})
		}
	}
	result.Checks = append(result.Checks, CheckResult{Check: "manifest", Findings: manifestFindings})

	if m != nil {
		result.Skill = m.Name
		result.Checks = append(result.Checks, CheckResult{
			Check:    "naming",
			Findings: CheckName(m.Name, opts.ExistingNames),
		})
	}

	patternFindings := ScanFiles(files, rules)
	if raw, ok := files["manifest.yaml"]; ok {
		patternFindings = append(patternFindings, ScanContent("manifest.yaml", string(raw), rules)...)
	}
	result.Checks = append(result.Checks, CheckResult{Check: "patterns", Findings: patternFindings})

	if m != nil {
		if skillMD, ok := files["SKILL.md"]; ok {
			result.Checks = append(result.Checks, CheckResult{
				Check:    "scope",
				Findings: CheckScope(m, string(skillMD)),
			})
		}
	}

	var unicodeFindings []Finding
	for _, name := range append(append([]string{}, TextFiles...), "manifest.yaml") {
		if content, ok := files[name]; ok {
			unicodeFindings = append(unicodeFindings, CheckUnicode(name, string(content))...)
		}
	}
	result.Checks = append(result.Checks, CheckResult{Check: "unicode", Findings: unicodeFindings})

	all := result.Findings()
	result.Score = scoreFindings(all)
	result.Pass = result.Score.Errors == 0
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

func manifestSeverity(s manifest.Severity) Severity {
	if s == manifest.SeverityInfo {
		return SeverityInfo
	}
	return SeverityError
}
