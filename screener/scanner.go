// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import (
	"regexp"
	"strings"
)

// TextFiles are the files the pattern scanner reads from a skill.
var TextFiles = []string{"SKILL.md", "reference.md", "CHANGELOG.md"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeWhitespace collapses every whitespace run to a single space,
// defeating patterns split across lines or padded with tabs.
func normalizeWhitespace(content string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(content, " "))
}

// ScanContent runs the pattern library over one file's content.
//
// Single-line rules test each line in turn and report a 1-based line
// number. Multi-line rules test the whitespace-normalized whole file; a
// multi-line hit is suppressed when a single-line finding with the
// corresponding base id already exists for this file.
func ScanContent(file, content string, rules []Rule) []Finding {
	var findings []Finding
	seenBase := map[string]bool{}

	lines := strings.Split(content, "\n")
	for _, rule := range rules {
		if rule.Multiline {
			continue
		}
		for i, line := range lines {
			if rule.Regex.MatchString(line) {
				findings = append(findings, Finding{
					Severity: rule.Severity,
					Check:    "patterns",
					Message:  rule.Description,
					File:     file,
					Line:     i + 1,
					Pattern:  rule.ID,
				})
				seenBase[rule.ID] = true
			}
		}
	}

	normalized := normalizeWhitespace(content)
	for _, rule := range rules {
		if !rule.Multiline {
			continue
		}
		if !rule.Regex.MatchString(normalized) {
			continue
		}
		base := strings.TrimSuffix(rule.ID, multilineSuffix)
		if seenBase[base] {
			continue
		}
		findings = append(findings, Finding{
			Severity: rule.Severity,
			Check:    "patterns",
			Message:  rule.Description,
			File:     file,
			Pattern:  rule.ID,
		})
	}

	return findings
}

// ScanFiles runs the pattern library over every known text file present.
func ScanFiles(files map[string][]byte, rules []Rule) []Finding {
	var findings []Finding
	for _, name := range TextFiles {
		content, ok := files[name]
		if !ok {
			continue
		}
		findings = append(findings, ScanContent(name, string(content), rules)...)
	}
	return findings
}
