// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"slices"
	"strings"
)

// Query filters catalog entries. All supplied filters combine with AND;
// zero values mean "no filter".
type Query struct {
	// Text matches case-insensitively as a substring of name or description.
	Text string
	// Tag requires exact tag membership.
	Tag string
	// Capability requires exact membership in required or optional capabilities.
	Capability string
}

// SearchResult is the latest-version projection of a matching entry.
type SearchResult struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Tags        []string `json:"tags,omitempty"`
	Category    string   `json:"category,omitempty"`
	TrustLevel  string   `json:"trust_level"`
}

// Search returns matching skills in stored order (sorted by name).
func Search(idx *Index, q Query) []SearchResult {
	var results []SearchResult
	for i := range idx.Skills {
		entry := &idx.Skills[i]
		if !matches(entry, q) {
			continue
		}
		results = append(results, SearchResult{
			Name:        entry.Name,
			Description: entry.Description,
			Version:     entry.Latest,
			Tags:        entry.Tags,
			Category:    entry.Category,
			TrustLevel:  entry.TrustLevel,
		})
	}
	return results
}

func matches(entry *SkillEntry, q Query) bool {
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(entry.Name), needle) &&
			!strings.Contains(strings.ToLower(entry.Description), needle) {
			return false
		}
	}
	if q.Tag != "" && !slices.Contains(entry.Tags, q.Tag) {
		return false
	}
	if q.Capability != "" &&
		!slices.Contains(entry.Capabilities.Required, q.Capability) &&
		!slices.Contains(entry.Capabilities.Optional, q.Capability) {
		return false
	}
	return true
}
