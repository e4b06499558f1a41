// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kithkit/kithkit-core/manifest"
)

// topicGroup names a concern area and the keywords that signal it.
type topicGroup struct {
	Topic string
	// Keywords counted in SKILL.md.
	Keywords []string
	// Related terms that legitimize the topic when they appear in the
	// skill's name, description, or declared capabilities.
	Related []string
}

// scopeTopics is the fixed topic rubric for the scope check.
var scopeTopics = []topicGroup{
	{
		Topic:    "credentials",
		Keywords: []string{"password", "credential", "token", "api key", "secret", "ssh key", "keychain", "keyring"},
		Related:  []string{"credential", "auth", "login", "password", "secret", "token", "key"},
	},
	{
		Topic:    "system",
		Keywords: []string{"shell", "command", "execute", "process", "filesystem", "sudo", "terminal"},
		Related:  []string{"system", "shell", "command", "execute", "file", "terminal", "process"},
	},
	{
		Topic:    "network",
		Keywords: []string{"http", "url", "endpoint", "request", "download", "upload", "server"},
		Related:  []string{"network", "http", "web", "api", "request", "url", "fetch", "remote"},
	},
}

// scopeHitThreshold: a keyword counts once it occurs this many times, and
// a topic fires once this many distinct keywords count.
const scopeHitThreshold = 2

// CheckScope flags topics the skill content dwells on that neither its
// name, description, nor declared capabilities relate to.
func CheckScope(m *manifest.Manifest, skillMD string) []Finding {
	content := strings.ToLower(skillMD)
	declared := declaredTerms(m)

	var findings []Finding
	for _, topic := range scopeTopics {
		var hits []string
		for _, kw := range topic.Keywords {
			if strings.Count(content, kw) >= scopeHitThreshold {
				hits = append(hits, kw)
			}
		}
		if len(hits) < scopeHitThreshold {
			continue
		}
		if topicDeclared(topic, declared) {
			continue
		}
		sort.Strings(hits)
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Check:    "scope",
			Message: fmt.Sprintf("content repeatedly references %s (%s) but nothing declared relates to it",
				topic.Topic, strings.Join(hits, ", ")),
			File: "SKILL.md",
		})
	}
	return findings
}

// declaredTerms collects the lowercased name, description, and
// capability strings.
func declaredTerms(m *manifest.Manifest) []string {
	terms := []string{strings.ToLower(m.Name), strings.ToLower(m.Description)}
	for _, c := range m.Capabilities.Required {
		terms = append(terms, strings.ToLower(c))
	}
	for _, c := range m.Capabilities.Optional {
		terms = append(terms, strings.ToLower(c))
	}
	return terms
}

func topicDeclared(topic topicGroup, declared []string) bool {
	for _, term := range declared {
		if term == "" {
			continue
		}
		if strings.Contains(term, topic.Topic) {
			return true
		}
		for _, rel := range topic.Related {
			if strings.Contains(term, rel) {
				return true
			}
		}
	}
	return false
}
