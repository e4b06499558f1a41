// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import (
	"fmt"

	"github.com/kithkit/kithkit-core/manifest"
)

// ReservedNames may not be claimed by any skill. Exposed as a variable
// for test override.
var ReservedNames = []string{
	"skill", "skills", "kithkit", "catalog", "index",
	"install", "update", "uninstall", "list", "search",
	"config", "admin", "system", "core", "help",
}

// TyposquatDistance is the maximum Levenshtein distance to an existing
// name that triggers a near-duplicate warning.
const TyposquatDistance = 2

// CheckName validates a proposed skill name against the naming rules and
// warns on near-duplicates of existing catalog names.
func CheckName(name string, existingNames []string) []Finding {
	var findings []Finding

	switch {
	case name == "":
		findings = append(findings, Finding{
			Severity: SeverityError, Check: "naming",
			Message: "name is required",
		})
		return findings
	case len(name) < manifest.MinNameLength || len(name) > manifest.MaxNameLength:
		findings = append(findings, Finding{
			Severity: SeverityError, Check: "naming",
			Message: fmt.Sprintf("name must be %d-%d characters, got %d", manifest.MinNameLength, manifest.MaxNameLength, len(name)),
		})
	case !manifest.NameRE.MatchString(name):
		findings = append(findings, Finding{
			Severity: SeverityError, Check: "naming",
			Message: fmt.Sprintf("name %q must match %s", name, manifest.NameRE.String()),
		})
	}

	for _, reserved := range ReservedNames {
		if name == reserved {
			findings = append(findings, Finding{
				Severity: SeverityError, Check: "naming",
				Message: fmt.Sprintf("name %q is reserved", name),
			})
		}
	}

	for _, existing := range existingNames {
		if existing == name {
			continue
		}
		if d := levenshtein(name, existing); d <= TyposquatDistance {
			findings = append(findings, Finding{
				Severity: SeverityWarning, Check: "naming",
				Message: fmt.Sprintf("name %q is distance %d from existing skill %q; possible typosquat", name, d, existing),
			})
		}
	}

	return findings
}

// levenshtein computes edit distance with the two-row dynamic program.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
