// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kithkit/kithkit-core/manifest"
)

// Detector scores skill content against the review rubric. The packaged
// PatternDetector implements it; the self-test harness accepts any
// implementation so alternative detectors can be measured against the
// same adversarial cases.
type Detector interface {
	Detect(m *manifest.Manifest, content string) []ReviewFinding
}

// maxEvidenceLen bounds the evidence snippet attached to a finding.
const maxEvidenceLen = 120

// detectorFamily groups patterns that indicate one rubric category.
type detectorFamily struct {
	Category string
	Severity string
	Patterns []*regexp.Regexp
}

// PatternDetector is the reference keyword/regex detector. Confidence is
// high when at least two patterns of a family hit, medium on one.
type PatternDetector struct {
	families []detectorFamily
}

// NewPatternDetector returns the packaged detector.
func NewPatternDetector() *PatternDetector {
	return &PatternDetector{
		families: []detectorFamily{
			{
				Category: CategoryCredentialAccess,
				Severity: RiskCritical,
				Patterns: []*regexp.Regexp{
					re(`\b(passwords?|credentials?|secrets?|api\s?.?keys?|tokens?)\b`),
					re(`\b(keychain|keyring|credential\s+(store|manager))\b`),
					re(`\.ssh/|\bssh\s+(private\s+)?keys?\b`),
					re(`(read|dump|collect|gather|extract|harvest|list)\s+[^\n]{0,40}(passwords?|credentials?|secrets?|keys?|tokens?)`),
				},
			},
			{
				Category: CategoryDataExfiltration,
				Severity: RiskCritical,
				Patterns: []*regexp.Regexp{
					re("curl[^\\n]*\\$\\(|curl[^\\n]*`"),
					re(`(POST|PUT)\s+[^\n]{0,40}https?://`),
					re(`(send|upload|post|transmit|forward|exfiltrate|report)\s+[^\n]{0,60}\b(to|at)\s+[^\n]{0,20}(https?://|server|endpoint|webhook)`),
					re(`base64\s[^\n]*\|\s*(curl|wget|nc)\b`),
					re(`https?://[a-z0-9.-]+\.(xyz|tk|top|icu|cc)\b`),
				},
			},
			{
				Category: CategorySecurityModification,
				Severity: RiskCritical,
				Patterns: []*regexp.Regexp{
					re(`(disable|turn\s+off|bypass|circumvent|deactivate)\s+[^\n]{0,30}(firewall|antivirus|anti-virus|security|protection|safety|sandbox|logging|audit)`),
					re(`(remove|delete|clear)\s+[^\n]{0,30}(audit\s+)?logs?\b`),
					re(`allowlist\s+[^\n]{0,30}(domain|host|command)|whitelist\s+[^\n]{0,30}(domain|host|command)`),
				},
			},
			{
				Category: CategoryInstructionHiding,
				Severity: RiskHigh,
				Patterns: []*regexp.Regexp{
					re(`ignore\s+(all\s+)?(previous|prior|above|earlier)\s+(instructions|context|rules|prompts)`),
					re(`disregard\s+(the\s+)?(system|safety|security)\s+(prompt|instructions?|rules)`),
					re(`do\s+not\s+(tell|reveal|mention|inform|show|alert)\s[^\n]{0,40}\b(user|human|operator)`),
					re(`(your\s+(new|real|true)\s+(instructions|purpose|goal)|from\s+now\s+on\s+you\s+(are|must|will))`),
				},
			},
			{
				Category: CategoryPermissionEscalation,
				Severity: RiskHigh,
				Patterns: []*regexp.Regexp{
					re(`\bsudo\s`),
					re(`chmod\s+(-[a-z]+\s+)?777`),
					re(`(run|execute|launch)\s+[^\n]{0,30}\b(as\s+root|as\s+administrator|elevated)`),
					re(`setuid|setcap\b`),
				},
			},
		},
	}
}

// Detect runs every family over the whitespace-normalized content plus
// the scope and capability inference checks.
func (d *PatternDetector) Detect(m *manifest.Manifest, content string) []ReviewFinding {
	normalized := normalizeWhitespace(content)

	var findings []ReviewFinding
	for _, family := range d.families {
		var evidence []string
		for _, p := range family.Patterns {
			if loc := p.FindStringIndex(normalized); loc != nil {
				evidence = append(evidence, snippet(normalized, loc[0], loc[1]))
			}
		}
		if len(evidence) == 0 {
			continue
		}
		confidence := ConfidenceMedium
		if len(evidence) >= 2 {
			confidence = ConfidenceHigh
		}
		findings = append(findings, ReviewFinding{
			Category:    family.Category,
			Severity:    family.Severity,
			Description: fmt.Sprintf("%d %s pattern(s) matched", len(evidence), family.Category),
			Evidence:    evidence[0],
			Confidence:  confidence,
		})
	}

	findings = append(findings, d.inferScopeMismatch(m, content)...)
	findings = append(findings, d.checkCapabilities(m)...)
	return findings
}

// inferScopeMismatch reuses the deterministic scope check: topics the
// content dwells on that the declaration does not cover.
func (d *PatternDetector) inferScopeMismatch(m *manifest.Manifest, content string) []ReviewFinding {
	if m == nil {
		return nil
	}
	var findings []ReviewFinding
	for _, f := range CheckScope(m, content) {
		findings = append(findings, ReviewFinding{
			Category:    CategoryScopeMismatch,
			Severity:    RiskHigh,
			Description: f.Message,
			Confidence:  ConfidenceMedium,
		})
	}
	return findings
}

// checkCapabilities flags declarations that are broad out of proportion
// to any skill: catch-all capability names or very long lists.
func (d *PatternDetector) checkCapabilities(m *manifest.Manifest) []ReviewFinding {
	if m == nil {
		return nil
	}
	declared := append(append([]string{}, m.Capabilities.Required...), m.Capabilities.Optional...)

	broad := 0
	for _, c := range declared {
		switch strings.ToLower(c) {
		case "all", "any", "system", "shell", "root":
			broad++
		}
	}
	if broad == 0 && len(declared) <= 6 {
		return nil
	}

	confidence := ConfidenceMedium
	if broad >= 2 {
		confidence = ConfidenceHigh
	}
	return []ReviewFinding{{
		Category:    CategoryExcessiveCapabilities,
		Severity:    RiskMedium,
		Description: fmt.Sprintf("declares %d capabilities, %d of them catch-all", len(declared), broad),
		Confidence:  confidence,
	}}
}

// snippet extracts at most maxEvidenceLen chars around a match.
func snippet(content string, start, end int) string {
	const margin = 20
	lo := start - margin
	if lo < 0 {
		lo = 0
	}
	hi := end + margin
	if hi > len(content) {
		hi = len(content)
	}
	if hi-lo > maxEvidenceLen {
		hi = lo + maxEvidenceLen
	}
	return strings.TrimSpace(content[lo:hi])
}
