// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import "regexp"

// Rule is one detection pattern. The library is data-driven: adding a
// rule means adding a record here, not new code.
type Rule struct {
	// ID identifies the rule. Multi-line variants carry a "-multiline"
	// suffix over their single-line sibling's id.
	ID          string
	Description string
	Regex       *regexp.Regexp
	Severity    Severity
	// Multiline rules run against the whole file with whitespace runs
	// collapsed to single spaces; single-line rules run per line.
	Multiline bool
}

// multilineSuffix marks rules that target normalized whole-file content.
const multilineSuffix = "-multiline"

// re compiles a case-insensitive pattern.
func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// DefaultRules returns the packaged pattern library. Rule families:
// prompt injection, credential access, exfiltration. Multi-line variants
// sit next to their single-line siblings so the dedup pairing is visible
// in the table.
func DefaultRules() []Rule {
	return []Rule{
		// Prompt injection.
		{
			ID:          "injection-ignore-previous",
			Description: "attempts to override prior instructions",
			Regex:       re(`ignore\s+(all\s+)?(previous|prior|above|earlier)\s+(instructions|context|rules|prompts)`),
			Severity:    SeverityError,
		},
		{
			ID:          "injection-ignore-previous" + multilineSuffix,
			Description: "attempts to override prior instructions, split across lines",
			Regex:       re(`ignore (all )?(previous|prior|above|earlier) (instructions|context|rules|prompts)`),
			Severity:    SeverityError,
			Multiline:   true,
		},
		{
			ID:          "injection-disregard-system",
			Description: "attempts to disable the system prompt or safety rules",
			Regex:       re(`disregard\s+(the\s+)?(system|safety|security)\s+(prompt|instructions?|rules|guidelines)`),
			Severity:    SeverityError,
		},
		{
			ID:          "injection-disregard-system" + multilineSuffix,
			Description: "attempts to disable the system prompt, split across lines",
			Regex:       re(`disregard (the )?(system|safety|security) (prompt|instructions?|rules|guidelines)`),
			Severity:    SeverityError,
			Multiline:   true,
		},
		{
			ID:          "injection-new-identity",
			Description: "attempts to replace the agent's instructions or identity",
			Regex:       re(`(your\s+(new|real|true)\s+(instructions|purpose|goal)|you\s+are\s+now\s+(a|an|in)\s|from\s+now\s+on\s+you\s+(are|must|will))`),
			Severity:    SeverityError,
		},
		{
			ID:          "injection-conceal-from-user",
			Description: "directs the agent to hide activity from the user",
			Regex:       re(`do\s+not\s+(tell|reveal|mention|inform|show|alert)\s.*\b(user|human|operator)`),
			Severity:    SeverityError,
		},

		// Credential access.
		{
			ID:          "credential-harvest",
			Description: "reads or collects credential material",
			Regex:       re(`(read|cat|dump|collect|gather|copy|list|access|extract)\s+(all\s+)?.*\b(passwords?|credentials?|secrets?|api\s?.?keys?|tokens?)`),
			Severity:    SeverityError,
		},
		{
			ID:          "credential-harvest" + multilineSuffix,
			Description: "reads or collects credential material, split across lines",
			Regex:       re(`(read|cat|dump|collect|gather|copy|list|access|extract) (all )?.*\b(passwords?|credentials?|secrets?|api ?.?keys?|tokens?)`),
			Severity:    SeverityError,
			Multiline:   true,
		},
		{
			ID:          "credential-keychain",
			Description: "touches an OS credential store",
			Regex:       re(`\b(keychain|keyring|credential\s+(store|manager)|secret\s+service)\b`),
			Severity:    SeverityWarning,
		},
		{
			ID:          "credential-ssh-keys",
			Description: "references private SSH key material",
			Regex:       re(`\.ssh/(id_[a-z0-9]+|authorized_keys|config)|\bssh\s+private\s+keys?\b`),
			Severity:    SeverityError,
		},
		{
			ID:          "credential-env-secrets",
			Description: "reads secret-bearing environment variables",
			Regex:       re(`\$\{?[A-Z0-9_]*(API_?KEY|TOKEN|SECRET|PASSWORD)[A-Z0-9_]*\}?`),
			Severity:    SeverityWarning,
		},

		// Exfiltration.
		{
			ID:          "exfil-curl-data",
			Description: "uploads data with curl",
			Regex:       re(`curl\s+[^\n]*(-d\b|--data\b|-F\b|--form\b|-T\b|--upload-file\b)`),
			Severity:    SeverityError,
		},
		{
			ID:          "exfil-curl-subst",
			Description: "interpolates command output into a curl invocation",
			Regex:       re("curl[^\\n]*\\$\\(|curl[^\\n]*`"),
			Severity:    SeverityError,
		},
		{
			ID:          "exfil-post-external",
			Description: "sends an HTTP write request to an external host",
			Regex:       re(`(POST|PUT)\s+(to\s+)?https?://`),
			Severity:    SeverityError,
		},
		{
			ID:          "exfil-send-remote",
			Description: "sends collected data to a remote endpoint",
			Regex:       re(`(send|upload|post|transmit|forward|exfiltrate)\s+[^\n]*\s(to|at)\s+https?://`),
			Severity:    SeverityError,
		},
		{
			ID:          "exfil-send-remote" + multilineSuffix,
			Description: "sends collected data to a remote endpoint, split across lines",
			Regex:       re(`(send|upload|post|transmit|forward|exfiltrate) [^\n]* (to|at) https?://`),
			Severity:    SeverityError,
			Multiline:   true,
		},
		{
			ID:          "exfil-encode-pipe",
			Description: "pipes encoded data into a network client",
			Regex:       re(`base64\s[^\n]*\|\s*(curl|wget|nc)\b`),
			Severity:    SeverityError,
		},
	}
}
