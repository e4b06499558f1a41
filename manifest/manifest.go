// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest defines the typed skill manifest and its validation.
//
// A manifest is authored once per skill version and is immutable: a new
// version means a new archive with a new manifest. Validation produces
// per-field findings rather than failing on the first problem, so authors
// see everything wrong with a submission at once.
package manifest

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/coreos/go-semver/semver"
	"gopkg.in/yaml.v3"

	"github.com/kithkit/kithkit-core/skillerr"
)

// Name constraints for published skills.
const (
	// MinNameLength is the minimum skill name length.
	MinNameLength = 2
	// MaxNameLength is the maximum skill name length.
	MaxNameLength = 64
)

// NameRE is the pattern every skill name must match: lowercase
// alphanumerics and interior dashes.
var NameRE = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)

// Config entry types a manifest may declare.
const (
	TypeCredential = "credential"
	TypeString     = "string"
	TypeNumber     = "number"
	TypeBoolean    = "boolean"
	TypeEnum       = "enum"
)

var validConfigTypes = map[string]bool{
	TypeCredential: true,
	TypeString:     true,
	TypeNumber:     true,
	TypeBoolean:    true,
	TypeEnum:       true,
}

// Author identifies who published the skill.
type Author struct {
	Name   string `yaml:"name" json:"name"`
	GitHub string `yaml:"github" json:"github"`
}

// Capabilities declares what the skill needs from its host.
type Capabilities struct {
	Required []string `yaml:"required" json:"required"`
	Optional []string `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// ConfigEntry is one typed configuration key the skill consumes.
type ConfigEntry struct {
	Key         string   `yaml:"key" json:"key"`
	Type        string   `yaml:"type" json:"type"`
	Required    bool     `yaml:"required" json:"required"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
	Description string   `yaml:"description" json:"description"`
	EnumValues  []string `yaml:"enum_values,omitempty" json:"enum_values,omitempty"`
}

// Frameworks records which agent frameworks the author tested against.
// Metadata only; nothing is enforced from it.
type Frameworks struct {
	Tested []string `yaml:"tested,omitempty" json:"tested,omitempty"`
}

// Manifest is the typed descriptor at the root of every skill archive.
type Manifest struct {
	Name         string        `yaml:"name" json:"name"`
	Version      string        `yaml:"version" json:"version"`
	Description  string        `yaml:"description" json:"description"`
	Author       Author        `yaml:"author" json:"author"`
	Capabilities Capabilities  `yaml:"capabilities" json:"capabilities"`
	Config       []ConfigEntry `yaml:"config,omitempty" json:"config,omitempty"`
	Tags         []string      `yaml:"tags,omitempty" json:"tags,omitempty"`
	Category     string        `yaml:"category,omitempty" json:"category,omitempty"`
	Frameworks   Frameworks    `yaml:"frameworks,omitempty" json:"frameworks,omitempty"`
	// TrustLevel is catalog-assigned. A value in an author submission is
	// ignored and reported as an info finding.
	TrustLevel string `yaml:"trust_level,omitempty" json:"trust_level,omitempty"`
}

// Parse decodes manifest YAML, rejecting unknown fields.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, skillerr.New(skillerr.Invalid, "parse manifest: %v", err)
	}
	return &m, nil
}

// Severity of a validation finding.
type Severity string

// Validation finding severities.
const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// Finding is one per-field validation problem.
type Finding struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Validate checks every field of the manifest and returns the full list
// of findings. An empty list means the manifest is valid.
func Validate(m *Manifest) []Finding {
	var findings []Finding
	fail := func(field, format string, args ...any) {
		findings = append(findings, Finding{Field: field, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case m.Name == "":
		fail("name", "name is required")
	case len(m.Name) < MinNameLength || len(m.Name) > MaxNameLength:
		fail("name", "name must be %d-%d characters, got %d", MinNameLength, MaxNameLength, len(m.Name))
	case !NameRE.MatchString(m.Name):
		fail("name", "name must match %s", NameRE.String())
	}

	switch {
	case m.Version == "":
		fail("version", "version is required")
	default:
		if _, err := semver.NewVersion(m.Version); err != nil {
			fail("version", "version %q is not strict semver", m.Version)
		}
	}

	if m.Description == "" {
		fail("description", "description is required")
	}

	if m.Author.Name == "" {
		fail("author.name", "author name is required")
	}
	if m.Author.GitHub == "" {
		fail("author.github", "author github is required")
	}

	for i, entry := range m.Config {
		field := fmt.Sprintf("config[%d]", i)
		if entry.Key == "" {
			fail(field+".key", "config key is required")
		}
		if !validConfigTypes[entry.Type] {
			fail(field+".type", "config type %q is not one of credential, string, number, boolean, enum", entry.Type)
		}
		if entry.Type == TypeEnum && len(entry.EnumValues) == 0 {
			fail(field+".enum_values", "enum config %q requires non-empty enum_values", entry.Key)
		}
	}

	if m.TrustLevel != "" {
		findings = append(findings, Finding{
			Field:    "trust_level",
			Severity: SeverityInfo,
			Message:  "trust_level is catalog-assigned; the submitted value is ignored",
		})
	}

	return findings
}

// ValidateBytes parses and validates raw manifest YAML. Shape problems the
// typed decode cannot attribute to a field, like a scalar tags value, are
// reported as findings rather than opaque parse errors.
func ValidateBytes(data []byte) (*Manifest, []Finding) {
	var shape map[string]any
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return nil, []Finding{{Field: "", Severity: SeverityError, Message: fmt.Sprintf("invalid YAML: %v", err)}}
	}

	if raw, ok := shape["tags"]; ok {
		if _, isList := raw.([]any); !isList {
			return nil, []Finding{{Field: "tags", Severity: SeverityError, Message: "tags must be a list"}}
		}
	}

	m, err := Parse(data)
	if err != nil {
		return nil, []Finding{{Field: "", Severity: SeverityError, Message: err.Error()}}
	}
	return m, Validate(m)
}

// HasErrors reports whether any finding is error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
