// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kithkit/kithkit-core/canonjson"
	"github.com/kithkit/kithkit-core/skillerr"
)

//go:embed data/index.schema.json
var embeddedSchemaFS embed.FS

// ValidateIndexDocument validates raw index JSON against the embedded
// schema. This runs before signature verification so malformed documents
// fail with a field-level message instead of an opaque integrity error.
func ValidateIndexDocument(data []byte) error {
	schemaData, err := embeddedSchemaFS.ReadFile("data/index.schema.json")
	if err != nil {
		return fmt.Errorf("failed to read embedded index schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return skillerr.New(skillerr.Invalid, "index schema validation failed: %v", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return skillerr.New(skillerr.Invalid, "index schema validation failed: %s", strings.Join(msgs, "; "))
}

// canonicalJSON serializes any catalog document in its canonical form.
func canonicalJSON(v any) ([]byte, error) {
	return canonjson.Marshal(v)
}
