// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package chartstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/teradata-labs/easel/pkg/types"
)

// Editor payloads are validated against a per-family JSON Schema before they
// reach the database. The families mirror what the editor can produce:
// label/value rows and x/y(/r) point rows.
var familySchemas = map[string]map[string]interface{}{
	"single_series": {
		"type":                 "object",
		"required":             []interface{}{"family", "rows"},
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"family": map[string]interface{}{"const": "single_series"},
			"rows": map[string]interface{}{
				"type":     "array",
				"minItems": 2,
				"maxItems": 50,
				"items": map[string]interface{}{
					"type":                 "object",
					"required":             []interface{}{"label", "value"},
					"additionalProperties": false,
					"properties": map[string]interface{}{
						"label": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 100},
						"value": map[string]interface{}{"type": "number"},
					},
				},
			},
		},
	},
	"point_series": {
		"type":                 "object",
		"required":             []interface{}{"family", "rows"},
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"family": map[string]interface{}{"const": "point_series"},
			"rows": map[string]interface{}{
				"type":     "array",
				"minItems": 2,
				"maxItems": 50,
				"items": map[string]interface{}{
					"type":                 "object",
					"required":             []interface{}{"label", "x", "y"},
					"additionalProperties": false,
					"properties": map[string]interface{}{
						"label": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 100},
						"x":     map[string]interface{}{"type": "number"},
						"y":     map[string]interface{}{"type": "number"},
						"r":     map[string]interface{}{"type": "number", "minimum": 0},
					},
				},
			},
		},
	},
}

// ValidatePayload checks an editor payload against its family's schema.
func ValidatePayload(payload json.RawMessage) *types.ServiceError {
	var probe struct {
		Family string `json:"family"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return invalidPayload("payload is not a JSON object")
	}
	schema, ok := familySchemas[probe.Family]
	if !ok {
		return invalidPayload(fmt.Sprintf("unknown data family %q", probe.Family))
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return invalidPayload("schema validation failed: " + err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			msgs[i] = e.String()
		}
		return invalidPayload(strings.Join(msgs, "; "))
	}
	return nil
}

func invalidPayload(msg string) *types.ServiceError {
	return types.NewValidationError(types.ErrInvalidDataPoints, "payload",
		msg, "Send {\"family\": ..., \"rows\": [...]} matching the chart's data family")
}
