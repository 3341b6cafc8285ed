// Package schema defines the JSON-Schema contracts for model output.
// The schemas are passed to the model as a structured-output instruction and
// enforced locally: output that does not validate yields zero records.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Money returns the schema for monetary extraction: a list of monetary
// mentions, each carrying the sentence it came from so provenance survives
// batching and deduplication.
func Money() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"monetary_informations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"value":             map[string]any{"type": "number"},
						"currency":          map[string]any{"type": "string", "minLength": 1},
						"context":           map[string]any{"type": "string", "minLength": 1},
						"original_sentence": map[string]any{"type": "string", "minLength": 1},
					},
					"required": []string{"value", "currency", "context", "original_sentence"},
				},
			},
		},
		"required": []string{"monetary_informations"},
	}
}

// Entity returns the schema for consortium-composition extraction: the
// organization types admitted to a consortium and the minimum entity counts
// stated for each.
func Entity() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"participants": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"organization_type": map[string]any{"type": "string", "minLength": 1},
						"min_entities": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "integer", "minimum": 0},
						},
					},
					"required": []string{"organization_type", "min_entities"},
				},
			},
		},
		"required": []string{"participants"},
	}
}

// Validate checks data against schemaMap and returns a descriptive error on
// mismatch. Used at the extractor boundary before any record is created.
func Validate(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal model output: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("model output does not match schema: %w", err)
	}
	return nil
}

// Instruction renders a schema as an indented JSON block for prompt embedding.
func Instruction(schemaMap map[string]any) string {
	b, err := json.MarshalIndent(schemaMap, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
