package cv

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// candidateJSONSchema is the contract for the extraction reply. Every key must be present;
// names and email must be non-empty and the email well formed.
func candidateJSONSchema() map[string]any {
	str := map[string]any{"type": "string"}
	nonEmpty := map[string]any{"type": "string", "minLength": 1}

	education := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"school": str,
			"degree": str,
			"dates":  str,
		},
		"required": []string{"school", "degree", "dates"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"first_name":              nonEmpty,
			"last_name":               nonEmpty,
			"email":                   map[string]any{"type": "string", "format": "email"},
			"phone":                   str,
			"education_history":       map[string]any{"type": "array", "items": education},
			"work_experience_summary": str,
			"skills":                  map[string]any{"type": "array", "items": str},
			"current_position":        str,
			"years_of_experience":     map[string]any{"type": "number", "minimum": 0},
		},
		"required": requiredKeys,
	}
}

var requiredKeys = []string{
	"first_name",
	"last_name",
	"email",
	"phone",
	"education_history",
	"work_experience_summary",
	"skills",
	"current_position",
	"years_of_experience",
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("candidate.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("candidate.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
