package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildResumeJSONSchema returns the contract demanded of the augmentation model.
// Every key is optional; null means "not found".
func BuildResumeJSONSchema() map[string]any {
	str := func() map[string]any { return map[string]any{"type": []any{"string", "null"}} }
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":        str(),
			"email":       str(),
			"phone":       str(),
			"company":     str(),
			"designation": str(),
			"skills": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
		},
		"additionalProperties": false,
	}
}

var (
	resumeSchemaOnce sync.Once
	resumeSchema     *jsonschema.Schema
	resumeSchemaErr  error
)

func compiledResumeSchema() (*jsonschema.Schema, error) {
	resumeSchemaOnce.Do(func() {
		resumeSchema, resumeSchemaErr = CompileSchema(BuildResumeJSONSchema())
	})
	return resumeSchema, resumeSchemaErr
}

// CompileSchema compiles a schema expressed as a generic map.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateJSONAgainstSchema validates data against the resume contract.
func ValidateJSONAgainstSchema(data []byte) error {
	schema, err := compiledResumeSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
