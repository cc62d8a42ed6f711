package layout

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/structures.schema.json
var structuresSchema string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the compiled structures document schema.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("structures.schema.json", structuresSchema)
	})
	return schema, schemaErr
}

// SchemaSource returns the raw schema text.
func SchemaSource() string {
	return structuresSchema
}

// validateJSON checks raw JSON bytes against the schema.
func validateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return validateValue(v)
}

// validateYAML checks raw YAML bytes against the schema. The YAML tree is
// round-tripped through JSON so the validator sees JSON value types.
func validateYAML(data []byte) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("yaml to json: %w", err)
	}
	return validateJSON(raw)
}

func validateValue(v any) error {
	s, err := Schema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
