package openai_provider

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed requirements_schema.json
var requirementsSchemaJSON string

var (
	compileOnce        sync.Once
	requirementsSchema *jsonschema.Schema
	compileErr         error
)

// RequirementsSchema returns the compiled JSON Schema for extracted requirements.
func RequirementsSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("requirements_schema.json", strings.NewReader(requirementsSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("requirements_schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile requirements schema: %w", err)
			return
		}
		requirementsSchema = schema
	})
	return requirementsSchema, compileErr
}

// ValidateRequirements validates raw JSON against the requirements schema.
func ValidateRequirements(data []byte) error {
	schema, err := RequirementsSchema()
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("requirements are not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("requirements do not match schema: %w", err)
	}
	return nil
}

// responseFormatSchema is the schema sent to the API for structured output.
func responseFormatSchema() map[string]interface{} {
	var schema map[string]interface{}
	_ = json.Unmarshal([]byte(requirementsSchemaJSON), &schema)
	delete(schema, "$schema")
	delete(schema, "title")
	return schema
}
