package store

import (
	_ "embed"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed state.schema.json
var stateSchemaJSON string

const stateSchemaURL = "https://lifequest.local/state.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func stateSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(stateSchemaURL, stateSchemaJSON)
	})
	return schema, schemaErr
}

// ValidateDocument checks a decoded JSON document (the output of
// json.Unmarshal into any) against the current state schema.
func ValidateDocument(doc any) error {
	s, err := stateSchema()
	if err != nil {
		return err
	}
	return s.Validate(doc)
}
