// Package schema builds JSON Schemas from Go types and validates documents against them.
//
// The schema is reflected from a struct with invopop/jsonschema (field names from
// the json tags, constraints from the jsonschema tags) and compiled with
// santhosh-tekuri/jsonschema:
//
//	s, err := schema.Reflect(&config.Config{})
//	if err != nil {
//	    return err
//	}
//	var doc any
//	_ = yaml.Unmarshal(data, &doc)
//	if err := s.Validate(doc); err != nil {
//	    // *schema.ValidationError
//	}
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema holds both the raw map representation and the compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates v against the schema. v may be any value that marshals to JSON,
// such as a document decoded by yaml.v3. It is normalized through JSON first so numbers
// and map types match what the validator expects.
func (s *Schema) Validate(v any) error {
	if s == nil || s.compiled == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return &ValidationError{Err: fmt.Errorf("document is not JSON compatible: %w", err)}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ValidationError{Err: err}
	}

	if err := s.compiled.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a compiled validator.
// Returns an error if the schema is invalid.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// MustCompile is like Compile but panics on error.
// Use this for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

var durationType = reflect.TypeOf(time.Duration(0))

// Reflect builds and compiles the schema of v's type.
//
// Properties are optional unless tagged `jsonschema:"required"`, and unknown properties
// are rejected. time.Duration fields are strings in time.ParseDuration format ("30s",
// "1h30m").
func Reflect(v any) (*Schema, error) {
	r := &invopop.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *invopop.Schema {
			if t == durationType {
				return &invopop.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
				}
			}
			return nil
		},
	}

	data, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reflected schema: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode reflected schema: %w", err)
	}
	// The reflected $id is derived from the Go package path and is not resolvable.
	delete(raw, "$id")

	return Compile(raw)
}

// MustReflect is like Reflect but panics on error.
func MustReflect(v any) *Schema {
	s, err := Reflect(v)
	if err != nil {
		panic(err)
	}
	return s
}
