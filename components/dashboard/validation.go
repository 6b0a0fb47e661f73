package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrInvalidDescriptor wraps descriptor validation failures.
	ErrInvalidDescriptor = errors.New("dashboard: invalid widget descriptor")
	// ErrInvalidLayout wraps layout document validation failures.
	ErrInvalidLayout = errors.New("dashboard: invalid layout document")
)

// DescriptorValidator checks catalog entries before registration.
type DescriptorValidator interface {
	Validate(desc WidgetDescriptor) error
}

type structDescriptorValidator struct {
	validate *validator.Validate
}

// NewDescriptorValidator validates struct tags and compiles any embedded
// configuration schema.
func NewDescriptorValidator() DescriptorValidator {
	return structDescriptorValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v structDescriptorValidator) Validate(desc WidgetDescriptor) error {
	if err := v.validate.Struct(desc); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidDescriptor, desc.Label, err)
	}
	if len(desc.Schema) == 0 {
		return nil
	}
	if _, err := compileSchema(desc.Label+".json", desc.Schema); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidDescriptor, desc.Label, err)
	}
	return nil
}

// LayoutValidator checks decoded layout documents before they reach the
// orchestrator.
type LayoutValidator interface {
	Validate(doc any) error
}

// JSONSchemaLayoutValidator validates layout documents against the grid schema.
type JSONSchemaLayoutValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewLayoutValidator builds a validator backed by jsonschema v5.
func NewLayoutValidator() *JSONSchemaLayoutValidator {
	return &JSONSchemaLayoutValidator{}
}

// Validate ensures doc is a breakpoint to entries mapping.
func (v *JSONSchemaLayoutValidator) Validate(doc any) error {
	v.once.Do(func() {
		v.schema, v.err = compileSchema("layouts.json", layoutDocumentSchema())
	})
	if v.err != nil {
		return v.err
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return nil
}

// DecodeLayouts validates raw JSON and decodes it into Layouts.
func DecodeLayouts(data []byte, validator LayoutValidator) (Layouts, error) {
	if validator == nil {
		validator = NewLayoutValidator()
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := validator.Validate(doc); err != nil {
		return nil, err
	}
	var layouts Layouts
	if err := json.Unmarshal(data, &layouts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return layouts, nil
}

func layoutDocumentSchema() map[string]any {
	entry := map[string]any{
		"type":     "object",
		"required": []string{"i", "x", "y", "w", "h"},
		"properties": map[string]any{
			"i":      map[string]any{"type": "string", "minLength": 1},
			"x":      map[string]any{"type": "integer", "minimum": 0},
			"y":      map[string]any{"type": "integer", "minimum": 0},
			"w":      map[string]any{"type": "integer", "minimum": 1},
			"h":      map[string]any{"type": "integer", "minimum": 1},
			"minW":   map[string]any{"type": "integer", "minimum": 0},
			"minH":   map[string]any{"type": "integer", "minimum": 0},
			"moved":  map[string]any{"type": "boolean"},
			"static": map[string]any{"type": "boolean"},
		},
	}
	properties := make(map[string]any, len(Breakpoints))
	for _, bp := range Breakpoints {
		properties[bp.Name] = map[string]any{"type": "array", "items": entry}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", name, err)
	}
	return compiled, nil
}
