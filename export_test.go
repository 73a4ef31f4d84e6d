package api

import "reflect"

// Test-only exports for internal functions.
var (
	HasParamTags  = hasParamTags
	HasFormTags   = hasFormTags
	HasBodyField  = hasBodyField
	HasRawRequest = hasRawRequest
	TagOptions    = tagOptions
	TagContains   = tagContains

	TypeToSchema        = typeToSchema
	StructToSchema      = structToSchema
	JSONFieldName       = jsonFieldName
	ApplyConstraintTags = applyConstraintTags

	ErrorResponseSchema = errorResponseSchema
	ErrorSchemaName     = errorSchemaName

	ValidateConstraints = validateConstraints
	GenerateOperationID = generateOperationID
)

// TestSchemaRegistry wraps schemaRegistry for external tests.
type TestSchemaRegistry struct {
	reg  *schemaRegistry
	Defs map[string]JSONSchema
}

// NewSchemaRegistry creates a TestSchemaRegistry for testing.
func NewSchemaRegistry() *TestSchemaRegistry {
	r := newSchemaRegistry()
	return &TestSchemaRegistry{reg: r, Defs: r.defs}
}

// TypeToSchema delegates to the internal registry.
func (t *TestSchemaRegistry) TypeToSchema(typ reflect.Type) JSONSchema {
	return t.reg.typeToSchema(typ)
}

// TestDescriptorSource wraps descriptorSource for external tests.
type TestDescriptorSource struct {
	src *descriptorSource
}

// NewDescriptorSource creates a TestDescriptorSource for testing.
func NewDescriptorSource() *TestDescriptorSource {
	return &TestDescriptorSource{src: newDescriptorSource()}
}

// Derive delegates to the internal source.
func (s *TestDescriptorSource) Derive(typ reflect.Type) *TypeDescriptor {
	return s.src.derive(typ)
}

// Named returns the descriptor recorded under name, if any.
func (s *TestDescriptorSource) Named(name string) (*TypeDescriptor, bool) {
	td, ok := s.src.named[name]
	return td, ok
}

// DuplicateNames delegates to the internal source.
func (s *TestDescriptorSource) DuplicateNames() []string {
	return s.src.duplicateNames()
}
