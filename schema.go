package api

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// JSONSchema is the schema dialect the document embeds: the subset of
// JSON Schema 2020-12 that OpenAPI 3.1 operations need.
type JSONSchema struct {
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`
	Ref    string `json:"$ref,omitempty"`

	// Composition. A oneOf carries a discriminator when the variants
	// share a tag property.
	OneOf         []JSONSchema   `json:"oneOf,omitempty"`
	AnyOf         []JSONSchema   `json:"anyOf,omitempty"`
	AllOf         []JSONSchema   `json:"allOf,omitempty"`
	Discriminator *Discriminator `json:"discriminator,omitempty"`

	// Object keywords. AdditionalProperties constrains map values when
	// present; absence permits anything.
	Properties           map[string]JSONSchema `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	AdditionalProperties *JSONSchema           `json:"additionalProperties,omitempty"`

	// Array keywords.
	Items    *JSONSchema `json:"items,omitempty"`
	MinItems *int        `json:"minItems,omitempty"`
	MaxItems *int        `json:"maxItems,omitempty"`

	// String and number keywords.
	Pattern         string   `json:"pattern,omitempty"`
	MinLength       *int     `json:"minLength,omitempty"`
	MaxLength       *int     `json:"maxLength,omitempty"`
	Minimum         *float64 `json:"minimum,omitempty"`
	Maximum         *float64 `json:"maximum,omitempty"`
	ContentEncoding string   `json:"contentEncoding,omitempty"`

	// Annotations.
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     string   `json:"default,omitempty"`
	Example     string   `json:"example,omitempty"`
	ReadOnly    bool     `json:"readOnly,omitempty"`
	WriteOnly   bool     `json:"writeOnly,omitempty"`

	// Nullable marks a value that may be null. OpenAPI 3.1 has no
	// nullable keyword; MarshalJSON renders it as anyOf with a null
	// branch.
	Nullable bool `json:"-"`
}

// Discriminator steers consumers of a oneOf schema to the matching
// variant by the value of a single property.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping,omitempty"`
}

// SchemaProvider lets a type supply its own schema in place of the
// reflected one.
type SchemaProvider interface {
	JSONSchema() JSONSchema
}

// SchemaTransformer lets a type adjust its reflected schema before the
// document records it.
type SchemaTransformer interface {
	TransformSchema(JSONSchema) JSONSchema
}

var (
	schemaProviderType    = reflect.TypeFor[SchemaProvider]()
	schemaTransformerType = reflect.TypeFor[SchemaTransformer]()
)

// providedSchema returns the type's self-declared schema, or nil when
// the type does not implement SchemaProvider. Pointer-receiver
// implementations count.
func providedSchema(t reflect.Type) *JSONSchema {
	switch {
	case t.Implements(schemaProviderType):
		s := reflect.New(t).Elem().Interface().(SchemaProvider).JSONSchema()
		return &s
	case reflect.PointerTo(t).Implements(schemaProviderType):
		s := reflect.New(t).Interface().(SchemaProvider).JSONSchema()
		return &s
	default:
		return nil
	}
}

// schemaTransform returns the type's TransformSchema method, or nil.
func schemaTransform(t reflect.Type) func(JSONSchema) JSONSchema {
	switch {
	case t.Implements(schemaTransformerType):
		return reflect.New(t).Elem().Interface().(SchemaTransformer).TransformSchema
	case reflect.PointerTo(t).Implements(schemaTransformerType):
		return reflect.New(t).Interface().(SchemaTransformer).TransformSchema
	default:
		return nil
	}
}

// MarshalJSON renders the schema in OpenAPI 3.1 form. A nullable
// schema becomes anyOf with a null branch; a reference carrying
// annotations is wrapped in allOf, since bare $ref nodes cannot have
// sibling keywords.
func (s JSONSchema) MarshalJSON() ([]byte, error) {
	type plain JSONSchema

	if s.Nullable {
		wrapper := plain{
			Description: s.Description,
			Example:     s.Example,
			Default:     s.Default,
			ReadOnly:    s.ReadOnly,
			WriteOnly:   s.WriteOnly,
		}
		base := s
		base.Nullable = false
		base.Description = ""
		base.Example = ""
		base.Default = ""
		base.ReadOnly = false
		base.WriteOnly = false
		wrapper.AnyOf = []JSONSchema{base, {Type: "null"}}
		return json.Marshal(wrapper)
	}

	if s.Ref != "" {
		if s.Description == "" && s.Example == "" && s.Default == "" && !s.ReadOnly && !s.WriteOnly {
			return json.Marshal(plain{Ref: s.Ref})
		}
		return json.Marshal(plain{
			AllOf:       []JSONSchema{{Ref: s.Ref}},
			Description: s.Description,
			Example:     s.Example,
			Default:     s.Default,
			ReadOnly:    s.ReadOnly,
			WriteOnly:   s.WriteOnly,
		})
	}

	return json.Marshal(plain(s))
}

// fixedSchemas maps types whose representation never varies. The
// streaming and Void shapes document as empty schemas because their
// content is decided at the operation level.
var fixedSchemas = map[reflect.Type]JSONSchema{
	reflect.TypeFor[time.Time]():     {Type: "string", Format: "date-time"},
	reflect.TypeFor[time.Duration](): {Type: "string", Format: "duration"},
	reflect.TypeFor[FileUpload]():    {Type: "string", Format: "binary"},
	reflect.TypeFor[Void]():          {},
	reflect.TypeFor[Stream]():        {},
	reflect.TypeFor[SSEStream]():     {},
}

// typeToSchema reflects a type into a schema. Conversion is total:
// kinds with no JSON analogue degrade to a permissive string.
func typeToSchema(t reflect.Type) JSONSchema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if s, ok := fixedSchemas[t]; ok {
		return s
	}

	// A type that provides its own schema wins over reflection.
	if s := providedSchema(t); s != nil {
		return *s
	}

	// Enum types keep their value list even in inline positions, so
	// reference resolution can later upgrade them to the named schema.
	if isEnumerated(t) {
		return JSONSchema{Type: "string", Enum: enumValuesOf(t)}
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.Struct:
		return structToSchema(t)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return JSONSchema{Type: "string", ContentEncoding: "base64"}
		}
		return arraySchema(t)
	case reflect.Array:
		return arraySchema(t)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return JSONSchema{Type: "object"}
		}
		values := typeToSchema(t.Elem())
		return JSONSchema{Type: "object", AdditionalProperties: &values}
	case reflect.String:
		return JSONSchema{Type: "string"}
	case reflect.Bool:
		return JSONSchema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return JSONSchema{Type: "integer"}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		floor := 0.0
		return JSONSchema{Type: "integer", Minimum: &floor}
	case reflect.Float32, reflect.Float64:
		return JSONSchema{Type: "number"}
	default:
		return JSONSchema{Type: "string"}
	}
}

func arraySchema(t reflect.Type) JSONSchema {
	items := typeToSchema(t.Elem())
	return JSONSchema{Type: "array", Items: &items}
}

// structToSchema reflects a struct into an object schema. Constraint
// tags annotate each property; required is opt-in via the required
// tag.
func structToSchema(t reflect.Type) JSONSchema {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema),
	}
	patches := make(map[string]PropertyPatch)

	for i := range t.NumField() {
		f := t.Field(i)
		name, ok := bodyPropertyName(f)
		if !ok {
			continue
		}

		schema.Properties[name] = typeToSchema(f.Type)
		patches[name] = applyConstraintTags(f)

		if f.Tag.Get("required") == "true" {
			schema.Required = append(schema.Required, name)
		}
	}

	schema.Merge(patches)
	if tr := schemaTransform(t); tr != nil {
		return tr(schema)
	}
	return schema
}

// bodyPropertyName resolves the property a field contributes to its
// struct's schema. Unexported fields, parameter bindings, the
// RawRequest hook, and json:"-" fields contribute nothing.
func bodyPropertyName(f reflect.StructField) (string, bool) {
	if !f.IsExported() || isParamField(f) || f.Type == reflect.TypeFor[RawRequest]() {
		return "", false
	}
	name := jsonFieldName(f)
	if name == "-" {
		return "", false
	}
	return name, true
}

// jsonFieldName returns the name a field marshals under. The json tag
// wins when it names one; "-" propagates so callers can skip the
// field.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// isParamField reports whether the field binds from the request line
// or headers rather than the body.
func isParamField(f reflect.StructField) bool {
	for _, tag := range paramTags {
		if f.Tag.Get(tag) != "" {
			return true
		}
	}
	return false
}

// errorSchemaName is the components key for the error response schema.
const errorSchemaName = "ProblemDetail"

// errorResponseSchema describes the RFC 9457 problem document attached
// to every documented error response. Only status is required; the
// remaining members are advisory.
func errorResponseSchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]JSONSchema{
			"type":     {Type: "string", Description: "URI reference identifying the problem type"},
			"title":    {Type: "string", Description: "Short, human-readable summary of the problem type"},
			"status":   {Type: "integer", Description: "HTTP status code"},
			"detail":   {Type: "string", Description: "Explanation specific to this occurrence"},
			"instance": {Type: "string", Description: "URI reference identifying this occurrence"},
			"errors": {
				Type:        "array",
				Description: "Field-level validation failures",
				Items: &JSONSchema{
					Type: "object",
					Properties: map[string]JSONSchema{
						"field":   {Type: "string"},
						"message": {Type: "string"},
						"value":   {},
					},
				},
			},
		},
		Required: []string{"status"},
	}
}
