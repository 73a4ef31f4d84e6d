package api

import "reflect"

// schemaRegistry accumulates named schema definitions while converting
// types. One registry backs one document build; defs becomes the
// components.schemas map.
type schemaRegistry struct {
	source *descriptorSource
	defs   map[string]JSONSchema
}

func newSchemaRegistry() *schemaRegistry {
	return newSchemaRegistryFrom(newDescriptorSource())
}

func newSchemaRegistryFrom(source *descriptorSource) *schemaRegistry {
	return &schemaRegistry{source: source, defs: make(map[string]JSONSchema)}
}

// typeToSchema derives a descriptor for t and synthesizes it. Named
// definitions discovered along the way fold into defs, first writer
// wins.
func (reg *schemaRegistry) typeToSchema(t reflect.Type) JSONSchema {
	if t == nil {
		return JSONSchema{}
	}

	// A top-level pointer has no required list to be omitted from, so
	// optionality means nothing here; unwrap rather than render a null
	// branch.
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	schema, nested := reg.synthesize("", reg.source.derive(t))
	reg.fold(nested)
	return schema
}

// synthesize renders one descriptor. Named definitions the descriptor
// references, transitively, are synthesized into the returned nested
// map; the schema itself stops at reference paths. A non-empty name
// records the root schema under that name, claimed before the walk so
// self references terminate.
func (reg *schemaRegistry) synthesize(name string, td *TypeDescriptor) (JSONSchema, map[string]JSONSchema) {
	nested := make(map[string]JSONSchema)
	if name != "" {
		nested[name] = JSONSchema{}
	}
	schema := reg.synthesizeInto(td, nested)
	if name != "" {
		nested[name] = schema
	}
	return schema, nested
}

func (reg *schemaRegistry) synthesizeInto(td *TypeDescriptor, nested map[string]JSONSchema) JSONSchema {
	if td == nil {
		return JSONSchema{}
	}
	if td.Literal != nil {
		return *td.Literal
	}

	switch td.Kind {
	case KindString:
		return JSONSchema{
			Type:            "string",
			Format:          td.Format,
			ContentEncoding: td.ContentEncoding,
			Enum:            td.Enum,
			Description:     td.Description,
		}
	case KindInteger:
		return JSONSchema{
			Type:    "integer",
			Format:  td.Format,
			Minimum: td.Minimum,
			Maximum: td.Maximum,
		}
	case KindNumber:
		return JSONSchema{
			Type:    "number",
			Format:  td.Format,
			Minimum: td.Minimum,
			Maximum: td.Maximum,
		}
	case KindBoolean:
		return JSONSchema{Type: "boolean"}
	case KindArray:
		items := reg.synthesizeInto(td.Elem, nested)
		return JSONSchema{Type: "array", Items: &items}
	case KindMap:
		if td.Elem == nil {
			return JSONSchema{Type: "object"}
		}
		values := reg.synthesizeInto(td.Elem, nested)
		return JSONSchema{Type: "object", AdditionalProperties: &values}
	case KindObject:
		return reg.synthesizeObject(td, nested)
	case KindReference:
		reg.ensureDef(td.Ref, nested)
		return JSONSchema{Ref: schemaRefPath(td.Ref), Description: td.Description}
	case KindUnion:
		return reg.synthesizeUnion(td, nested)
	case KindOptional:
		schema := reg.synthesizeInto(td.Elem, nested)
		schema.Nullable = true
		return schema
	default:
		// Unrecognized shapes degrade to a permissive string so
		// synthesis never fails.
		return JSONSchema{Type: "string"}
	}
}

// synthesizeObject builds an object schema from field descriptors. A
// field is required exactly when its descriptor is not optional;
// required keeps declaration order.
func (reg *schemaRegistry) synthesizeObject(td *TypeDescriptor, nested map[string]JSONSchema) JSONSchema {
	schema := JSONSchema{
		Type:        "object",
		Properties:  make(map[string]JSONSchema),
		Description: td.Description,
	}

	patches := make(map[string]PropertyPatch, len(td.Fields))
	for _, f := range td.Fields {
		schema.Properties[f.Name] = reg.synthesizeInto(f.Type, nested)
		patches[f.Name] = f.Patch
		if f.Type == nil || f.Type.Kind != KindOptional {
			schema.Required = append(schema.Required, f.Name)
		}
	}

	schema.Merge(patches)
	if td.Transform != nil {
		return td.Transform(schema)
	}
	return schema
}

func (reg *schemaRegistry) synthesizeUnion(td *TypeDescriptor, nested map[string]JSONSchema) JSONSchema {
	schema := JSONSchema{Description: td.Description}

	var mapping map[string]string
	for _, v := range td.Variants {
		if v.Ref == "" {
			continue
		}
		reg.ensureDef(v.Ref, nested)
		schema.OneOf = append(schema.OneOf, JSONSchema{Ref: schemaRefPath(v.Ref)})
		if v.Tag != "" {
			if mapping == nil {
				mapping = make(map[string]string)
			}
			mapping[v.Tag] = schemaRefPath(v.Ref)
		}
	}

	if td.Discriminator != "" {
		schema.Discriminator = &Discriminator{PropertyName: td.Discriminator, Mapping: mapping}
	}
	return schema
}

// ensureDef synthesizes the named definition into nested unless some
// earlier call already produced it. The name is claimed before its
// body is walked, which is what lets cyclic type graphs terminate: the
// recursive use site sees the claim and stays a bare reference.
func (reg *schemaRegistry) ensureDef(name string, nested map[string]JSONSchema) {
	if name == "" {
		return
	}
	if _, ok := reg.defs[name]; ok {
		return
	}
	if _, ok := nested[name]; ok {
		return
	}
	td, ok := reg.source.named[name]
	if !ok {
		// Dangling reference. Left for the document closure check to
		// surface rather than failing synthesis.
		return
	}
	nested[name] = JSONSchema{}
	nested[name] = reg.synthesizeInto(td, nested)
}

func (reg *schemaRegistry) fold(nested map[string]JSONSchema) {
	for name, def := range nested {
		if _, ok := reg.defs[name]; !ok {
			reg.defs[name] = def
		}
	}
}

func schemaRefPath(name string) string {
	return "#/components/schemas/" + name
}
