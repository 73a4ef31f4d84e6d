package api

import (
	"maps"
	"reflect"
	"slices"
)

// Enumerated is implemented by string types with a closed set of
// allowed values. Implementing types synthesize as a named enum schema
// and become candidates for inline-enum reference resolution.
type Enumerated interface {
	EnumValues() []string
}

// WithEnum registers the enum type T eagerly, making it a resolution
// candidate even when no endpoint mentions T directly: an inline
// enumeration whose values match T's exactly resolves to a reference
// and pulls the named schema into the document.
func WithEnum[T Enumerated]() RouterOption {
	return func(r *Router) {
		r.types.derive(reflect.TypeFor[T]())
	}
}

type enumCandidate struct {
	name   string
	values []string
	def    JSONSchema
}

// resolveEnumRefs replaces inline string enumerations with a reference
// to a registered enum schema whose value list matches exactly, in
// order. Candidates are tried in name order so resolution stays
// deterministic when two enums share a value list. No match leaves the
// inline enumeration alone.
func resolveEnumRefs(doc *OpenAPISpec, source *descriptorSource) {
	candidates := enumCandidates(doc, source)
	if len(candidates) == 0 {
		return
	}

	rewrite := func(s JSONSchema) JSONSchema {
		if s.Ref != "" || s.Type != "string" || len(s.Enum) == 0 {
			return s
		}
		for _, c := range candidates {
			if !slices.Equal(c.values, s.Enum) {
				continue
			}
			if doc.Components == nil {
				doc.Components = &Components{}
			}
			if doc.Components.Schemas == nil {
				doc.Components.Schemas = make(map[string]JSONSchema)
			}
			if _, ok := doc.Components.Schemas[c.name]; !ok {
				doc.Components.Schemas[c.name] = c.def
			}
			return JSONSchema{Ref: schemaRefPath(c.name), Description: s.Description}
		}
		return s
	}

	if doc.Components != nil {
		for _, name := range slices.Sorted(maps.Keys(doc.Components.Schemas)) {
			def := doc.Components.Schemas[name]
			rewriteSchema(&def, rewrite, true)
			doc.Components.Schemas[name] = def
		}
	}
	for _, path := range slices.Sorted(maps.Keys(doc.Paths)) {
		item := doc.Paths[path]
		rewritePathItem(item, rewrite)
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Webhooks)) {
		item := doc.Webhooks[name]
		rewritePathItem(item, rewrite)
	}
}

// enumCandidates gathers named enum schemas from the assembled
// components plus any registered enum types not yet folded in.
func enumCandidates(doc *OpenAPISpec, source *descriptorSource) []enumCandidate {
	byName := make(map[string]enumCandidate)

	if doc.Components != nil {
		for name, def := range doc.Components.Schemas {
			if def.Type == "string" && len(def.Enum) > 0 && def.Ref == "" {
				byName[name] = enumCandidate{name: name, values: def.Enum, def: def}
			}
		}
	}
	if source != nil {
		for name, td := range source.named {
			if _, ok := byName[name]; ok {
				continue
			}
			if td.Kind == KindString && len(td.Enum) > 0 {
				byName[name] = enumCandidate{
					name:   name,
					values: td.Enum,
					def:    JSONSchema{Type: "string", Enum: td.Enum, Description: td.Description},
				}
			}
		}
	}

	names := slices.Sorted(maps.Keys(byName))
	out := make([]enumCandidate, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out
}

// rewriteSchema applies rewrite to every non-root schema node. Root
// nodes are skipped so a named enum definition never collapses into a
// reference to itself.
func rewriteSchema(s *JSONSchema, rewrite func(JSONSchema) JSONSchema, root bool) {
	if !root {
		*s = rewrite(*s)
		if s.Ref != "" {
			return
		}
	}
	for name, prop := range s.Properties {
		rewriteSchema(&prop, rewrite, false)
		s.Properties[name] = prop
	}
	if s.Items != nil {
		rewriteSchema(s.Items, rewrite, false)
	}
	if s.AdditionalProperties != nil {
		rewriteSchema(s.AdditionalProperties, rewrite, false)
	}
	for i := range s.OneOf {
		rewriteSchema(&s.OneOf[i], rewrite, false)
	}
	for i := range s.AnyOf {
		rewriteSchema(&s.AnyOf[i], rewrite, false)
	}
	for i := range s.AllOf {
		rewriteSchema(&s.AllOf[i], rewrite, false)
	}
}

// rewritePathItem applies rewrite to every schema an operation carries.
// Unlike component definitions these are anonymous, so the top node is a
// candidate too: a parameter whose schema is itself an inline enum
// resolves to the named reference.
func rewritePathItem(item PathItem, rewrite func(JSONSchema) JSONSchema) {
	for method, op := range item {
		if op.RequestBody != nil {
			for ct, media := range op.RequestBody.Content {
				if media.Schema != nil {
					rewriteSchema(media.Schema, rewrite, false)
					op.RequestBody.Content[ct] = media
				}
			}
		}
		for code, resp := range op.Responses {
			for ct, media := range resp.Content {
				if media.Schema != nil {
					rewriteSchema(media.Schema, rewrite, false)
					resp.Content[ct] = media
				}
			}
			op.Responses[code] = resp
		}
		for i := range op.Parameters {
			rewriteSchema(&op.Parameters[i].Schema, rewrite, false)
		}
		item[method] = op
	}
}
