package api

import (
	"reflect"
	"strconv"
	"strings"
)

// PropertyPatch carries field-level schema annotations collected from
// struct tags. Nil fields mean "leave the synthesized value alone", so
// a zero patch is a no-op.
type PropertyPatch struct {
	Description *string
	Example     *string
	Default     *string
	Format      *string
	Pattern     *string
	Enum        []string
	MinLength   *int
	MaxLength   *int
	MinItems    *int
	MaxItems    *int
	Minimum     *float64
	Maximum     *float64
	ReadOnly    *bool
	WriteOnly   *bool
}

// Merge applies patches onto the schema's properties, keyed by the
// externally visible property name. Present patch fields overwrite;
// absent ones leave the synthesized value untouched. Names without a
// matching property are ignored.
func (s *JSONSchema) Merge(patches map[string]PropertyPatch) {
	for name, patch := range patches {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		patch.apply(&prop)
		s.Properties[name] = prop
	}
}

// apply overwrites s with the patch's present fields.
func (p PropertyPatch) apply(s *JSONSchema) {
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Example != nil {
		s.Example = *p.Example
	}
	if p.Default != nil {
		s.Default = *p.Default
	}
	if p.Format != nil {
		s.Format = *p.Format
	}
	if p.Pattern != nil {
		s.Pattern = *p.Pattern
	}
	if p.Enum != nil {
		s.Enum = p.Enum
	}
	if p.MinLength != nil {
		s.MinLength = p.MinLength
	}
	if p.MaxLength != nil {
		s.MaxLength = p.MaxLength
	}
	if p.MinItems != nil {
		s.MinItems = p.MinItems
	}
	if p.MaxItems != nil {
		s.MaxItems = p.MaxItems
	}
	if p.Minimum != nil {
		s.Minimum = p.Minimum
	}
	if p.Maximum != nil {
		s.Maximum = p.Maximum
	}
	if p.ReadOnly != nil {
		s.ReadOnly = *p.ReadOnly
	}
	if p.WriteOnly != nil {
		s.WriteOnly = *p.WriteOnly
	}
}

// applyConstraintTags extracts the schema annotations declared on a
// struct field. Tag values mirror the runtime constraint checks, so a
// documented bound is also an enforced one.
func applyConstraintTags(f reflect.StructField) PropertyPatch {
	var patch PropertyPatch

	if tag := f.Tag.Get("doc"); tag != "" {
		patch.Description = &tag
	}
	if tag := f.Tag.Get("example"); tag != "" {
		patch.Example = &tag
	}
	if tag := f.Tag.Get("default"); tag != "" {
		patch.Default = &tag
	}
	if tag := f.Tag.Get("format"); tag != "" {
		patch.Format = &tag
	}
	if tag := f.Tag.Get("pattern"); tag != "" {
		patch.Pattern = &tag
	}
	if tag := f.Tag.Get("enum"); tag != "" {
		patch.Enum = strings.Split(tag, ",")
	}
	if tag := f.Tag.Get("minLength"); tag != "" {
		if n, err := strconv.Atoi(tag); err == nil {
			patch.MinLength = &n
		}
	}
	if tag := f.Tag.Get("maxLength"); tag != "" {
		if n, err := strconv.Atoi(tag); err == nil {
			patch.MaxLength = &n
		}
	}
	if tag := f.Tag.Get("minItems"); tag != "" {
		if n, err := strconv.Atoi(tag); err == nil {
			patch.MinItems = &n
		}
	}
	if tag := f.Tag.Get("maxItems"); tag != "" {
		if n, err := strconv.Atoi(tag); err == nil {
			patch.MaxItems = &n
		}
	}
	if tag := f.Tag.Get("minimum"); tag != "" {
		if v, err := strconv.ParseFloat(tag, 64); err == nil {
			patch.Minimum = &v
		}
	}
	if tag := f.Tag.Get("maximum"); tag != "" {
		if v, err := strconv.ParseFloat(tag, 64); err == nil {
			patch.Maximum = &v
		}
	}
	if tag := f.Tag.Get("readOnly"); tag == "true" {
		yes := true
		patch.ReadOnly = &yes
	}
	if tag := f.Tag.Get("writeOnly"); tag == "true" {
		yes := true
		patch.WriteOnly = &yes
	}

	return patch
}
