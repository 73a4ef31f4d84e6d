package api

import (
	"reflect"
	"slices"
	"time"
)

// Kind identifies the structural shape of a TypeDescriptor.
// The zero value is KindString so that unrecognized or partially
// built descriptors degrade to a permissive string schema.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindNumber
	KindBoolean
	KindArray
	KindObject
	KindMap
	KindReference
	KindUnion
	KindOptional
)

// TypeDescriptor is the structural description of one type, produced
// once at registration time and read-only afterward. Named types are
// held by the descriptorSource under their name; every use site of a
// named type is a KindReference, never an inline copy.
type TypeDescriptor struct {
	Kind Kind

	// Name is set on descriptors stored in the source's named map.
	Name string

	// Fields describes object members, in declaration order.
	Fields []FieldDescriptor

	// Elem is the array item, map value, or optional inner descriptor.
	Elem *TypeDescriptor

	// Ref is the target name for KindReference.
	Ref string

	// Enum is the ordered allowed-value list for string enumerations.
	Enum []string

	// Variants and Discriminator describe a KindUnion.
	Variants      []VariantDescriptor
	Discriminator string

	Format          string
	ContentEncoding string
	Description     string

	// Intrinsic bounds carried by the type itself, such as the
	// unsigned-integer lower bound.
	Minimum *float64
	Maximum *float64

	// Literal is a schema the type supplied through SchemaProvider; it
	// bypasses structural synthesis entirely.
	Literal *JSONSchema

	// Transform is the type's SchemaTransformer hook, applied after
	// the object body is synthesized.
	Transform func(JSONSchema) JSONSchema
}

// FieldDescriptor is one object member. Optionality is expressed by
// wrapping the field type in KindOptional; required-ness is computed
// from that, never stored.
type FieldDescriptor struct {
	// Name is the externally visible (post json-tag) field name.
	Name string

	Type *TypeDescriptor

	// Patch carries the validation annotations extracted from the
	// field's struct tags, applied after synthesis.
	Patch PropertyPatch
}

// VariantDescriptor names one alternative of a discriminated union.
type VariantDescriptor struct {
	Tag string
	Ref string
}

// descriptorSource derives and stores named TypeDescriptors. It is
// written during startup registration and read-only once serving
// begins, so synthesis needs no locking.
type descriptorSource struct {
	named  map[string]*TypeDescriptor
	owners map[string]reflect.Type
	dupes  map[string]bool

	unions map[reflect.Type]unionDescriptor
}

type unionDescriptor struct {
	discriminator string
	variants      []unionVariantRef
}

type unionVariantRef struct {
	tag string
	typ reflect.Type
}

func newDescriptorSource() *descriptorSource {
	return &descriptorSource{
		named:  make(map[string]*TypeDescriptor),
		owners: make(map[string]reflect.Type),
		dupes:  make(map[string]bool),
		unions: make(map[reflect.Type]unionDescriptor),
	}
}

var enumeratedType = reflect.TypeFor[Enumerated]()

// derive produces a descriptor for t. Named structs, enums, and unions
// are claimed in the named map before their bodies are derived, so
// self- and mutually-referential types terminate: the use site always
// comes back as a KindReference.
func (src *descriptorSource) derive(t reflect.Type) *TypeDescriptor {
	if t == nil {
		return nil
	}

	if t.Kind() == reflect.Pointer {
		return &TypeDescriptor{Kind: KindOptional, Elem: src.derive(t.Elem())}
	}

	// Well-known types come first so they never register as named defs.
	switch t {
	case reflect.TypeFor[time.Time]():
		return &TypeDescriptor{Kind: KindString, Format: "date-time"}
	case reflect.TypeFor[time.Duration]():
		return &TypeDescriptor{Kind: KindString, Format: "duration"}
	case reflect.TypeFor[Void](), reflect.TypeFor[Stream](), reflect.TypeFor[SSEStream]():
		return nil
	case reflect.TypeFor[FileUpload]():
		return &TypeDescriptor{Kind: KindString, Format: "binary"}
	}

	if s := providedSchema(t); s != nil {
		return &TypeDescriptor{Literal: s}
	}

	if u, ok := src.unions[t]; ok {
		return src.referenceUnion(t, u)
	}

	if isEnumerated(t) {
		return src.referenceEnum(t)
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return &TypeDescriptor{Kind: KindString}
	case reflect.Bool:
		return &TypeDescriptor{Kind: KindBoolean}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &TypeDescriptor{Kind: KindInteger}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		zero := 0.0
		return &TypeDescriptor{Kind: KindInteger, Minimum: &zero}
	case reflect.Float32, reflect.Float64:
		return &TypeDescriptor{Kind: KindNumber}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &TypeDescriptor{Kind: KindString, ContentEncoding: "base64"}
		}
		return &TypeDescriptor{Kind: KindArray, Elem: src.derive(t.Elem())}
	case reflect.Array:
		return &TypeDescriptor{Kind: KindArray, Elem: src.derive(t.Elem())}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &TypeDescriptor{Kind: KindMap}
		}
		return &TypeDescriptor{Kind: KindMap, Elem: src.derive(t.Elem())}
	case reflect.Struct:
		if t.Name() == "" {
			return src.deriveStruct(t, "")
		}
		return src.referenceStruct(t)
	default:
		// chan, func, interface, unsafe pointers: degrade to string so
		// derivation is total.
		return &TypeDescriptor{Kind: KindString}
	}
}

// referenceStruct registers the full object descriptor for a named
// struct type and returns a reference to it. The name is claimed
// before the body is derived; a recursive use site sees the claim and
// stops at the reference.
func (src *descriptorSource) referenceStruct(t reflect.Type) *TypeDescriptor {
	name := t.Name()
	src.claim(name, t)
	if _, ok := src.named[name]; !ok {
		src.named[name] = &TypeDescriptor{Kind: KindObject, Name: name}
		*src.named[name] = *src.deriveStruct(t, name)
	}
	return &TypeDescriptor{Kind: KindReference, Ref: name}
}

func (src *descriptorSource) referenceEnum(t reflect.Type) *TypeDescriptor {
	name := t.Name()
	src.claim(name, t)
	if _, ok := src.named[name]; !ok {
		src.named[name] = &TypeDescriptor{
			Kind: KindString,
			Name: name,
			Enum: enumValuesOf(t),
		}
	}
	return &TypeDescriptor{Kind: KindReference, Ref: name}
}

func (src *descriptorSource) referenceUnion(t reflect.Type, u unionDescriptor) *TypeDescriptor {
	name := t.Name()
	src.claim(name, t)
	if _, ok := src.named[name]; !ok {
		td := &TypeDescriptor{
			Kind:          KindUnion,
			Name:          name,
			Discriminator: u.discriminator,
		}
		src.named[name] = td
		for _, v := range u.variants {
			ref := src.derive(v.typ)
			target := ""
			if ref != nil && ref.Kind == KindReference {
				target = ref.Ref
			}
			td.Variants = append(td.Variants, VariantDescriptor{Tag: v.tag, Ref: target})
		}
	}
	return &TypeDescriptor{Kind: KindReference, Ref: name}
}

// claim records name ownership so duplicate type names of differing
// identity are surfaced instead of silently merged.
func (src *descriptorSource) claim(name string, t reflect.Type) {
	if owner, ok := src.owners[name]; ok {
		if owner != t {
			src.dupes[name] = true
		}
		return
	}
	src.owners[name] = t
}

// deriveStruct builds the object descriptor for a struct type, keyed
// by post-rename field names. Binding-only fields never appear in the
// body shape.
func (src *descriptorSource) deriveStruct(t reflect.Type, name string) *TypeDescriptor {
	td := &TypeDescriptor{Kind: KindObject, Name: name, Transform: schemaTransform(t)}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if isParamField(f) || f.Tag.Get("form") != "" {
			continue
		}
		if f.Type == reflect.TypeFor[RawRequest]() {
			continue
		}

		fieldName := jsonFieldName(f)
		if fieldName == "-" {
			continue
		}

		td.Fields = append(td.Fields, FieldDescriptor{
			Name:  fieldName,
			Type:  src.derive(f.Type),
			Patch: applyConstraintTags(f),
		})
	}

	return td
}

// duplicateNames returns the sorted names claimed by more than one
// distinct type.
func (src *descriptorSource) duplicateNames() []string {
	if len(src.dupes) == 0 {
		return nil
	}
	names := make([]string, 0, len(src.dupes))
	for name := range src.dupes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func isEnumerated(t reflect.Type) bool {
	if t.Kind() != reflect.String || t.Name() == "" {
		return false
	}
	return t.Implements(enumeratedType) || reflect.PointerTo(t).Implements(enumeratedType)
}

func enumValuesOf(t reflect.Type) []string {
	if t.Implements(enumeratedType) {
		return reflect.New(t).Elem().Interface().(Enumerated).EnumValues()
	}
	return reflect.New(t).Interface().(Enumerated).EnumValues()
}
