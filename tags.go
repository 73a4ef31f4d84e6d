package api

import (
	"reflect"
	"strings"
)

// paramTags are the binding surfaces a request struct can draw from.
var paramTags = []string{"path", "query", "header", "cookie"}

// structOf unwraps a pointer type and reports whether what remains is
// a struct. The classification helpers below all start here.
func structOf(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

// anyField reports whether any field of the struct behind t satisfies
// pred. Non-structs have no fields and report false.
func anyField(t reflect.Type, pred func(reflect.StructField) bool) bool {
	st, ok := structOf(t)
	if !ok {
		return false
	}
	for i := range st.NumField() {
		if pred(st.Field(i)) {
			return true
		}
	}
	return false
}

// hasParamTags reports whether any exported field carries one of the
// parameter binding tags.
func hasParamTags(t reflect.Type) bool {
	return anyField(t, func(f reflect.StructField) bool {
		return f.IsExported() && isParamField(f)
	})
}

// hasRawRequest reports whether the type embeds RawRequest.
func hasRawRequest(t reflect.Type) bool {
	return anyField(t, func(f reflect.StructField) bool {
		return f.Type == reflect.TypeFor[RawRequest]()
	})
}

// hasBodyField reports whether the type declares a Body field.
func hasBodyField(t reflect.Type) bool {
	st, ok := structOf(t)
	if !ok {
		return false
	}
	_, found := st.FieldByName("Body")
	return found
}

// hasFormTags reports whether any exported field carries a form tag.
func hasFormTags(t reflect.Type) bool {
	return anyField(t, func(f reflect.StructField) bool {
		return f.IsExported() && f.Tag.Get("form") != ""
	})
}

// tagOptions splits a tag value into its name and the trailing
// comma-separated options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

// tagContains reports whether the options list includes name.
func tagContains(opts string, name string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == name {
			return true
		}
	}
	return false
}
