package api

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// validateConstraints checks every constraint tag on the struct's fields
// and returns a ProblemDetail listing all violations. Constraints are
// read through the same tag extraction that feeds the schema, so the
// documented bounds are exactly the enforced ones.
func validateConstraints(v any) error {
	rv := structValue(v)
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var found constraintErrors
	found.walk(rv, "")
	if len(found.list) == 0 {
		return nil
	}

	return &ProblemDetail{
		Type:   "about:blank",
		Title:  "Validation Failed",
		Status: http.StatusUnprocessableEntity,
		Detail: fmt.Sprintf("%d constraint violation(s)", len(found.list)),
		Errors: found.list,
	}
}

// constraintErrors accumulates violations across the field walk.
type constraintErrors struct {
	list []ValidationError
}

func (c *constraintErrors) add(path, message string, value any) {
	c.list = append(c.list, ValidationError{Field: path, Message: message, Value: value})
}

func (c *constraintErrors) walk(rv reflect.Value, prefix string) {
	t := rv.Type()

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Type == reflect.TypeFor[RawRequest]() {
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		fv := rv.Field(i)

		// Violations inside the request body are reported under "body"
		// no matter what the wrapper field is called.
		if f.Name == "Body" && f.Type.Kind() == reflect.Struct {
			c.walk(fv, "body")
			continue
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		c.check(f, fv, path)

		if fv.Kind() == reflect.Struct && !isParamField(f) {
			c.walk(fv, path)
		}
	}
}

// check validates one field's value against its declared constraints.
// The string, numeric, and slice rule sets are disjoint per kind.
func (c *constraintErrors) check(f reflect.StructField, fv reflect.Value, path string) {
	rules := applyConstraintTags(f)

	switch {
	case fv.Kind() == reflect.String:
		c.checkString(rules, fv.String(), path)
	case isNumericKind(fv.Kind()):
		c.checkNumber(rules, toFloat64(fv), path)
	case fv.Kind() == reflect.Slice:
		c.checkSlice(rules, fv.Len(), path)
	}
}

func (c *constraintErrors) checkString(rules PropertyPatch, val, path string) {
	if rules.MinLength != nil && len(val) < *rules.MinLength {
		c.add(path, fmt.Sprintf("must be at least %d characters", *rules.MinLength), val)
	}
	if rules.MaxLength != nil && len(val) > *rules.MaxLength {
		c.add(path, fmt.Sprintf("must be at most %d characters", *rules.MaxLength), val)
	}
	if rules.Pattern != nil && !matchPattern(*rules.Pattern, val) {
		c.add(path, "must match pattern "+*rules.Pattern, val)
	}
	if len(rules.Enum) > 0 && !slices.Contains(rules.Enum, val) {
		c.add(path, fmt.Sprintf("must be one of [%s]", strings.Join(rules.Enum, ",")), val)
	}
}

func (c *constraintErrors) checkNumber(rules PropertyPatch, val float64, path string) {
	if rules.Minimum != nil && val < *rules.Minimum {
		c.add(path, "must be at least "+formatBound(*rules.Minimum), val)
	}
	if rules.Maximum != nil && val > *rules.Maximum {
		c.add(path, "must be at most "+formatBound(*rules.Maximum), val)
	}
}

func (c *constraintErrors) checkSlice(rules PropertyPatch, length int, path string) {
	if rules.MinItems != nil && length < *rules.MinItems {
		c.add(path, fmt.Sprintf("must have at least %d items", *rules.MinItems), length)
	}
	if rules.MaxItems != nil && length > *rules.MaxItems {
		c.add(path, fmt.Sprintf("must have at most %d items", *rules.MaxItems), length)
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// patternCache holds compiled pattern tags. Patterns come from struct
// tags, so the set is small and fixed for the life of the process.
var patternCache sync.Map

// matchPattern reports whether val matches the tag's regular expression.
// Unparseable patterns match everything rather than rejecting requests.
func matchPattern(pattern, val string) bool {
	if cached, ok := patternCache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re == nil || re.MatchString(val)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	patternCache.Store(pattern, re)
	return re == nil || re.MatchString(val)
}

func isNumericKind(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// toFloat64 widens any numeric value for bound comparisons.
func toFloat64(v reflect.Value) float64 {
	return v.Convert(reflect.TypeFor[float64]()).Float()
}
