package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/specforge/api"
)

// ValidateSpec asserts that the router's generated OpenAPI document is
// internally consistent: every $ref resolves to a component schema, every
// security requirement names a declared scheme, operation ids are unique,
// and the document as a whole passes openapi3 validation. Any problem
// fails the test.
func ValidateSpec(t testing.TB, r *api.Router) {
	t.Helper()

	data, err := json.Marshal(r.Spec())
	if err != nil {
		t.Fatalf("apitest: marshal spec: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("apitest: decode spec: %v", err)
	}

	for _, problem := range auditDocument(doc) {
		t.Errorf("apitest: %s", problem)
	}

	// The openapi3 package speaks 3.0, so validate a downleveled copy.
	downlevel(doc)
	leveled, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("apitest: marshal downleveled spec: %v", err)
	}

	loader := openapi3.NewLoader()
	parsed, err := loader.LoadFromData(leveled)
	if err != nil {
		t.Fatalf("apitest: load spec: %v", err)
	}
	if err := parsed.Validate(context.Background()); err != nil {
		t.Errorf("apitest: invalid OpenAPI document: %v", err)
	}
}

// auditDocument checks the invariants the generator is supposed to uphold
// and returns one message per violation.
func auditDocument(doc map[string]any) []string {
	var problems []string

	schemas := namesAt(doc, "components", "schemas")
	schemes := namesAt(doc, "components", "securitySchemes")

	var walkRefs func(v any)
	walkRefs = func(v any) {
		switch node := v.(type) {
		case map[string]any:
			if ref, ok := node["$ref"].(string); ok {
				name, local := strings.CutPrefix(ref, "#/components/schemas/")
				switch {
				case !local:
					problems = append(problems, fmt.Sprintf("unsupported $ref target %q", ref))
				case !schemas[name]:
					problems = append(problems, fmt.Sprintf("$ref %q has no component schema", ref))
				}
			}
			for _, child := range node {
				walkRefs(child)
			}
		case []any:
			for _, child := range node {
				walkRefs(child)
			}
		}
	}
	walkRefs(doc)

	checkRequirements := func(v any, where string) {
		reqs, ok := v.([]any)
		if !ok {
			return
		}
		for _, req := range reqs {
			m, ok := req.(map[string]any)
			if !ok {
				continue
			}
			for name := range m {
				if !schemes[name] {
					problems = append(problems, fmt.Sprintf("%s names undeclared security scheme %q", where, name))
				}
			}
		}
	}
	checkRequirements(doc["security"], "global security")

	seen := make(map[string]string)
	forEachOperation(doc, func(where string, op map[string]any) {
		if v, ok := op["security"]; ok {
			checkRequirements(v, where)
		}
		id, _ := op["operationId"].(string)
		if id == "" {
			return
		}
		if first, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("operationId %q used by both %s and %s", id, first, where))
		} else {
			seen[id] = where
		}
	})

	return problems
}

// forEachOperation visits every operation under paths and webhooks.
func forEachOperation(doc map[string]any, visit func(where string, op map[string]any)) {
	for _, section := range []string{"paths", "webhooks"} {
		items, ok := doc[section].(map[string]any)
		if !ok {
			continue
		}
		for key, v := range items {
			item, ok := v.(map[string]any)
			if !ok {
				continue
			}
			for method, opRaw := range item {
				if op, ok := opRaw.(map[string]any); ok {
					visit(strings.ToUpper(method)+" "+key, op)
				}
			}
		}
	}
}

// namesAt returns the set of keys of the map reached by walking path.
func namesAt(doc map[string]any, path ...string) map[string]bool {
	cur := any(doc)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return nil
	}
	names := make(map[string]bool, len(m))
	for k := range m {
		names[k] = true
	}
	return names
}

// downlevel rewrites the 3.1 constructs the openapi3 loader rejects into
// their 3.0 equivalents. Null-branch anyOf collapses to nullable, webhooks
// and contentEncoding are dropped.
func downlevel(doc map[string]any) {
	doc["openapi"] = "3.0.3"
	delete(doc, "webhooks")
	stripForV30(doc)
}

func stripForV30(v any) {
	switch node := v.(type) {
	case map[string]any:
		delete(node, "contentEncoding")
		collapseNullable(node)
		for _, child := range node {
			stripForV30(child)
		}
	case []any:
		for _, child := range node {
			stripForV30(child)
		}
	}
}

// collapseNullable turns {anyOf: [base, {type: null}]} into base plus
// nullable: true. A bare reference base keeps an allOf wrapper since 3.0
// forbids keywords next to $ref.
func collapseNullable(node map[string]any) {
	branches, ok := node["anyOf"].([]any)
	if !ok || len(branches) != 2 {
		return
	}
	first, _ := branches[0].(map[string]any)
	second, _ := branches[1].(map[string]any)

	var base map[string]any
	switch {
	case isNullSchema(second):
		base = first
	case isNullSchema(first):
		base = second
	default:
		return
	}
	if base == nil {
		return
	}

	delete(node, "anyOf")
	node["nullable"] = true
	if ref, ok := base["$ref"]; ok && len(base) == 1 {
		node["allOf"] = []any{map[string]any{"$ref": ref}}
		return
	}
	for k, v := range base {
		if _, exists := node[k]; !exists {
			node[k] = v
		}
	}
}

func isNullSchema(m map[string]any) bool {
	return len(m) == 1 && m["type"] == "null"
}
