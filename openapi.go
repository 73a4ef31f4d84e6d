package api

import (
	"encoding/json"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// OpenAPISpec is the top-level OpenAPI 3.1 document.
type OpenAPISpec struct {
	OpenAPI    string                `json:"openapi"`
	Info       OpenAPIInfo           `json:"info"`
	Servers    []Server              `json:"servers,omitempty"`
	Tags       []Tag                 `json:"tags,omitempty"`
	Paths      map[string]PathItem   `json:"paths"`
	Webhooks   map[string]PathItem   `json:"webhooks,omitempty"`
	Components *Components           `json:"components,omitempty"`
	Security   []map[string][]string `json:"security,omitempty"`
}

// OpenAPIInfo holds API metadata.
type OpenAPIInfo struct {
	Title       string   `json:"title"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
	License     *License `json:"license,omitempty"`
}

// Contact is the API contact information.
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// License is the API license information.
type License struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Server describes a server the API is available on.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Tag is a documented tag with an optional description.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PathItem maps lowercase HTTP methods to operations.
type PathItem map[string]Operation

// Operation is one method-and-path entry in the document.
type Operation struct {
	Summary      string                         `json:"summary,omitempty"`
	Description  string                         `json:"description,omitempty"`
	Tags         []string                       `json:"tags,omitempty"`
	OperationID  string                         `json:"operationId,omitempty"`
	Parameters   []Parameter                    `json:"parameters,omitempty"`
	RequestBody  *RequestBody                   `json:"requestBody,omitempty"`
	Responses    OperationResp                  `json:"responses"`
	Deprecated   bool                           `json:"deprecated,omitempty"`
	Security     *[]map[string][]string         `json:"security,omitempty"`
	Callbacks    map[string]map[string]PathItem `json:"callbacks,omitempty"`
	ExternalDocs *ExternalDocs                  `json:"externalDocs,omitempty"`

	// Extensions are rendered as top-level x- keys beside the fixed
	// fields.
	Extensions map[string]any `json:"-"`
}

// MarshalJSON inlines Extensions into the operation object.
func (o Operation) MarshalJSON() ([]byte, error) {
	type plain Operation
	b, err := json.Marshal(plain(o))
	if err != nil {
		return nil, err
	}
	if len(o.Extensions) == 0 {
		return b, nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range o.Extensions {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

// Parameter documents one path, query, header, or cookie input.
type Parameter struct {
	Name        string     `json:"name"`
	In          string     `json:"in"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Schema      JSONSchema `json:"schema"`
}

// RequestBody documents an operation's body across its media types.
type RequestBody struct {
	Required bool                `json:"required"`
	Content  map[string]MediaObj `json:"content"`
}

// MediaObj carries the schema for one media type, when one applies.
type MediaObj struct {
	Schema *JSONSchema `json:"schema,omitempty"`
}

// OperationResp maps status code strings to response objects.
type OperationResp map[string]ResponseObj

// ResponseObj documents one response of an operation.
type ResponseObj struct {
	Description string               `json:"description"`
	Headers     map[string]HeaderObj `json:"headers,omitempty"`
	Content     map[string]MediaObj  `json:"content,omitempty"`
	Links       map[string]Link      `json:"links,omitempty"`
}

// HeaderObj documents a response header.
type HeaderObj struct {
	Description string     `json:"description,omitempty"`
	Schema      JSONSchema `json:"schema"`
}

// Link is a design-time pointer from a response to another operation.
type Link struct {
	OperationID string         `json:"operationId,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ExternalDocs points to documentation hosted outside the document.
type ExternalDocs struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Components holds the reusable objects of the document.
type Components struct {
	Schemas         map[string]JSONSchema     `json:"schemas,omitempty"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes,omitempty"`
}

// SecurityScheme describes an authentication scheme.
type SecurityScheme struct {
	Type             string      `json:"type"`
	Description      string      `json:"description,omitempty"`
	Name             string      `json:"name,omitempty"`
	In               string      `json:"in,omitempty"`
	Scheme           string      `json:"scheme,omitempty"`
	BearerFormat     string      `json:"bearerFormat,omitempty"`
	Flows            *OAuthFlows `json:"flows,omitempty"`
	OpenIDConnectURL string      `json:"openIdConnectUrl,omitempty"`
}

// OAuthFlows holds the configured OAuth 2.0 flows of a scheme.
type OAuthFlows struct {
	Implicit          *OAuthFlow `json:"implicit,omitempty"`
	Password          *OAuthFlow `json:"password,omitempty"`
	ClientCredentials *OAuthFlow `json:"clientCredentials,omitempty"`
	AuthorizationCode *OAuthFlow `json:"authorizationCode,omitempty"`
}

// OAuthFlow is a single OAuth 2.0 flow configuration.
type OAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty"`
	RefreshURL       string            `json:"refreshUrl,omitempty"`
	Scopes           map[string]string `json:"scopes"`
}

// ResponseHeaderer is implemented by response types that document their
// response headers.
type ResponseHeaderer interface {
	ResponseHeaders() map[string]HeaderObj
}

// DuplicateSchemas returns the schema names claimed by more than one
// distinct Go type, sorted. Colliding names share a single components
// entry on a first-writer-wins basis, so a non-empty result usually
// means two packages declare same-named body types.
func (r *Router) DuplicateSchemas() []string {
	return r.types.duplicateNames()
}

// buildSpec assembles the OpenAPI 3.1 document from the resolved
// endpoint set.
func (r *Router) buildSpec(resolved []ResolvedEndpoint, codecs *codecRegistry) OpenAPISpec {
	spec := OpenAPISpec{
		OpenAPI: "3.1.0",
		Info: OpenAPIInfo{
			Title:       r.title,
			Version:     r.version,
			Description: r.description,
			Contact:     r.contact,
			License:     r.license,
		},
		Servers: r.servers,
		Paths:   make(map[string]PathItem),
	}

	reg := newSchemaRegistryFrom(r.types)

	for _, re := range resolved {
		path := toOpenAPIPath(re.Path)
		method := strings.ToLower(re.Endpoint.method)

		op := r.buildOperation(re, reg, codecs)

		if spec.Paths[path] == nil {
			spec.Paths[path] = make(PathItem)
		}
		spec.Paths[path][method] = op
	}

	if len(r.webhookItems) > 0 || len(r.webhooks) > 0 {
		spec.Webhooks = make(map[string]PathItem, len(r.webhookItems)+len(r.webhooks))
		for name, item := range r.webhookItems {
			spec.Webhooks[name] = item
		}
		for name, e := range r.webhooks {
			re := ResolvedEndpoint{
				Path:     joinPaths(e.path),
				Tags:     mergeUnique(e.tags),
				Security: mergeUnique(e.security),
				Endpoint: e,
			}
			item := spec.Webhooks[name]
			if item == nil {
				item = make(PathItem)
			}
			item[strings.ToLower(e.method)] = r.buildOperation(re, reg, codecs)
			spec.Webhooks[name] = item
		}
	}

	// Global security: one requirement object per scheme, so schemes
	// are alternatives rather than a conjunction.
	for _, scheme := range r.security {
		spec.Security = append(spec.Security, map[string][]string{scheme: {}})
	}

	for _, name := range slices.Sorted(maps.Keys(r.tagDescs)) {
		spec.Tags = append(spec.Tags, Tag{Name: name, Description: r.tagDescs[name]})
	}

	if len(reg.defs) > 0 || len(r.securitySchemes) > 0 {
		spec.Components = &Components{}
		if len(reg.defs) > 0 {
			spec.Components.Schemas = reg.defs
		}
		if len(r.securitySchemes) > 0 {
			spec.Components.SecuritySchemes = r.securitySchemes
		}
	}

	resolveEnumRefs(&spec, r.types)

	return spec
}

// buildOperation creates an Operation from a resolved endpoint. Schemas
// for named body and response types fold into reg as side effects.
func (r *Router) buildOperation(re ResolvedEndpoint, reg *schemaRegistry, codecs *codecRegistry) Operation {
	e := re.Endpoint

	op := Operation{
		Summary:      e.summary,
		Description:  e.desc,
		Tags:         re.Tags,
		OperationID:  e.operationID,
		Deprecated:   e.deprecated,
		Callbacks:    e.callbacks,
		ExternalDocs: e.externalDocs,
		Extensions:   e.extensions,
		Responses:    make(OperationResp),
	}

	if op.OperationID == "" {
		op.OperationID = generateOperationID(e.method, toOpenAPIPath(re.Path))
	}

	// Parameters and request body come from the request type.
	if e.reqType != nil && e.reqType != reflect.TypeFor[Void]() {
		op.Parameters = extractParameters(e.reqType)
		op.RequestBody = buildRequestBody(e.reqType, e.method, reg, codecs)
	}

	status := e.status
	if status == 0 {
		status = http.StatusOK
	}

	respType := e.respType
	canFail := false
	if respType != nil {
		if inner, ok := resultInner(respType); ok {
			respType = inner
			canFail = true
		}
	}

	op.Responses[strconv.Itoa(status)] = r.successResponse(e, respType, status, reg, codecs)

	// Operation security. A merged non-empty requirement list renders
	// one object per scheme; an explicit opt-out renders an empty array
	// so the global requirement does not apply.
	secured := false
	switch {
	case e.noSecurity:
		empty := []map[string][]string{}
		op.Security = &empty
	case len(re.Security) > 0:
		reqs := make([]map[string][]string, 0, len(re.Security))
		for _, scheme := range re.Security {
			reqs = append(reqs, map[string][]string{scheme: {}})
		}
		op.Security = &reqs
		secured = true
	default:
		secured = len(r.security) > 0
	}

	// Error responses: 400 and 500 on every operation, 404 for fallible
	// results, 422 when a body is validated, 401 and 403 when a
	// security requirement applies, plus any declared extras.
	codes := []int{http.StatusBadRequest, http.StatusInternalServerError}
	if canFail {
		codes = append(codes, http.StatusNotFound)
	}
	if op.RequestBody != nil {
		codes = append(codes, http.StatusUnprocessableEntity)
	}
	if secured {
		codes = append(codes, http.StatusUnauthorized, http.StatusForbidden)
	}
	codes = append(codes, e.errors...)

	for _, code := range codes {
		key := strconv.Itoa(code)
		if _, ok := op.Responses[key]; ok {
			continue
		}
		op.Responses[key] = errorResponse(code, reg)
	}

	return op
}

// successResponse documents the endpoint's success case for its
// response shape: empty for Void and 204, typed content in every
// negotiable format otherwise, with streaming shapes special-cased.
func (r *Router) successResponse(e *Endpoint, respType reflect.Type, status int, reg *schemaRegistry, codecs *codecRegistry) ResponseObj {
	switch {
	case respType == nil:
		return ResponseObj{Description: "Successful response"}

	case respType == reflect.TypeFor[Void]():
		return ResponseObj{Description: "No content"}

	case respType == reflect.TypeFor[Stream]():
		return ResponseObj{
			Description: "Successful response",
			Content:     map[string]MediaObj{"application/octet-stream": {}},
		}

	case respType == reflect.TypeFor[SSEStream]():
		return ResponseObj{
			Description: "Successful response",
			Content:     map[string]MediaObj{"text/event-stream": {Schema: &JSONSchema{Type: "string"}}},
		}

	case status == http.StatusNoContent:
		return ResponseObj{Description: "No content"}
	}

	schema := reg.typeToSchema(respType)
	content := make(map[string]MediaObj, len(codecs.encoders))
	for _, ct := range codecs.contentTypes() {
		s := schema
		content[ct] = MediaObj{Schema: &s}
	}

	resp := ResponseObj{
		Description: "Successful response",
		Content:     content,
	}
	if headers := responseHeadersOf(respType); headers != nil {
		resp.Headers = headers
	}
	if len(e.links) > 0 {
		resp.Links = e.links
	}
	return resp
}

var fallibleType = reflect.TypeFor[fallible]()

// resultInner unwraps a Result type to the value it carries.
func resultInner(t reflect.Type) (reflect.Type, bool) {
	if !t.Implements(fallibleType) && !reflect.PointerTo(t).Implements(fallibleType) {
		return t, false
	}
	f, ok := t.FieldByName("Value")
	if !ok {
		return t, false
	}
	return f.Type, true
}

var responseHeadererType = reflect.TypeFor[ResponseHeaderer]()

// responseHeadersOf returns the documented headers of a response type,
// or nil if the type does not implement ResponseHeaderer.
func responseHeadersOf(t reflect.Type) map[string]HeaderObj {
	if t.Implements(responseHeadererType) {
		return reflect.Zero(t).Interface().(ResponseHeaderer).ResponseHeaders()
	}
	if reflect.PointerTo(t).Implements(responseHeadererType) {
		return reflect.New(t).Interface().(ResponseHeaderer).ResponseHeaders()
	}
	return nil
}

// errorResponse documents one problem-details error response, folding
// the shared schema into reg on first use.
func errorResponse(code int, reg *schemaRegistry) ResponseObj {
	if _, ok := reg.defs[errorSchemaName]; !ok {
		reg.defs[errorSchemaName] = errorResponseSchema()
	}
	return ResponseObj{
		Description: http.StatusText(code),
		Content: map[string]MediaObj{
			"application/json": {Schema: &JSONSchema{Ref: schemaRefPath(errorSchemaName)}},
		},
	}
}

// extractParameters documents every param-tagged field of a request
// type. A field tagged for several surfaces documents once per surface.
func extractParameters(t reflect.Type) []Parameter {
	st, ok := structOf(t)
	if !ok {
		return nil
	}

	var params []Parameter
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		for _, tag := range paramTags {
			if name := f.Tag.Get(tag); name != "" {
				params = append(params, parameterFromField(f, tag, name))
			}
		}
	}

	return params
}

// parameterFromField documents one binding surface of one field. The
// OpenAPI "in" value coincides with the tag name. Path parameters are
// always required; everything else opts in via the required tag.
func parameterFromField(f reflect.StructField, tag, name string) Parameter {
	p := Parameter{
		Name:     name,
		In:       tag,
		Schema:   typeToSchema(f.Type),
		Required: tag == "path" || f.Tag.Get("required") == "true",
	}

	// Constraint tags annotate the parameter schema; the doc tag
	// describes the parameter itself.
	patch := applyConstraintTags(f)
	if patch.Description != nil {
		p.Description = *patch.Description
		patch.Description = nil
	}
	patch.apply(&p.Schema)

	return p
}

// buildRequestBody documents the request body of a request type, if it
// declares one. Form-bound requests document as multipart only; every
// other body is offered in each registered decoder format.
func buildRequestBody(t reflect.Type, method string, reg *schemaRegistry, codecs *codecRegistry) *RequestBody {
	st, ok := structOf(t)
	if !ok {
		return nil
	}

	if hasFormTags(st) {
		schema := formSchema(st)
		return &RequestBody{
			Required: true,
			Content: map[string]MediaObj{
				"multipart/form-data": {Schema: &schema},
			},
		}
	}

	var schema JSONSchema
	switch {
	case hasBodyField(st):
		bodyField, _ := st.FieldByName("Body")
		schema = reg.typeToSchema(bodyField.Type)
	case !hasParamTags(st) && !hasRawRequest(st) &&
		(method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch):
		schema = reg.typeToSchema(st)
	default:
		return nil
	}

	content := make(map[string]MediaObj, len(codecs.decoders))
	for _, ct := range codecs.decoderContentTypes() {
		s := schema
		content[ct] = MediaObj{Schema: &s}
	}
	return &RequestBody{Required: true, Content: content}
}

// formSchema builds the multipart body schema from form-tagged fields.
// Required fields are opt-in via the required tag.
func formSchema(t reflect.Type) JSONSchema {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema),
	}
	patches := make(map[string]PropertyPatch)

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Tag.Get("form")
		if name == "" {
			continue
		}

		schema.Properties[name] = typeToSchema(f.Type)
		patches[name] = applyConstraintTags(f)

		if f.Tag.Get("required") == "true" {
			schema.Required = append(schema.Required, name)
		}
	}

	schema.Merge(patches)
	return schema
}

// generateOperationID derives a camelCase operation id from the method
// and path: GET /users/{id} becomes getUsersById.
func generateOperationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))

	for part := range strings.SplitSeq(path, "/") {
		if part == "" {
			continue
		}
		if name, ok := strings.CutPrefix(part, "{"); ok {
			b.WriteString("By")
			b.WriteString(capitalize(strings.TrimSuffix(name, "}")))
			continue
		}
		b.WriteString(capitalize(part))
	}

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// toOpenAPIPath rewrites a mux pattern as an OpenAPI path. The only
// difference is the {name...} wildcard, which loses its ellipsis.
func toOpenAPIPath(pattern string) string {
	return strings.ReplaceAll(pattern, "...", "")
}
