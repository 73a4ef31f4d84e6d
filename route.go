package api

import (
	"net/http"
	"reflect"
)

// Endpoint describes one declared operation: the method and path
// template it answers, the metadata that documents it, and a factory
// for its runtime handler. Endpoints are built by the registration
// functions, recorded in a Registry, and composed into paths when the
// router freezes. They are immutable once registration returns.
type Endpoint struct {
	method     string
	path       string
	summary    string
	desc       string
	tags       []string
	status     int
	deprecated bool
	errors     []int

	operationID string
	security    []string
	noSecurity  bool

	extensions   map[string]any
	links        map[string]Link
	callbacks    map[string]map[string]PathItem
	externalDocs *ExternalDocs

	bodyLimit int64

	reqType  reflect.Type
	respType reflect.Type

	newHandler func(deps handlerDeps) http.Handler
}

// Method returns the HTTP method the endpoint was declared with.
func (e *Endpoint) Method() string { return e.method }

// Path returns the raw path template the endpoint was declared with,
// before any group prefixes apply.
func (e *Endpoint) Path() string { return e.path }

// RouteOption configures an endpoint at registration time.
type RouteOption func(*Endpoint)

// WithStatus sets the success HTTP status code for the response.
func WithStatus(code int) RouteOption {
	return func(e *Endpoint) {
		e.status = code
	}
}

// WithSummary sets the OpenAPI summary for the endpoint.
func WithSummary(s string) RouteOption {
	return func(e *Endpoint) {
		e.summary = s
	}
}

// WithDescription sets the OpenAPI description for the endpoint.
func WithDescription(d string) RouteOption {
	return func(e *Endpoint) {
		e.desc = d
	}
}

// WithTags adds OpenAPI tags to the endpoint.
func WithTags(tags ...string) RouteOption {
	return func(e *Endpoint) {
		e.tags = append(e.tags, tags...)
	}
}

// WithDeprecated marks the endpoint as deprecated in the OpenAPI spec.
func WithDeprecated() RouteOption {
	return func(e *Endpoint) {
		e.deprecated = true
	}
}

// WithErrors documents extra error status codes the operation can
// produce, beyond the derived set.
func WithErrors(codes ...int) RouteOption {
	return func(e *Endpoint) {
		e.errors = append(e.errors, codes...)
	}
}

// WithOperationID overrides the operationId derived from the method
// and path.
func WithOperationID(id string) RouteOption {
	return func(e *Endpoint) {
		e.operationID = id
	}
}

// WithSecurity adds security scheme requirements for this endpoint.
// Group and global requirements still apply; schemes merge.
func WithSecurity(schemes ...string) RouteOption {
	return func(e *Endpoint) {
		e.security = append(e.security, schemes...)
	}
}

// WithNoSecurity disables security for this endpoint, overriding any
// inherited or global requirements.
func WithNoSecurity() RouteOption {
	return func(e *Endpoint) {
		e.noSecurity = true
	}
}

// WithExtension attaches a vendor extension to the operation. Keys
// must start with "x-".
func WithExtension(key string, value any) RouteOption {
	return func(e *Endpoint) {
		if e.extensions == nil {
			e.extensions = make(map[string]any)
		}
		e.extensions[key] = value
	}
}

// WithLink adds an OpenAPI link to the operation's success response.
func WithLink(name string, link Link) RouteOption {
	return func(e *Endpoint) {
		if e.links == nil {
			e.links = make(map[string]Link)
		}
		e.links[name] = link
	}
}

// WithBodyLimit sets a per-endpoint maximum request body size in bytes.
// This overrides any global BodyLimit middleware for this endpoint.
func WithBodyLimit(maxBytes int64) RouteOption {
	return func(e *Endpoint) {
		e.bodyLimit = maxBytes
	}
}

// WithCallback documents an out-of-band callback the operation may
// trigger.
func WithCallback(name string, cb map[string]PathItem) RouteOption {
	return func(e *Endpoint) {
		if e.callbacks == nil {
			e.callbacks = make(map[string]map[string]PathItem)
		}
		e.callbacks[name] = cb
	}
}

// WithExternalDocs attaches an external documentation link to the operation.
func WithExternalDocs(url, description string) RouteOption {
	return func(e *Endpoint) {
		e.externalDocs = &ExternalDocs{URL: url, Description: description}
	}
}
