package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Router owns the endpoint registry, the top-level composition tree,
// document configuration, and the HTTP mux. It implements http.Handler.
//
// Registration is a start-up activity: the router freezes on first use
// (serving a request or building the document), after which the
// endpoint set and the document are fixed. Registering endpoints or
// mutating groups after the freeze panics.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware

	registry *Registry
	types    *descriptorSource

	endpoints []*Endpoint
	groups    []*Group

	title       string
	version     string
	description string
	contact     *Contact
	license     *License

	servers         []Server
	securitySchemes map[string]SecurityScheme
	security        []string
	tagDescs        map[string]string

	webhooks     map[string]*Endpoint
	webhookItems map[string]PathItem

	validator    Validator
	errorHandler ErrorHandler

	encoders []Encoder
	decoders []Decoder

	tracer SpanStarter

	freezeOnce sync.Once
	frozen     atomic.Bool
	spec       OpenAPISpec

	mu sync.Mutex
}

// RouterOption configures a Router at construction.
type RouterOption func(*Router)

// WithTitle sets the document's info.title.
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// WithVersion sets the document's info.version.
func WithVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// WithAPIDescription sets the document's info.description.
func WithAPIDescription(desc string) RouterOption {
	return func(r *Router) {
		r.description = desc
	}
}

// WithContact fills the document's info.contact block.
func WithContact(c Contact) RouterOption {
	return func(r *Router) {
		r.contact = &c
	}
}

// WithLicense fills the document's info.license block.
func WithLicense(l License) RouterOption {
	return func(r *Router) {
		r.license = &l
	}
}

// WithValidator installs a router-wide hook that runs against every
// decoded request, after binding and constraint checks.
func WithValidator(v Validator) RouterOption {
	return func(r *Router) {
		r.validator = v
	}
}

// WithServers declares the servers the document advertises.
func WithServers(servers ...Server) RouterOption {
	return func(r *Router) {
		r.servers = servers
	}
}

// WithSecurityScheme defines a named scheme under
// components.securitySchemes. Routes and groups reference it by name.
func WithSecurityScheme(name string, scheme SecurityScheme) RouterOption {
	return func(r *Router) {
		if r.securitySchemes == nil {
			r.securitySchemes = make(map[string]SecurityScheme)
		}
		r.securitySchemes[name] = scheme
	}
}

// WithGlobalSecurity names the schemes required by default. Operations
// without their own or inherited requirements fall back to these.
func WithGlobalSecurity(schemes ...string) RouterOption {
	return func(r *Router) {
		r.security = append(r.security, schemes...)
	}
}

// WithTagDescriptions attaches descriptions to the tag names routes
// declare. Tags without a description are still listed.
func WithTagDescriptions(descs map[string]string) RouterOption {
	return func(r *Router) {
		r.tagDescs = descs
	}
}

// WithRegistry shares a pre-populated endpoint registry with the
// router. When nothing is attached to the router directly, the
// registry's endpoints are served and documented as declared.
func WithRegistry(reg *Registry) RouterOption {
	return func(r *Router) {
		r.registry = reg
	}
}

// ErrorHandler writes the response for a handler or binding error.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithErrorHandler replaces the default problem-detail error writer.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// WithEncoder adds a negotiable response format alongside the built-in
// JSON and XML encoders.
func WithEncoder(enc Encoder) RouterOption {
	return func(r *Router) {
		r.encoders = append(r.encoders, enc)
	}
}

// WithDecoder adds an accepted request body format alongside the
// built-in JSON and XML decoders.
func WithDecoder(dec Decoder) RouterOption {
	return func(r *Router) {
		r.decoders = append(r.decoders, dec)
	}
}

// WithWebhook registers a hand-authored webhook path item for the
// document. For webhooks derived from typed endpoints, use
// Router.Webhook instead.
func WithWebhook(name string, item PathItem) RouterOption {
	return func(r *Router) {
		if r.webhookItems == nil {
			r.webhookItems = make(map[string]PathItem)
		}
		r.webhookItems[name] = item
	}
}

// SpanStarter opens a span around each handled request. Implement it
// with your preferred tracing backend.
type SpanStarter interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, func())
}

// WithTracer installs a per-request tracing hook.
func WithTracer(s SpanStarter) RouterOption {
	return func(r *Router) {
		r.tracer = s
	}
}

// New constructs a Router ready for registration.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		registry: NewRegistry(),
		types:    newDescriptorSource(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the router's endpoint registry. Registering against
// it directly records an endpoint without attaching it to the
// composition tree.
func (r *Router) Registry() *Registry { return r.registry }

// Use appends router-wide middleware, applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	if r.isFrozen() {
		panic("api: middleware added after router freeze")
	}
	r.middleware = append(r.middleware, mw...)
}

// Route attaches an endpoint declared elsewhere to the router's
// top-level composition. Like any attachment it switches the document
// to explicit mode, so unattached registry entries stop being served.
func (r *Router) Route(e *Endpoint) {
	r.enroll(e)
}

// Include attaches a group to the router's top-level composition.
func (r *Router) Include(g *Group) {
	if r.isFrozen() {
		panic("api: group attached after router freeze")
	}
	if g.router != nil {
		panic("api: group already attached")
	}
	g.bind(r)
	r.mu.Lock()
	r.groups = append(r.groups, g)
	r.mu.Unlock()
}

// Webhook documents the endpoint under the given logical name in the
// webhooks section. The endpoint is not served unless it is also
// attached to the composition tree.
func (r *Router) Webhook(name string, e *Endpoint) {
	if r.isFrozen() {
		panic("api: webhook added after router freeze")
	}
	r.mu.Lock()
	if r.webhooks == nil {
		r.webhooks = make(map[string]*Endpoint)
	}
	r.webhooks[name] = e
	r.mu.Unlock()
}

// enroll implements Registrar: the endpoint joins the registry and the
// top-level composition.
func (r *Router) enroll(e *Endpoint) {
	if r.isFrozen() {
		panic("api: endpoint registered after router freeze")
	}
	r.registry.enroll(e)
	r.mu.Lock()
	r.endpoints = append(r.endpoints, e)
	r.mu.Unlock()
}

func (r *Router) isFrozen() bool { return r.frozen.Load() }

// freeze resolves the composition tree, wires every endpoint handler
// into the mux, and assembles the document. It runs once; registration
// panics afterwards and the document is served from cache.
func (r *Router) freeze() {
	r.freezeOnce.Do(func() {
		r.frozen.Store(true)

		deps := handlerDeps{
			validator:    r.validator,
			errorHandler: r.errorHandler,
			codecs:       newCodecRegistry(r.encoders, r.decoders),
			tracer:       r.tracer,
		}

		resolved := r.resolveAll()
		for _, re := range resolved {
			h := re.Endpoint.newHandler(deps)
			for i := len(re.middleware) - 1; i >= 0; i-- {
				h = re.middleware[i](h)
			}
			r.mux.Handle(re.Endpoint.method+" "+re.Path, h)
		}

		r.spec = r.buildSpec(resolved, deps.codecs)
	})
}

// resolveAll flattens the composition tree into resolved endpoints.
// When nothing was attached to the router, every registry endpoint
// resolves as itself with no inherited prefix, tags, or security,
// except endpoints the router documents as webhooks.
func (r *Router) resolveAll() []ResolvedEndpoint {
	if len(r.endpoints) > 0 || len(r.groups) > 0 {
		var out []ResolvedEndpoint
		for _, e := range r.endpoints {
			out = append(out, ResolvedEndpoint{
				Path:     joinPaths(e.path),
				Tags:     mergeUnique(e.tags),
				Security: mergeUnique(e.security),
				Endpoint: e,
			})
		}
		for _, g := range r.groups {
			out = append(out, g.Resolve("", nil, nil)...)
		}
		return out
	}

	var out []ResolvedEndpoint
	for e := range r.registry.Endpoints() {
		if r.isWebhookEndpoint(e) {
			continue
		}
		out = append(out, ResolvedEndpoint{
			Path:     joinPaths(e.path),
			Tags:     mergeUnique(e.tags),
			Security: mergeUnique(e.security),
			Endpoint: e,
		})
	}
	return out
}

func (r *Router) isWebhookEndpoint(e *Endpoint) bool {
	for _, we := range r.webhooks {
		if we == e {
			return true
		}
	}
	return false
}

// ServeHTTP implements http.Handler. The first request freezes the router.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.freeze()
	handler := http.Handler(r.mux)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// Spec returns the assembled OpenAPI 3.1 document. The first call
// freezes the router; later calls return the same cached document.
func (r *Router) Spec() OpenAPISpec {
	r.freeze()
	return r.spec
}

// ListenAndServe serves the router on addr until ctx is cancelled, then
// drains in-flight requests for up to thirty seconds before returning.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	// The drain window needs a live context even though ctx has already
	// been cancelled.
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	return srv.Shutdown(drainCtx)
}
