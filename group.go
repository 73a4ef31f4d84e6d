package api

import "strings"

// Group is a node in the composition tree: a path prefix plus tags,
// security requirements, and middleware shared by everything beneath
// it. Groups nest to arbitrary depth. Endpoint paths, tags, and
// security are resolved by walking the tree from the root; the group
// itself stays mutable until its router freezes.
type Group struct {
	router *Router

	prefix     string
	tags       []string
	security   []string
	middleware []Middleware

	endpoints []*Endpoint
	children  []*Group
}

// GroupOption configures a group at construction.
type GroupOption func(*Group)

// WithGroupTags tags every endpoint registered beneath the group.
func WithGroupTags(tags ...string) GroupOption {
	return func(g *Group) {
		g.tags = append(g.tags, tags...)
	}
}

// WithGroupSecurity adds security scheme requirements inherited by all
// endpoints registered on the group.
func WithGroupSecurity(schemes ...string) GroupOption {
	return func(g *Group) {
		g.security = append(g.security, schemes...)
	}
}

// WithGroupMiddleware wraps every endpoint beneath the group.
func WithGroupMiddleware(mw ...Middleware) GroupOption {
	return func(g *Group) {
		g.middleware = append(g.middleware, mw...)
	}
}

// NewGroup creates a standalone group not yet attached to a router.
// Attach it with Router.Include or Group.Include; endpoints may be
// registered on it before or after attachment.
func NewGroup(prefix string, opts ...GroupOption) *Group {
	g := &Group{prefix: prefix}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Group creates a route group with the given prefix and attaches it to
// the router's top-level composition.
func (r *Router) Group(prefix string, opts ...GroupOption) *Group {
	g := NewGroup(prefix, opts...)
	r.Include(g)
	return g
}

// Group creates a nested subgroup under g.
func (g *Group) Group(prefix string, opts ...GroupOption) *Group {
	child := NewGroup(prefix, opts...)
	g.Include(child)
	return child
}

// Include attaches child beneath g. The child inherits g's prefix,
// tags, security, and middleware during resolution.
func (g *Group) Include(child *Group) {
	g.checkMutable()
	if child.router != nil {
		panic("api: group already attached")
	}
	g.children = append(g.children, child)
	if g.router != nil {
		child.bind(g.router)
	}
}

// Route attaches an endpoint declared elsewhere, typically on a
// standalone Registry, as a leaf of g. The endpoint's declared path
// lands under the group's resolved prefix.
func (g *Group) Route(e *Endpoint) *Group {
	g.enroll(e)
	return g
}

// Tag appends tags inherited by every endpoint beneath the group.
func (g *Group) Tag(names ...string) *Group {
	g.checkMutable()
	g.tags = append(g.tags, names...)
	return g
}

// Security appends security scheme requirements inherited by every
// endpoint beneath the group.
func (g *Group) Security(schemes ...string) *Group {
	g.checkMutable()
	g.security = append(g.security, schemes...)
	return g
}

// Use adds middleware wrapped around every endpoint beneath the group.
func (g *Group) Use(mw ...Middleware) {
	g.checkMutable()
	g.middleware = append(g.middleware, mw...)
}

// enroll implements Registrar. Endpoints land in the group and, once
// the group is attached, in the router's registry as well.
func (g *Group) enroll(e *Endpoint) {
	g.checkMutable()
	g.endpoints = append(g.endpoints, e)
	if g.router != nil {
		g.router.registry.enroll(e)
	}
}

// bind associates the subtree with a router and records endpoints that
// were registered before attachment.
func (g *Group) bind(r *Router) {
	g.router = r
	for _, e := range g.endpoints {
		r.registry.enroll(e)
	}
	for _, child := range g.children {
		child.bind(r)
	}
}

func (g *Group) checkMutable() {
	if g.router != nil && g.router.isFrozen() {
		panic("api: group modified after router freeze")
	}
}

// ResolvedEndpoint is an endpoint after its position in the composition
// tree has been applied: the full path plus the merged tag and security
// lists.
type ResolvedEndpoint struct {
	Path     string
	Tags     []string
	Security []string
	Endpoint *Endpoint

	middleware []Middleware
}

// Resolve walks the group subtree and returns every endpoint beneath
// it with the inherited prefix, tags, and security merged in. The
// inherited values seed the walk; resolving a tree from its root
// passes empty ones.
func (g *Group) Resolve(prefix string, tags, security []string) []ResolvedEndpoint {
	return g.resolve(prefix, tags, security, nil)
}

func (g *Group) resolve(prefix string, tags, security []string, mw []Middleware) []ResolvedEndpoint {
	prefix = joinPaths(prefix, g.prefix)
	tags = mergeUnique(tags, g.tags)
	security = mergeUnique(security, g.security)

	merged := make([]Middleware, 0, len(mw)+len(g.middleware))
	merged = append(merged, mw...)
	merged = append(merged, g.middleware...)

	out := make([]ResolvedEndpoint, 0, len(g.endpoints))
	for _, e := range g.endpoints {
		out = append(out, ResolvedEndpoint{
			Path:       joinPaths(prefix, e.path),
			Tags:       mergeUnique(tags, e.tags),
			Security:   mergeUnique(security, e.security),
			Endpoint:   e,
			middleware: merged,
		})
	}
	for _, child := range g.children {
		out = append(out, child.resolve(prefix, tags, security, merged)...)
	}
	return out
}

// joinPaths joins path segments with single separators. Empty segments
// drop out, duplicate and trailing separators collapse, and the result
// always begins with "/". Joining nothing yields "/".
func joinPaths(parts ...string) string {
	var segs []string
	for _, part := range parts {
		for _, seg := range strings.Split(part, "/") {
			if seg != "" {
				segs = append(segs, seg)
			}
		}
	}
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// mergeUnique concatenates the lists, dropping later duplicates so the
// first occurrence decides position.
func mergeUnique(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
