// Package api turns typed Go handlers into a served HTTP API and an
// OpenAPI 3.1 document, derived from the same registrations. Request
// parameters, bodies, and responses are plain Go types; the package
// reflects over them once, at startup, and synthesizes schemas, binding,
// and the full specification from what it finds.
//
// Handlers never see http.ResponseWriter or *http.Request:
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// Registration is generic and returns an immutable endpoint handle:
//
//	r := api.New(api.WithTitle("Orders"), api.WithVersion("1.0.0"))
//	api.Get[ListReq, ListResp](r, "/orders", listOrders)
//	api.Post[CreateReq, Order](r, "/orders", createOrder)
//
// Request structs carry binding tags and an optional Body field:
//
//	type CreateReq struct {
//	    OrgID string `path:"org_id"`
//	    Body  struct {
//	        Name string `json:"name" required:"true"`
//	    }
//	}
//
// Endpoints may also be declared against a standalone Registry and
// composed later through Groups, which layer path prefixes, tags, and
// security requirements onto everything beneath them. A router with no
// explicit composition serves every registered endpoint as declared.
//
// The generated document is available as a value via Spec, and over
// HTTP:
//
//	r.ServeSpec("/openapi.json")
//
// Middleware uses the standard func(http.Handler) http.Handler shape,
// so anything from the wider ecosystem drops in unchanged.
package api
