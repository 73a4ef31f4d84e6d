package api

import (
	"net/http"
	"reflect"
)

// Registrar accepts endpoint registrations. *Router, *Group, and
// *Registry all implement it: routers and groups place the endpoint in
// the composition tree, while a bare registry only records it.
type Registrar interface {
	enroll(e *Endpoint)
}

// handlerDeps carries the router-level collaborators a handler needs.
// Handlers are constructed at router freeze so router options applied
// after registration still take effect.
type handlerDeps struct {
	validator    Validator
	errorHandler ErrorHandler
	codecs       *codecRegistry
	tracer       SpanStarter
}

// fail writes err through the configured error handler, or the default
// problem-detail writer when none is set.
func (d handlerDeps) fail(w http.ResponseWriter, r *http.Request, err error) {
	if d.errorHandler != nil {
		d.errorHandler(w, r, err)
		return
	}
	writeErrorResponse(w, err)
}

// register records one typed endpoint with its registrar. The handler
// itself is built later, at router freeze.
func register[Req, Resp any](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) *Endpoint {
	e := &Endpoint{
		method:   method,
		path:     pattern,
		reqType:  reflect.TypeFor[Req](),
		respType: reflect.TypeFor[Resp](),
	}

	for _, opt := range opts {
		opt(e)
	}

	// Default success status: Void responses and DELETE report 204,
	// POST reports 201, everything else 200.
	if e.status == 0 {
		switch {
		case e.respType == reflect.TypeFor[Void]():
			e.status = http.StatusNoContent
		case method == http.MethodPost:
			e.status = http.StatusCreated
		case method == http.MethodDelete:
			e.status = http.StatusNoContent
		default:
			e.status = http.StatusOK
		}
	}

	e.newHandler = func(deps handlerDeps) http.Handler {
		return typedHandler(h, e.status, e.bodyLimit, deps)
	}

	reg.enroll(e)
	return e
}

// typedHandler adapts a typed Handler to http.Handler: decode,
// validate, call, encode, with every failure routed through the error
// writer.
func typedHandler[Req, Resp any](h Handler[Req, Resp], status int, bodyLimit int64, deps handlerDeps) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if deps.tracer != nil {
			name := r.Pattern
			if name == "" {
				name = r.Method + " " + r.URL.Path
			}
			ctx, end := deps.tracer.StartSpan(r.Context(), name, map[string]string{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			defer end()
			r = r.WithContext(ctx)
		}

		if bodyLimit > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
		}

		req, err := decodeRequest[Req](r, deps.codecs)
		if err != nil {
			deps.fail(w, r, Error(http.StatusBadRequest, err.Error()))
			return
		}

		if err := validateRequest(req, deps.validator); err != nil {
			deps.fail(w, r, err)
			return
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			deps.fail(w, r, err)
			return
		}

		// A Void or nil response carries no body.
		if _, ok := any(resp).(*Void); ok || resp == nil {
			w.WriteHeader(status)
			return
		}

		if err := encodeResponse(w, r, resp, status, deps.codecs); err != nil {
			deps.fail(w, r, err)
		}
	})
}

// validateRequest runs the validation chain over a decoded request:
// constraint tags first, then the type's own Validate method, then the
// router-wide validator. The first failure wins.
func validateRequest(req any, global Validator) error {
	if err := validateConstraints(req); err != nil {
		return err
	}
	if sv, ok := req.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			return err
		}
	}
	if global != nil {
		if err := global.Validate(req); err != nil {
			return err
		}
	}
	return nil
}

// Get registers a GET endpoint.
func Get[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) *Endpoint {
	return register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST endpoint.
func Post[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) *Endpoint {
	return register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT endpoint.
func Put[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) *Endpoint {
	return register(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH endpoint.
func Patch[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) *Endpoint {
	return register(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE endpoint.
func Delete[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) *Endpoint {
	return register(reg, http.MethodDelete, pattern, h, opts...)
}

// Raw registers a plain http.Handler. The endpoint skips decoding and
// encoding entirely; info supplies what the document cannot reflect.
func Raw(reg Registrar, method, pattern string, h RawHandler, info OperationInfo) *Endpoint {
	e := &Endpoint{
		method:  method,
		path:    pattern,
		summary: info.Summary,
		desc:    info.Description,
		tags:    info.Tags,
		status:  info.Status,
	}
	e.newHandler = func(handlerDeps) http.Handler {
		return http.HandlerFunc(h)
	}
	reg.enroll(e)
	return e
}
