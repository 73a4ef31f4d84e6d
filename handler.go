package api

import (
	"context"
	"net/http"
)

// Void stands in for an absent request or response. A Void request
// skips binding; a Void response sends 204 with no body.
type Void struct{}

// Handler is the typed handler signature. Binding and encoding happen
// outside the handler, which sees only its request and response types.
type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

// RawHandler drops to plain net/http for endpoints the typed pipeline
// cannot express, such as protocol upgrades.
type RawHandler func(w http.ResponseWriter, r *http.Request)

// Result marks a response as fallible: the operation may fail with a
// lookup error even when the request itself is well formed. Wrapping a
// response in Result adds a 404 entry to the documented responses;
// encoding unwraps to the inner value, so the wire shape is unchanged.
type Result[T any] struct {
	Value T
}

// OK wraps a value in a successful Result.
func OK[T any](v T) *Result[T] {
	return &Result[T]{Value: v}
}

func (Result[T]) isFallible() {}

func (r Result[T]) resultValue() any { return r.Value }

// fallible is implemented only by Result instantiations.
type fallible interface {
	isFallible()
	resultValue() any
}
