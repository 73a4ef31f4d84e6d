package api

import "net/http"

// RawRequest, embedded in a request struct, exposes the underlying
// *http.Request to handlers that need headers or connection state the
// typed fields do not cover.
type RawRequest struct {
	Request *http.Request
}

// OperationInfo carries the document metadata for handlers registered
// through Raw, where no types exist to derive it from.
type OperationInfo struct {
	Summary     string
	Description string
	Tags        []string
	Status      int
}
