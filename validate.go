package api

// SelfValidator runs after binding and constraint checks; a non-nil
// error rejects the request before the handler sees it.
type SelfValidator interface {
	Validate() error
}

// Validator is the router-wide hook installed with WithValidator. It
// receives every decoded request.
type Validator interface {
	Validate(req any) error
}
