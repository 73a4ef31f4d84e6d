package api

import (
	"iter"
	"slices"
	"sync"
)

// Registry is an append-only record of every declared endpoint. Each
// registration enrolls its endpoint here regardless of where in the
// composition tree it was attached; there is no removal. A Registry can
// be shared across routers, or used standalone to declare endpoints
// that a router later discovers.
type Registry struct {
	mu        sync.Mutex
	endpoints []*Endpoint
}

// NewRegistry creates an empty endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// enroll implements Registrar. Enrolling the same endpoint again, as
// happens when an already-declared handle is attached with Route, is a
// no-op so the registry lists each endpoint once.
func (reg *Registry) enroll(e *Endpoint) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if slices.Contains(reg.endpoints, e) {
		return
	}
	reg.endpoints = append(reg.endpoints, e)
}

// Endpoints returns a restartable sequence over the registered
// endpoints in registration order. The sequence iterates a snapshot,
// so registrations made while ranging are not observed.
func (reg *Registry) Endpoints() iter.Seq[*Endpoint] {
	reg.mu.Lock()
	snapshot := make([]*Endpoint, len(reg.endpoints))
	copy(snapshot, reg.endpoints)
	reg.mu.Unlock()

	return func(yield func(*Endpoint) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}
