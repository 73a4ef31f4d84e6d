package api

import (
	"encoding/json"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ServeSpec registers a GET route that serves the document as JSON.
func (r *Router) ServeSpec(pattern string) {
	r.serveDocument(pattern, "application/json", r.WriteSpec)
}

// ServeSpecYAML registers a GET route that serves the document as YAML.
func (r *Router) ServeSpecYAML(pattern string) {
	r.serveDocument(pattern, "application/yaml", r.WriteSpecYAML)
}

func (r *Router) serveDocument(pattern, contentType string, write func(io.Writer) error) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		//nolint:errcheck,gosec // best-effort after WriteHeader
		write(w)
	})
}

// WriteSpec writes the document to w as indented JSON.
func (r *Router) WriteSpec(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Spec())
}

// WriteSpecYAML writes the document to w as YAML.
func (r *Router) WriteSpecYAML(w io.Writer) error {
	return writeSpecYAML(w, r.Spec())
}

// writeSpecYAML renders the document through its JSON form first, so
// the schema and operation marshalers apply, then re-encodes as YAML.
func writeSpecYAML(w io.Writer, spec OpenAPISpec) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return yaml.NewEncoder(w).Encode(doc)
}
