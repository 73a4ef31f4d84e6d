package api

import (
	"html/template"
	"net/http"
)

// DocsOption adjusts the documentation page.
type DocsOption func(*docsPage)

// docsPage is the template payload for the docs UI.
type docsPage struct {
	Title   string
	SpecURL string
}

// WithDocsTitle overrides the page title, which otherwise follows the
// router's document title.
func WithDocsTitle(title string) DocsOption {
	return func(p *docsPage) { p.Title = title }
}

// WithDocsSpecURL points the page at a spec served somewhere other
// than /openapi.json.
func WithDocsSpecURL(url string) DocsOption {
	return func(p *docsPage) { p.SpecURL = url }
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
  <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
</head>
<body>
  <elements-api
    apiDescriptionUrl="{{.SpecURL}}"
    router="hash"
    layout="sidebar"
  />
</body>
</html>`))

// ServeDocs mounts an interactive documentation page at path, rendered
// with Stoplight Elements against the router's served spec.
func (r *Router) ServeDocs(path string, opts ...DocsOption) {
	page := docsPage{
		Title:   r.title,
		SpecURL: "/openapi.json",
	}
	for _, opt := range opts {
		opt(&page)
	}

	r.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort template render
		docsTemplate.Execute(w, page)
	})
}
