package api

import (
	"io/fs"
	"net/http"
	"strings"
)

// Static mounts a file tree under urlPath. The routes go straight to
// the mux and never appear in the generated document.
func (r *Router) Static(urlPath string, fsys fs.FS) {
	prefix := strings.TrimSuffix(urlPath, "/")
	files := http.StripPrefix(prefix, http.FileServerFS(fsys))
	r.mux.Handle("GET "+prefix+"/{path...}", files)
}
