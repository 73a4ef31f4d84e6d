package api

import "net/http/pprof"

// Pprof mounts the runtime profiling handlers under prefix, or
// "/debug/pprof" when prefix is empty. Like Static, the routes bypass
// registration and stay out of the generated document.
func Pprof(r *Router, prefix string) {
	if prefix == "" {
		prefix = "/debug/pprof"
	}

	r.mux.HandleFunc("GET "+prefix+"/", pprof.Index)
	r.mux.HandleFunc("GET "+prefix+"/cmdline", pprof.Cmdline)
	r.mux.HandleFunc("GET "+prefix+"/profile", pprof.Profile)
	r.mux.HandleFunc("GET "+prefix+"/symbol", pprof.Symbol)
	r.mux.HandleFunc("GET "+prefix+"/trace", pprof.Trace)
	for _, profile := range []string{"goroutine", "heap", "allocs", "block", "mutex", "threadcreate"} {
		r.mux.Handle("GET "+prefix+"/"+profile, pprof.Handler(profile))
	}
}
