package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// CookieSetter lets a response type attach cookies.
type CookieSetter interface {
	Cookies() []*http.Cookie
}

// HeaderSetter lets a response type write response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// LastModifier lets a response type advertise when its content last
// changed; the value is sent as a Last-Modified header.
type LastModifier interface {
	LastModified() time.Time
}

// Responder lets a response type take over the writer entirely,
// skipping negotiation and the standard status handling. The
// implementation owns headers, status, and body.
type Responder interface {
	WriteResponse(w http.ResponseWriter, r *http.Request)
}

// Redirect is returned from a handler to send the client elsewhere.
// Status defaults to 302.
type Redirect struct {
	URL    string
	Status int
}

// encodeResponse turns a handler's return value into the wire
// response. Marker types (Redirect, Stream, SSEStream) and Responder
// implementations take over the writer entirely; everything else goes
// through content negotiation. A non-nil error means nothing was
// written yet, so the caller can still emit an error response.
func encodeResponse(w http.ResponseWriter, r *http.Request, resp any, defaultStatus int, codecs *codecRegistry) error {
	// A fallible wrapper documents 404; on the wire only its inner
	// value appears.
	if f, ok := resp.(fallible); ok {
		resp = f.resultValue()
	}

	if rd, ok := resp.(*Redirect); ok {
		status := rd.Status
		if status == 0 {
			status = http.StatusFound
		}
		http.Redirect(w, r, rd.URL, status)
		return nil
	}
	if s, ok := resp.(*Stream); ok {
		writeStream(w, s)
		return nil
	}
	if s, ok := resp.(*SSEStream); ok {
		writeSSEStream(w, s)
		return nil
	}
	if rw, ok := resp.(Responder); ok {
		rw.WriteResponse(w, r)
		return nil
	}

	// Negotiate before touching the writer so a failure can still
	// become a 406.
	enc, ok := codecs.negotiate(r.Header.Get("Accept"))
	if !ok {
		return Error(http.StatusNotAcceptable, "no encoder satisfies the Accept header")
	}

	if cs, ok := resp.(CookieSetter); ok {
		for _, c := range cs.Cookies() {
			http.SetCookie(w, c)
		}
	}
	if hs, ok := resp.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}
	if lm, ok := resp.(LastModifier); ok {
		if ts := lm.LastModified(); !ts.IsZero() {
			w.Header().Set("Last-Modified", ts.UTC().Format(http.TimeFormat))
		}
	}

	status := defaultStatus
	if sc, ok := resp.(StatusCoder); ok {
		status = sc.StatusCode()
	}

	// 204 never carries a body.
	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	enc.Encode(w, resp)
	return nil
}

// writeErrorResponse renders err as an RFC 9457 problem response,
// passing an existing *ProblemDetail through untouched.
func writeErrorResponse(w http.ResponseWriter, err error) {
	var pd *ProblemDetail
	if !errors.As(err, &pd) {
		status := ErrorStatus(err)
		pd = &ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(status),
			Status: status,
			Detail: err.Error(),
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(pd.Status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(pd)
}
