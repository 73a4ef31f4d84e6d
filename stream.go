package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// Stream bypasses response encoding entirely. Handlers return *Stream
// to send raw bytes with a content type of their choosing.
type Stream struct {
	ContentType string
	Status      int
	Body        io.Reader
}

// SSEStream turns a handler into a server-sent-events source. The
// handler feeds events into the channel and closes it when done; the
// connection stays open until then.
type SSEStream struct {
	Events <-chan SSEEvent
}

// SSEEvent is one event on the wire. Event and ID are optional; Data
// is sent as-is for strings and byte slices and JSON-encoded for
// anything else.
type SSEEvent struct {
	Event string
	Data  any
	ID    string
}

// writeStream copies the stream body out, defaulting the status to 200.
func writeStream(w http.ResponseWriter, s *Stream) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	status := s.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if s.Body != nil {
		//nolint:errcheck,gosec // best-effort streaming copy
		io.Copy(w, s.Body)
	}
}

// writeSSEStream drains the event channel, flushing after each event so
// clients see them as they happen.
func writeSSEStream(w http.ResponseWriter, s *SSEStream) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var buf bytes.Buffer
	for event := range s.Events {
		buf.Reset()
		encodeSSEEvent(&buf, event)
		//nolint:errcheck,gosec // best-effort SSE write
		w.Write(buf.Bytes())
		flusher.Flush()
	}
}

// encodeSSEEvent renders one event in wire order: id, event, data,
// blank-line terminator.
func encodeSSEEvent(buf *bytes.Buffer, event SSEEvent) {
	if event.ID != "" {
		writeSSEField(buf, "id", event.ID)
	}
	if event.Event != "" {
		writeSSEField(buf, "event", event.Event)
	}

	switch v := event.Data.(type) {
	case string:
		writeSSEField(buf, "data", v)
	case []byte:
		writeSSEField(buf, "data", string(v))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			writeSSEField(buf, "data", err.Error())
		} else {
			writeSSEField(buf, "data", string(data))
		}
	}

	buf.WriteByte('\n')
}

func writeSSEField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteByte('\n')
}
