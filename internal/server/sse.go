package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// streamWriter frames analysis fragments as server-sent events:
// `data: {json}\n\n` per fragment, `data: [DONE]\n\n` as the terminal
// sentinel. Every frame is flushed immediately so fragments reach the
// client as they arrive.
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func newStreamWriter(w http.ResponseWriter) (*streamWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	return &streamWriter{w: w, flusher: flusher}, true
}

// begin sends the SSE headers. Idempotent; called lazily before the first
// frame so validation failures can still produce a plain JSON 400.
func (sw *streamWriter) begin() {
	if sw.started {
		return
	}
	sw.started = true
	sw.w.Header().Set("Content-Type", "text/event-stream")
	sw.w.Header().Set("Cache-Control", "no-cache")
	sw.w.Header().Set("Connection", "keep-alive")
	sw.w.WriteHeader(http.StatusOK)
	sw.flusher.Flush()
}

// writeText emits one text fragment frame.
func (sw *streamWriter) writeText(fragment string) error {
	sw.begin()
	return sw.writeFrame(map[string]string{"text": fragment})
}

// writeErrorFrame emits a single in-band error frame. The stream still
// closes cleanly afterwards; fragments already emitted are not retracted.
func (sw *streamWriter) writeErrorFrame(message string) error {
	sw.begin()
	return sw.writeFrame(map[string]string{"error": message})
}

// writeDone emits the terminal sentinel.
func (sw *streamWriter) writeDone() error {
	sw.begin()
	if _, err := fmt.Fprint(sw.w, "data: [DONE]\n\n"); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

func (sw *streamWriter) writeFrame(payload map[string]string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}
