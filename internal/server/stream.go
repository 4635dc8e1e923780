package server

import (
	"fmt"
	"net/http"
)

// StreamWriter writes a chunked text/plain response, flushing after each
// chunk so tokens reach the client as the model produces them.
type StreamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

// NewStreamWriter prepares a streaming text response. Headers are not
// written until the first chunk, so an early failure can still produce a
// proper error status.
func NewStreamWriter(w http.ResponseWriter) (*StreamWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	return &StreamWriter{w: w, flusher: flusher}, nil
}

// WriteChunk sends one chunk of text and flushes it.
func (s *StreamWriter) WriteChunk(chunk string) error {
	if !s.started {
		s.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}
	if _, err := fmt.Fprint(s.w, chunk); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Started reports whether the response status has already been sent.
// After that point errors can only terminate the stream, not change the
// status code.
func (s *StreamWriter) Started() bool {
	return s.started
}
