package server

import (
	"net/http"
)

// responseWriter calls hook right before the header block is sent and keeps the status
// and body size for the access log.
type responseWriter struct {
	http.ResponseWriter
	hook        func(http.Header)
	status      int
	size        int64
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter, hook func(http.Header)) *responseWriter {
	return &responseWriter{ResponseWriter: w, hook: hook}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		// Let net/http complain about superfluous calls.
		rw.ResponseWriter.WriteHeader(code)
		return
	}
	// 1xx are informational, the final header block is still to come.
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		rw.ResponseWriter.WriteHeader(code)
		return
	}
	rw.wroteHeader = true
	rw.status = code
	if rw.hook != nil {
		rw.hook(rw.Header())
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// Flush implements http.Flusher when the underlying writer does.
func (rw *responseWriter) Flush() {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap is used by http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Status is 200 when the handler never wrote anything (net/http sends that on return).
func (rw *responseWriter) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

// finish makes sure the hook ran even if the handler wrote nothing at all.
func (rw *responseWriter) finish() {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
}

// AddResponseHeaders appends ResponseHeaders to h.
func AddResponseHeaders(h http.Header) {
	for _, kv := range ResponseHeaders {
		h.Add(kv.Name, kv.Value)
	}
}
