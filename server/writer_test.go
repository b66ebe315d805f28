package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHookRunsOnce(t *testing.T) {
	calls := 0
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec, func(h http.Header) {
		calls++
		h.Add("X-Hook", "1")
	})
	rw.WriteHeader(http.StatusEarlyHints) // informational, hook must wait
	if calls != 0 {
		t.Fatalf("hook ran on 1xx")
	}
	_, _ = rw.Write([]byte("abc"))
	_, _ = rw.Write([]byte("de"))
	rw.Flush()
	rw.finish()
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
	if rw.Status() != http.StatusOK || rw.size != 5 {
		t.Errorf("status %d size %d", rw.Status(), rw.size)
	}
	if rec.Header().Get("X-Hook") != "1" {
		t.Errorf("hook header missing: %v", rec.Header())
	}
}

func TestFinishWithoutWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec, AddResponseHeaders)
	rw.finish()
	if rec.Code != http.StatusOK {
		t.Errorf("code %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("origin header %q", got)
	}
}
