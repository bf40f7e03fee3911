package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerLogsMethodAndPath(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core).Sugar())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/keyboards/install?id=khmer_angkor", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != http.MethodGet {
		t.Fatalf("method = %v", fields["method"])
	}
	if fields["path"] != "/keyboards/install" {
		t.Fatalf("path = %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("status = %v, want %d", fields["status"], http.StatusNotFound)
	}
	if fields["request_id"] != "req-123" {
		t.Fatalf("request_id = %v", fields["request_id"])
	}
}

func TestRequestLoggerCapturesImplicitStatusOKAndBytes(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core).Sugar())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusOK) {
		t.Fatalf("status = %v, want 200", fields["status"])
	}
	if fields["bytes"] != int64(2) {
		t.Fatalf("bytes = %v, want 2", fields["bytes"])
	}
	if _, ok := fields["latency"]; !ok {
		t.Fatal("latency field missing")
	}
}
