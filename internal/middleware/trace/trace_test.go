package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rupeetrack/internal/log"
)

func TestMiddleware_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})})
	m := NewMiddleware(func(*http.Request) string { return "10.0.0.1" }, logger)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		log.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if seen == "" {
		t.Fatal("request id not in context")
	}
	if got := rec.Header().Get(HeaderRequestID); got != seen {
		t.Errorf("response header %q, context %q", got, seen)
	}
	out := buf.String()
	for _, want := range []string{"request_id=" + seen, "status_code=418", "level=WARN", "client_ip=10.0.0.1", `msg="inside handler"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	if got := m.GetMetrics().TotalRequests; got != 1 {
		t.Errorf("TotalRequests = %d, want 1", got)
	}
}

func TestMiddleware_RequestIDHeader(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"well formed id is kept", "8f14e45f-ceea-467f-a3b8-4a5a6c5bd1a2", true},
		{"garbage is replaced", "<script>", false},
		{"missing is generated", "", false},
	}

	m := NewMiddleware(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(HeaderRequestID)
			if (got == tt.incoming) != tt.reuse {
				t.Errorf("request id = %q, incoming %q, reuse %v", got, tt.incoming, tt.reuse)
			}
			if got == "" {
				t.Error("no request id assigned")
			}
		})
	}
}
