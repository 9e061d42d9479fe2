package mw

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.RequestID(Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/driver/orders/x?y=1", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decoding log line %q: %v", buf.String(), err)
	}
	if line["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", line["level"])
	}
	if line["path"] != "/api/driver/orders/x?y=1" {
		t.Errorf("path = %v", line["path"])
	}
	if line["status"] != float64(http.StatusNotFound) {
		t.Errorf("status = %v", line["status"])
	}
	if id, _ := line["request_id"].(string); id == "" {
		t.Error("missing request_id")
	}
}
