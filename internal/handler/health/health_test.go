package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/iffykid/Valentines2026/internal/handler/health"
	"github.com/iffykid/Valentines2026/internal/quiz"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Checker
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name: "all healthy",
			checks: map[string]health.Checker{
				"quiz_config": mockChecker{},
				"images":      mockChecker{},
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"quiz_config": "ok", "images": "ok"},
		},
		{
			name: "config unreadable",
			checks: map[string]health.Checker{
				"quiz_config": mockChecker{err: errors.New("no such file")},
				"images":      mockChecker{},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"quiz_config": "error", "images": "ok"},
		},
		{
			name: "func checker",
			checks: map[string]health.Checker{
				"quiz_config": health.CheckerFunc(func(context.Context) error { return errors.New("boom") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"quiz_config": "error"},
		},
		{
			name:       "no checks",
			checks:     map[string]health.Checker{},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]health.Result
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}

			for name, want := range tt.wantBody {
				if got := body[name].Status; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestHandlerWithLoader(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "config.json")
	doc := `{"password":"pw","whatsappNumber":"1","questions":[{"id":"q1","image":"a.jpg","question":"?","options":["a","b"],"correctAnswer":0}],"messages":{"yes":"y","angryOptions":["no"],"finalOptionMessage":"done"}}`
	if err := os.WriteFile(good, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		source     string
		wantStatus int
	}{
		{"valid document", good, http.StatusOK},
		{"missing document", filepath.Join(dir, "missing.json"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), map[string]health.Checker{
				"quiz_config": quiz.NewLoader(tt.source, nil),
			})

			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
