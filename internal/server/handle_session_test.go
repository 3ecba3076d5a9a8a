package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iffykid/Valentines2026/internal/quiz"
	"github.com/iffykid/Valentines2026/internal/session"
)

const testConfig = `{
	"password": "forever",
	"whatsappNumber": "15551234567",
	"questions": [
		{"id": "q1", "image": "img/1.jpg", "question": "Where did we meet?", "options": ["Park", "Cafe"], "correctAnswer": 1},
		{"id": "q2", "image": "img/2.jpg", "question": "First movie?", "options": ["Up", "Heat"], "correctAnswer": 0}
	],
	"messages": {
		"yes": "I do!",
		"angryOptions": ["Are you sure?"],
		"finalOptionMessage": "No is not an option."
	}
}`

type staticLoader struct {
	doc *quiz.Document
	err error
}

func (l staticLoader) Load(context.Context) (*quiz.Document, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.doc, nil
}

func testDocument(t *testing.T) *quiz.Document {
	t.Helper()
	var doc quiz.Document
	if err := json.Unmarshal([]byte(testConfig), &doc); err != nil {
		t.Fatalf("decoding test config: %v", err)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("validating test config: %v", err)
	}
	return &doc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires a server with millisecond timings so flows that wait
// on timers finish quickly.
func newTestServer(t *testing.T, loader DocumentLoader) (*Server, *Registry) {
	t.Helper()
	logger := discardLogger()
	opts := session.Options{
		Timings: session.Timings{
			AnswerDelay:   time.Millisecond,
			GateShake:     time.Millisecond,
			OptionShake:   time.Millisecond,
			RevealDelay:   time.Millisecond,
			ToastDuration: time.Millisecond,
		},
		ParticleCount: 10,
	}
	sessions := NewRegistry(logger, NewBroker(), opts, 5*time.Millisecond)
	t.Cleanup(func() { sessions.Close() })
	return New(":0", logger, loader, sessions, "", nil), sessions
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp CreateSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("empty session id")
	}
	return resp.ID
}

func getState(t *testing.T, h http.Handler, id string) session.State {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/api/sessions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("state status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var st session.State
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	return st
}

func TestCreateSession(t *testing.T) {
	srv, sessions := newTestServer(t, staticLoader{doc: testDocument(t)})
	h := srv.Handler()

	id := createSession(t, h)

	if sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", sessions.Len())
	}
	st := getState(t, h, id)
	if st.ID != id {
		t.Errorf("state id = %q, want %q", st.ID, id)
	}
	if st.Unlocked {
		t.Error("new session should be locked")
	}
	if st.Progress != 0 || st.Percent != 0 {
		t.Errorf("progress = %v/%d, want 0/0", st.Progress, st.Percent)
	}
	if len(st.Answered) != 0 {
		t.Errorf("answered = %v, want empty", st.Answered)
	}
}

func TestCreateSessionConfigUnavailable(t *testing.T) {
	srv, sessions := newTestServer(t, staticLoader{err: errors.New("no such file")})

	rec := do(t, srv.Handler(), http.MethodPost, "/api/sessions", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error: %v", err)
	}
	if body.Error != "configuration unavailable" {
		t.Errorf("error = %q", body.Error)
	}
	if sessions.Len() != 0 {
		t.Errorf("sessions = %d, want 0", sessions.Len())
	}
}

func TestSessionNotFound(t *testing.T) {
	srv, _ := newTestServer(t, staticLoader{doc: testDocument(t)})
	h := srv.Handler()

	tests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/api/sessions/nope", ""},
		{http.MethodDelete, "/api/sessions/nope", ""},
		{http.MethodPost, "/api/sessions/nope/events", `{"type":"decline"}`},
		{http.MethodGet, "/api/sessions/nope/ws", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
			}
		})
	}
}

func TestEndSession(t *testing.T) {
	srv, sessions := newTestServer(t, staticLoader{doc: testDocument(t)})
	h := srv.Handler()
	id := createSession(t, h)

	rec := do(t, h, http.MethodDelete, "/api/sessions/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if sessions.Len() != 0 {
		t.Errorf("sessions = %d, want 0", sessions.Len())
	}
	if rec := do(t, h, http.MethodGet, "/api/sessions/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("state after end = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
