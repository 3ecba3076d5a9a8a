package server

import (
	"net/http"
	"testing"
	"time"
)

func TestHandleInput(t *testing.T) {
	srv, _ := newTestServer(t, staticLoader{doc: testDocument(t)})
	h := srv.Handler()
	id := createSession(t, h)
	target := "/api/sessions/" + id + "/events"

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed body", `{"type":`, http.StatusBadRequest},
		{"unknown type", `{"type":"dance"}`, http.StatusBadRequest},
		{"tile without id", `{"type":"click_tile"}`, http.StatusBadRequest},
		{"negative resize", `{"type":"resize","width":-1,"height":10}`, http.StatusBadRequest},
		{"ignored while locked", `{"type":"click_tile","id":"q1"}`, http.StatusAccepted},
		{"wrong password", `{"type":"submit_password","value":"never"}`, http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	if st := getState(t, h, id); st.Unlocked || st.OpenQuestion != "" {
		t.Fatalf("locked session changed: %+v", st)
	}
}

// Events and snapshots share one FIFO loop, so a snapshot taken after an
// accepted event observes its effect.
func TestHandleInputUnlockAndAnswer(t *testing.T) {
	srv, _ := newTestServer(t, staticLoader{doc: testDocument(t)})
	h := srv.Handler()
	id := createSession(t, h)
	target := "/api/sessions/" + id + "/events"

	post := func(body string) {
		t.Helper()
		if rec := do(t, h, http.MethodPost, target, body); rec.Code != http.StatusAccepted {
			t.Fatalf("post %s: status = %d", body, rec.Code)
		}
	}

	post(`{"type":"keypress","key":"Enter","value":"forever"}`)
	if st := getState(t, h, id); !st.Unlocked {
		t.Fatal("expected session to unlock on Enter")
	}

	post(`{"type":"click_tile","id":"q1"}`)
	if st := getState(t, h, id); st.OpenQuestion != "q1" {
		t.Fatalf("open question = %q, want q1", st.OpenQuestion)
	}

	post(`{"type":"select_option","index":1}`)

	deadline := time.Now().Add(2 * time.Second)
	for {
		st := getState(t, h, id)
		if len(st.Answered) == 1 {
			if st.Answered[0] != "q1" || st.Percent != 50 || st.OpenQuestion != "" {
				t.Fatalf("state after answer = %+v", st)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("answer never judged: %+v", st)
		}
		time.Sleep(5 * time.Millisecond)
	}

	post(`{"type":"decline"}`)
	if st := getState(t, h, id); st.Dismissals != 1 || st.DeclineHidden {
		t.Fatalf("state after first decline = %+v", st)
	}
	post(`{"type":"decline"}`)
	if st := getState(t, h, id); st.Dismissals != 1 || !st.DeclineHidden {
		t.Fatalf("state after second decline = %+v", st)
	}
}
