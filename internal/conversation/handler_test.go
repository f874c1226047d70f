package conversation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestChatServer(t *testing.T) (*httptest.Server, *testFixture) {
	t.Helper()
	f := newTestFixture(t)
	h := NewHandler(f.engine, f.engine.cfg.Logger)

	r := chi.NewRouter()
	r.Post("/chat/start", h.Start)
	r.Post("/chat/message", h.Message)
	r.Post("/chat/reset", h.Reset)
	r.Get("/chat/{userID}/step", h.Step)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, f
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("decoding response failed: %v", err)
		}
	}
	return resp, decoded
}

func TestChatStartEndpoint(t *testing.T) {
	srv, _ := newTestChatServer(t)

	resp, body := postJSON(t, srv.URL+"/chat/start", `{"user_id":"u1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["step"] != "SYMPTOMS" {
		t.Errorf("step = %v, want SYMPTOMS", body["step"])
	}
	if reply, _ := body["reply"].(string); !strings.Contains(reply, "symptoms") {
		t.Errorf("reply should ask for symptoms: %q", reply)
	}
}

func TestChatStartWithSymptoms(t *testing.T) {
	srv, _ := newTestChatServer(t)

	resp, body := postJSON(t, srv.URL+"/chat/start", `{"user_id":"u1","symptoms":"I have chest pain"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["step"] != "LOCATION" {
		t.Errorf("step = %v, want LOCATION", body["step"])
	}
}

func TestChatStartRequiresUserID(t *testing.T) {
	srv, _ := newTestChatServer(t)

	resp, _ := postJSON(t, srv.URL+"/chat/start", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChatMessageEndpointFullFlow(t *testing.T) {
	srv, _ := newTestChatServer(t)

	postJSON(t, srv.URL+"/chat/start", `{"user_id":"u1","symptoms":"I have chest pain"}`)

	for _, message := range []string{"1", "2025-06-10", "1"} {
		resp, _ := postJSON(t, srv.URL+"/chat/message",
			`{"user_id":"u1","message":"`+message+`"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("message %q: status = %d, want 200", message, resp.StatusCode)
		}
	}

	resp, body := postJSON(t, srv.URL+"/chat/message", `{"user_id":"u1","message":"checkup visit"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["committed"] != true {
		t.Errorf("committed = %v, want true", body["committed"])
	}
	if body["appointment"] == nil {
		t.Error("committed result carries no appointment")
	}
}

func TestChatMessageRequiresBodyFields(t *testing.T) {
	srv, _ := newTestChatServer(t)

	resp, _ := postJSON(t, srv.URL+"/chat/message", `{"user_id":"u1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing message: status = %d, want 400", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv.URL+"/chat/message", `{"message":"hello"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing user_id: status = %d, want 400", resp.StatusCode)
	}
}

func TestChatStepAndResetEndpoints(t *testing.T) {
	srv, _ := newTestChatServer(t)

	postJSON(t, srv.URL+"/chat/start", `{"user_id":"u1","symptoms":"skin rash"}`)

	resp, err := http.Get(srv.URL + "/chat/u1/step")
	if err != nil {
		t.Fatalf("GET step failed: %v", err)
	}
	defer resp.Body.Close()
	var step stepResponse
	if err := json.NewDecoder(resp.Body).Decode(&step); err != nil {
		t.Fatalf("decoding step failed: %v", err)
	}
	if !step.Active || step.Step != "LOCATION" {
		t.Errorf("step = %+v, want active LOCATION", step)
	}

	reset, _ := postJSON(t, srv.URL+"/chat/reset", `{"user_id":"u1"}`)
	if reset.StatusCode != http.StatusNoContent {
		t.Fatalf("reset status = %d, want 204", reset.StatusCode)
	}

	resp2, err := http.Get(srv.URL + "/chat/u1/step")
	if err != nil {
		t.Fatalf("GET step failed: %v", err)
	}
	defer resp2.Body.Close()
	var after stepResponse
	if err := json.NewDecoder(resp2.Body).Decode(&after); err != nil {
		t.Fatalf("decoding step failed: %v", err)
	}
	if after.Active {
		t.Errorf("session still active after reset: %+v", after)
	}
}
