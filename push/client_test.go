package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSend(t *testing.T) {
	var received message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode push payload: %v", err)
		}
		w.Write([]byte(`{"data":{"status":"ok"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	err := client.Send(context.Background(), "ExponentPushToken[abc]", "Complaint Status Update: Resolved", "Your complaint regarding Water Supply is now Resolved.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.To != "ExponentPushToken[abc]" {
		t.Errorf("expected token in payload, got %q", received.To)
	}
	if received.Sound != "default" {
		t.Errorf("expected default sound, got %q", received.Sound)
	}
	if received.Title == "" || received.Body == "" {
		t.Error("expected title and body in payload")
	}
}

func TestSendEmptyTokenNoOp(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	if err := client.Send(context.Background(), "", "title", "body"); err != nil {
		t.Fatalf("expected nil error for empty token, got %v", err)
	}
	if called {
		t.Error("expected no request for empty token")
	}
}

func TestSendNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	if err := client.Send(context.Background(), "token", "title", "body"); err == nil {
		t.Fatal("expected error on 502 response")
	}
}
