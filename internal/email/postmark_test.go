package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendFamilyInvite(t *testing.T) {
	var received postmarkEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"MessageID": "test-id"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "https://larder.test", WithEndpoint(server.URL))

	if err := client.SendFamilyInvite("bob@example.com", "Smith Family", "ABC123"); err != nil {
		t.Fatalf("send invite: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("server token = %q, want %q", gotToken, "test-token")
	}
	if received.To != "bob@example.com" {
		t.Errorf("To = %q, want %q", received.To, "bob@example.com")
	}
	if received.From != "noreply@example.com" {
		t.Errorf("From = %q, want %q", received.From, "noreply@example.com")
	}
	if received.Subject != "You've been invited to Smith Family on Larder" {
		t.Errorf("Subject = %q", received.Subject)
	}
	if !strings.Contains(received.TextBody, "ABC123") {
		t.Error("body should contain the family code")
	}
	if !strings.Contains(received.TextBody, "https://larder.test/join?family=ABC123") {
		t.Errorf("body should contain the join link, got: %s", received.TextBody)
	}
	// The PIN travels out of band, never in the invite.
	if strings.Contains(strings.ToLower(received.TextBody), "pin:") {
		t.Error("invite must not contain a PIN value")
	}
}

func TestSendFamilyInviteNotConfigured(t *testing.T) {
	client := NewClient("", "noreply@example.com", "https://larder.test")

	if err := client.SendFamilyInvite("bob@example.com", "Smiths", "ABC123"); err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}

func TestSendFamilyInviteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "https://larder.test", WithEndpoint(server.URL))

	if err := client.SendFamilyInvite("bob@example.com", "Smiths", "ABC123"); err == nil {
		t.Fatal("expected error for API failure")
	}
}

func TestConfigured(t *testing.T) {
	if !NewClient("token", "from@test.com", "https://test.com").Configured() {
		t.Error("expected Configured() = true")
	}
	if NewClient("", "from@test.com", "https://test.com").Configured() {
		t.Error("expected Configured() = false")
	}
}
