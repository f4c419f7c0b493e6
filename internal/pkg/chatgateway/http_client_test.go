package chatgateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewHTTPClient(HTTPClientOptions{
		BaseURL: server.URL,
		APIKey:  "test-key",
	})
	return client, server
}

func TestSendReturnsProviderMessageID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/channels/3-9/messages" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body struct {
			SenderID int64  `json:"senderId"`
			Text     string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.SenderID != 3 || body.Text != "hello" {
			t.Errorf("unexpected body %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"messageId": "ext_abc"})
	})

	id, err := client.Send(context.Background(), ChannelID(9, 3), 3, "hello")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if id != "ext_abc" {
		t.Fatalf("expected ext_abc, got %q", id)
	}
}

func TestSendMapsServerErrorToExternalUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Send(context.Background(), "3-9", 3, "hello")
	if !errors.Is(err, apperrors.ErrExternalUnavailable) {
		t.Fatalf("expected ErrExternalUnavailable, got %v", err)
	}
}

func TestSendWithoutMessageIDIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.Send(context.Background(), "3-9", 3, "hello")
	if !errors.Is(err, apperrors.ErrExternalUnavailable) {
		t.Fatalf("expected ErrExternalUnavailable for missing message id, got %v", err)
	}
}

func TestChannelsForMember(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/members/7/channels" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"channels": {"3-7", "7-12"}})
	})

	channels, err := client.ChannelsForMember(context.Background(), 7)
	if err != nil {
		t.Fatalf("channels for member failed: %v", err)
	}
	if len(channels) != 2 || channels[0] != "3-7" || channels[1] != "7-12" {
		t.Fatalf("unexpected channels %v", channels)
	}
}

func TestChannelHasMessages(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/channels/3-7/exists" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"hasMessages": true})
	})

	has, err := client.ChannelHasMessages(context.Background(), "3-7")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if !has {
		t.Fatal("expected channel to have messages")
	}
}

func TestUnreachableProviderIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewHTTPClient(HTTPClientOptions{BaseURL: server.URL})
	err := client.EnsureUsers(context.Background(), []UserRef{{ID: 1, Name: "A"}})
	if !errors.Is(err, apperrors.ErrExternalUnavailable) {
		t.Fatalf("expected ErrExternalUnavailable, got %v", err)
	}
}

func TestMissingBaseURLIsUnavailable(t *testing.T) {
	client := NewHTTPClient(HTTPClientOptions{})
	_, err := client.EnsureChannel(context.Background(), 1, 2)
	if !errors.Is(err, apperrors.ErrExternalUnavailable) {
		t.Fatalf("expected ErrExternalUnavailable, got %v", err)
	}
}
