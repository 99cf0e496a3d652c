package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"civic-grievances/internal/ports/auth"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens/introspect" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		switch body.Token {
		case "good":
			_, _ = w.Write([]byte(`{"active":true,"user_id":" u-1 ","email":"officer@ghmc.gov.in","name":"Officer","role":"municipal_staff"}`))
		case "inactive":
			_, _ = w.Write([]byte(`{"active":false}`))
		case "no-user":
			_, _ = w.Write([]byte(`{"active":true}`))
		case "boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func TestVerifier(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	v := NewVerifier(c)
	ctx := context.Background()

	claims, err := v.Verify(ctx, "good")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "officer@ghmc.gov.in" || claims.Role != "municipal_staff" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	for _, tok := range []string{"inactive", "expired", ""} {
		if _, err := v.Verify(ctx, tok); !errors.Is(err, auth.ErrUnauthorized) {
			t.Fatalf("token %q: expected unauthorized, got %v", tok, err)
		}
	}
	if _, err := v.Verify(ctx, "no-user"); err == nil {
		t.Fatalf("expected error for missing user id")
	}
	if _, err := v.Verify(ctx, "boom"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestVerifier_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := NewVerifier(c).Verify(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
	if _, err := NewVerifier(nil).Verify(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}
