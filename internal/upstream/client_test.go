package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillbridge-web/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second)
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
}

func TestLogin_ExtractsToken(t *testing.T) {
	var got domain.Credentials
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		decodeBody(t, r, &got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"jwt-abc"}`))
	})

	token, err := client.Login(context.Background(),
		domain.Credentials{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("expected token jwt-abc, got %q", token)
	}
	if got.Username != "alice" || got.Password != "secret" {
		t.Errorf("credentials not forwarded: %+v", got)
	}
}

func TestLogin_BadCredentialsUsesFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Spring's default 401 body is not the {"message"} shape
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized","path":"/api/v1/auth/login"}`))
	})

	_, err := client.Login(context.Background(), domain.Credentials{Username: "alice", Password: "wrong"})

	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if upErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", upErr.Status)
	}
	if upErr.Message != "Invalid credentials" {
		t.Errorf("expected fallback message, got %q", upErr.Message)
	}
}

func TestLogin_BackendMessagePassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Account locked"}`))
	})

	_, err := client.Login(context.Background(), domain.Credentials{})

	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if upErr.Message != "Account locked" {
		t.Errorf("expected backend message, got %q", upErr.Message)
	}
}

func TestRegister_PlainTextBothWays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var reg domain.Registration
		decodeBody(t, r, &reg)
		if reg.Role != domain.RoleMentor {
			t.Errorf("expected MENTOR role, got %q", reg.Role)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("User registered successfully!\n"))
	})

	msg, err := client.Register(context.Background(), domain.Registration{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret",
		Role:     domain.RoleMentor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "User registered successfully!" {
		t.Errorf("expected trimmed success message, got %q", msg)
	}
}

func TestRegister_ErrorTextPassesThrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Error: Username is already taken!"))
	})

	_, err := client.Register(context.Background(), domain.Registration{Username: "bob"})

	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if upErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", upErr.Status)
	}
	if upErr.Message != "Error: Username is already taken!" {
		t.Errorf("expected plain text message, got %q", upErr.Message)
	}
}

func TestRegister_EmptyErrorBodyGetsGenericMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Register(context.Background(), domain.Registration{})

	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if upErr.Message != "Registration failed" {
		t.Errorf("expected generic message, got %q", upErr.Message)
	}
}

func TestMe_AttachesBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer jwt-abc" {
			t.Errorf("expected bearer header, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"username":"alice","email":"alice@example.com","role":"USER"}`))
	})

	user, err := client.Me(context.Background(), "jwt-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 || user.Username != "alice" || user.Role != domain.RoleUser {
		t.Errorf("profile not decoded: %+v", user)
	}
}

func TestMe_RejectedToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Me(context.Background(), "stale")

	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if upErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", upErr.Status)
	}
}

func TestPing_AnyStatusIsReachable(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusUnauthorized, http.StatusInternalServerError} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		if err := client.Ping(context.Background()); err != nil {
			t.Errorf("status %d should count as reachable, got %v", status, err)
		}
	}
}

func TestPing_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := NewClient(server.URL, time.Second)

	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error against a closed server")
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"token":"late"}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Login(ctx, domain.Credentials{})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	var upErr *Error
	if errors.As(err, &upErr) {
		t.Errorf("transport failure must not look like a backend rejection: %v", err)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"token":"x"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	if _, err := client.Login(context.Background(), domain.Credentials{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/auth/login" {
		t.Errorf("trailing slash produced path %q", gotPath)
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"backend message", `{"message":"Course not found"}`, "Course not found"},
		{"empty message", `{"message":""}`, "fallback"},
		{"not json", "<html>502</html>", "fallback"},
		{"empty body", "", "fallback"},
		{"wrong shape", `{"error":"boom"}`, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseErrorMessage(strings.NewReader(tt.body), "fallback")
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
