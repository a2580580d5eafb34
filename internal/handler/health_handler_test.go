package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/testutil"
	"skillbridge-web/internal/upstream"
)

func TestHealth_ReturnsOK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	Health(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertHeader(t, w, "Content-Type", "application/json")

	var response map[string]string
	err := json.NewDecoder(w.Body).Decode(&response)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, response["status"], "ok")
}

func TestReady_AllHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tokens := testutil.NewMockTokenRepository()
	backend := upstream.NewClient(server.URL, 2*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()

	Ready(tokens, backend)(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)

	var response map[string]interface{}
	testutil.AssertNoError(t, json.NewDecoder(w.Body).Decode(&response))
	testutil.AssertEqual(t, response["status"].(string), "ready")

	checks := response["checks"].(map[string]interface{})
	store := checks["session_store"].(map[string]interface{})
	testutil.AssertEqual(t, store["status"].(string), "up")
	backendCheck := checks["backend"].(map[string]interface{})
	testutil.AssertEqual(t, backendCheck["status"].(string), "up")
}

func TestReady_BackendErrorStatusStillReachable(t *testing.T) {
	// Any HTTP answer means the backend process is alive; only transport
	// failures count as down
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tokens := testutil.NewMockTokenRepository()
	backend := upstream.NewClient(server.URL, 2*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()

	Ready(tokens, backend)(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
}

func TestReady_BackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable from here on

	tokens := testutil.NewMockTokenRepository()
	backend := upstream.NewClient(server.URL, 500*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()

	Ready(tokens, backend)(w, req)

	testutil.AssertStatusCode(t, w, http.StatusServiceUnavailable)

	var response map[string]interface{}
	testutil.AssertNoError(t, json.NewDecoder(w.Body).Decode(&response))
	testutil.AssertEqual(t, response["status"].(string), "not_ready")
}

func TestReady_TokenStoreDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tokens := testutil.NewMockTokenRepository()
	tokens.GetFunc = func(ctx context.Context, token string) (*domain.TokenRecord, error) {
		return nil, testutil.ErrMockUnavailable
	}
	backend := upstream.NewClient(server.URL, 2*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()

	Ready(tokens, backend)(w, req)

	testutil.AssertStatusCode(t, w, http.StatusServiceUnavailable)
}

func TestCheckTokenStore_NotFoundIsHealthy(t *testing.T) {
	// The probe token never exists; ErrTokenNotFound is the healthy answer
	tokens := testutil.NewMockTokenRepository()

	result := checkTokenStore(context.Background(), tokens)

	testutil.AssertEqual(t, result.Status, "up")
	testutil.AssertEqual(t, result.Error, "")
}
