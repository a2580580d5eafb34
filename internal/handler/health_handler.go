package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/upstream"
)

// Health returns basic health check
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Ready reports readiness: the token repository must answer and the backend
// must be reachable.
func Ready(tokens domain.TokenRepository, backend *upstream.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		// Check dependencies in parallel
		storeResult := make(chan HealthCheckResult, 1)
		backendResult := make(chan HealthCheckResult, 1)

		go func() {
			storeResult <- checkTokenStore(ctx, tokens)
		}()

		go func() {
			backendResult <- checkBackend(ctx, backend)
		}()

		storeCheck := <-storeResult
		backendCheck := <-backendResult

		response := map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"checks": map[string]HealthCheckResult{
				"session_store": storeCheck,
				"backend":       backendCheck,
			},
		}

		allHealthy := storeCheck.Status == "up" && backendCheck.Status == "up"

		if allHealthy {
			response["status"] = "ready"
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
		} else {
			response["status"] = "not_ready"
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		json.NewEncoder(w).Encode(response)
	}
}

// checkTokenStore verifies the token repository answers queries. A not-found
// for the probe token is the healthy outcome.
func checkTokenStore(ctx context.Context, tokens domain.TokenRepository) HealthCheckResult {
	start := time.Now()
	_, err := tokens.Get(ctx, "readiness-probe")
	latency := time.Since(start)

	if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		return HealthCheckResult{
			Status:    "down",
			LatencyMs: latency.Milliseconds(),
			Error:     err.Error(),
		}
	}

	return HealthCheckResult{
		Status:    "up",
		LatencyMs: latency.Milliseconds(),
	}
}

// checkBackend verifies the SkillBridge backend is reachable
func checkBackend(ctx context.Context, backend *upstream.Client) HealthCheckResult {
	start := time.Now()
	err := backend.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return HealthCheckResult{
			Status:    "down",
			LatencyMs: latency.Milliseconds(),
			Error:     err.Error(),
		}
	}

	return HealthCheckResult{
		Status:    "up",
		LatencyMs: latency.Milliseconds(),
	}
}
