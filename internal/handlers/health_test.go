package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/products-api/pkg/logger"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedState  string
	}{
		{
			name:           "store reachable",
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
		},
		{
			name:           "store unreachable",
			pingErr:        errors.New("no hosts available"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(logger.Discard(), stubPinger{err: tt.pingErr})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.expectedState {
				t.Errorf("expected status %q, got %q", tt.expectedState, response.Status)
			}
			if response.Timestamp.IsZero() {
				t.Error("expected a timestamp")
			}
		})
	}
}
