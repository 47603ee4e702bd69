// README: validation tests for ride handlers.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ummana/internal/http/handlers"
	"ummana/internal/modules/ride"
)

// buildTestRouter wires a minimal engine. A nil-backed service is safe here:
// every request in these tests fails validation before any service call.
func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewRideHandler(ride.NewService(ride.ServiceDeps{}))
	r := gin.New()
	r.POST("/request-ride", h.RequestRide)
	r.POST("/respond-to-ride-request", h.Respond)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestRideRejectsInvalidJSON(t *testing.T) {
	r := buildTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/request-ride", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRequestRideRequiresAgentAndSymptoms(t *testing.T) {
	r := buildTestRouter()
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing agent", map[string]any{"symptoms": []string{"fever"}}},
		{"missing symptoms", map[string]any{"chipsAgentId": "a1"}},
		{"empty symptoms", map[string]any{"chipsAgentId": "a1", "symptoms": []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/request-ride", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestRespondRejectsUnknownResponseValue(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodPost, "/respond-to-ride-request", map[string]any{
		"driverId": "d1",
		"rideId":   "r1",
		"response": "maybe",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
