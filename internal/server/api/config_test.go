package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/renderix/triggerhand/internal/gesture"
)

// fakeThresholdService records updates and can be forced to fail.
type fakeThresholdService struct {
	cfg     gesture.ThresholdConfig
	failErr error
	applied map[string]float64
}

func (s *fakeThresholdService) Thresholds() gesture.ThresholdConfig {
	return s.cfg
}

func (s *fakeThresholdService) SetThresholds(params map[string]float64) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.applied = params
	return nil
}

func TestConfigHandler_Get(t *testing.T) {
	svc := &fakeThresholdService{cfg: *gesture.DefaultThresholds()}
	h := NewConfigHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var cfg gesture.ThresholdConfig
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if cfg != svc.cfg {
		t.Errorf("config = %+v, want %+v", cfg, svc.cfg)
	}
}

func TestConfigHandler_Update(t *testing.T) {
	t.Run("applies valid parameters", func(t *testing.T) {
		svc := &fakeThresholdService{cfg: *gesture.DefaultThresholds()}
		h := NewConfigHandler(svc)

		body := bytes.NewBufferString(`{"snap_distance_threshold": 0.05}`)
		req := httptest.NewRequest(http.MethodPut, "/api/config", body)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if svc.applied["snap_distance_threshold"] != 0.05 {
			t.Errorf("applied = %v, want snap_distance_threshold 0.05", svc.applied)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		svc := &fakeThresholdService{cfg: *gesture.DefaultThresholds()}
		h := NewConfigHandler(svc)

		req := httptest.NewRequest(http.MethodPut, "/api/config", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects empty update", func(t *testing.T) {
		svc := &fakeThresholdService{cfg: *gesture.DefaultThresholds()}
		h := NewConfigHandler(svc)

		req := httptest.NewRequest(http.MethodPut, "/api/config", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("maps service rejection to 400", func(t *testing.T) {
		svc := &fakeThresholdService{
			cfg:     *gesture.DefaultThresholds(),
			failErr: errors.New("unknown parameter: bogus"),
		}
		h := NewConfigHandler(svc)

		body := bytes.NewBufferString(`{"bogus": 1.0}`)
		req := httptest.NewRequest(http.MethodPut, "/api/config", body)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}

		var resp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Error == "" {
			t.Error("expected an error message in the response body")
		}
	})
}

func TestConfigHandler_MethodNotAllowed(t *testing.T) {
	svc := &fakeThresholdService{cfg: *gesture.DefaultThresholds()}
	h := NewConfigHandler(svc)

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/config", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: status = %d, want %d", method, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}
