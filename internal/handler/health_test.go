package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, r)
	assertStatus(t, w.Code, http.StatusOK)
}

func TestHealthAfterDBClose(t *testing.T) {
	h, db, _ := newTestHandler(t)
	db.Close()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, r)
	assertStatus(t, w.Code, http.StatusServiceUnavailable)
}

func TestHealthLive(t *testing.T) {
	h, _, _ := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()

	h.HealthLive(w, r)
	assertStatus(t, w.Code, http.StatusOK)
}

func TestHealthReady(t *testing.T) {
	h, _, _ := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	w := httptest.NewRecorder()

	h.HealthReady(w, r)
	assertStatus(t, w.Code, http.StatusOK)
}

func TestStatus(t *testing.T) {
	h, _, _ := newTestHandler(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()

	h.Status(w, r)
	assertStatus(t, w.Code, http.StatusOK)

	var resp StatusResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q; want ok", resp.Status)
	}
}
