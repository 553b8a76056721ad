package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTrack(t *testing.T) {
	h, _, _ := newTestHandler(t)

	body := `{"path":"/news/contest-opens","referrer":"https://example.com"}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/track", strings.NewReader(body))
	r.Header.Set("User-Agent", "Mozilla/5.0 (test)")
	w := httptest.NewRecorder()

	h.Track(w, r)
	assertStatus(t, w.Code, http.StatusNoContent)
}

func TestTrackRejectsExternalPath(t *testing.T) {
	h, _, _ := newTestHandler(t)

	body := `{"path":"https://evil.example.com/"}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/track", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Track(w, r)
	assertStatus(t, w.Code, http.StatusUnprocessableEntity)
}

func TestTrackRejectsEmptyPath(t *testing.T) {
	h, _, _ := newTestHandler(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/track", strings.NewReader(`{"path":"  "}`))
	w := httptest.NewRecorder()

	h.Track(w, r)
	assertStatus(t, w.Code, http.StatusUnprocessableEntity)
}
