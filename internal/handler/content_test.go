package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remila/backstyle/internal/store"
)

// Prizes, sponsors and FAQ entries share the same CRUD shape; these tests
// cover the per-entity validation and public visibility filtering.

func TestCreatePrize(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	body := `{"rank_label":"Grand Prix","title":"Trip to Paris","is_visible":true}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/prizes", strings.NewReader(body))
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.CreatePrize(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	var prize PrizeResponse
	decodeData(t, w.Body.Bytes(), &prize)
	assert.Equal(t, "Grand Prix", prize.RankLabel)
	assert.Equal(t, "Trip to Paris", prize.Title)
	assert.True(t, prize.IsVisible)
}

func TestCreatePrizeValidation(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/prizes", strings.NewReader(`{"description":"no label or title"}`))
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.CreatePrize(w, r)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListPublicPrizesVisibleOnly(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	for _, row := range []string{
		`{"rank_label":"1st","title":"Shown","is_visible":true}`,
		`{"rank_label":"2nd","title":"Hidden","is_visible":false}`,
	} {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/prizes", strings.NewReader(row))
		r = requestWithAuthState(r, &p)
		w := httptest.NewRecorder()
		h.CreatePrize(w, r)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/prizes", nil)
	w := httptest.NewRecorder()
	h.ListPublicPrizes(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var prizes []PrizeResponse
	decodeData(t, w.Body.Bytes(), &prizes)
	require.Len(t, prizes, 1)
	assert.Equal(t, "Shown", prizes[0].Title)
}

func TestCreateSponsor(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	body := `{"name":"Hair Co","tier":"gold","url":"https://hair.example.com","is_visible":true}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sponsors", strings.NewReader(body))
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.CreateSponsor(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	var s SponsorResponse
	decodeData(t, w.Body.Bytes(), &s)
	assert.Equal(t, "Hair Co", s.Name)
	assert.Equal(t, "gold", s.Tier)
}

func TestCreateSponsorRejectsUnknownTier(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	body := `{"name":"Hair Co","tier":"bronze"}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sponsors", strings.NewReader(body))
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.CreateSponsor(w, r)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateFAQ(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	body := `{"question":"When is the deadline?","answer":"March 31.","category":"entry","is_visible":true}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/faqs", strings.NewReader(body))
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.CreateFAQ(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	var f FAQResponse
	decodeData(t, w.Body.Bytes(), &f)
	assert.Equal(t, "When is the deadline?", f.Question)
	assert.Equal(t, "entry", f.Category)
}

func TestCreateFAQValidation(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/faqs", strings.NewReader(`{"question":"Only a question"}`))
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.CreateFAQ(w, r)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListPublicFAQsVisibleOnly(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	for _, row := range []string{
		`{"question":"Shown?","answer":"Yes.","is_visible":true}`,
		`{"question":"Hidden?","answer":"No.","is_visible":false}`,
	} {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/admin/faqs", strings.NewReader(row))
		r = requestWithAuthState(r, &p)
		w := httptest.NewRecorder()
		h.CreateFAQ(w, r)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/faq", nil)
	w := httptest.NewRecorder()
	h.ListPublicFAQs(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var faqs []FAQResponse
	decodeData(t, w.Body.Bytes(), &faqs)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Shown?", faqs[0].Question)
}
