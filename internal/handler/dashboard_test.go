package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/remila/backstyle/internal/store"
)

func TestDashboardCounters(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")
	createTestNews(t, db, "Live", "live", store.NewsStatusPublished)
	createTestNews(t, db, "Draft", "draft", store.NewsStatusDraft)
	createTestEntry(t, db, "Pending", store.EntryStatusPending)
	createTestEntry(t, db, "Approved", store.EntryStatusApproved)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.Dashboard(w, r)
	assertStatus(t, w.Code, http.StatusOK)

	var resp DashboardResponse
	decodeData(t, w.Body.Bytes(), &resp)
	if resp.NewsTotal != 2 || resp.NewsPublished != 1 {
		t.Errorf("news counters = %d/%d; want 2/1", resp.NewsTotal, resp.NewsPublished)
	}
	if resp.EntriesPending != 1 || resp.EntriesApproved != 1 || resp.EntriesRejected != 0 {
		t.Errorf("entry counters = %d/%d/%d; want 1/1/0",
			resp.EntriesPending, resp.EntriesApproved, resp.EntriesRejected)
	}
	if resp.StaffAccounts != 1 {
		t.Errorf("staff accounts = %d; want 1", resp.StaffAccounts)
	}
}

func TestKPIDefaults(t *testing.T) {
	h, db, _ := newTestHandler(t)
	p := createTestProfile(t, db, "admin@test.com", store.RoleAdmin, "{}")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/kpi", nil)
	r = requestWithAuthState(r, &p)
	w := httptest.NewRecorder()

	h.KPI(w, r)
	assertStatus(t, w.Code, http.StatusOK)
}
