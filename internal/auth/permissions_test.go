// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"testing"

	"github.com/remila/backstyle/internal/store"
)

func adminProfile() *store.Profile {
	return &store.Profile{ID: 1, Role: store.RoleAdmin, Permissions: "{}"}
}

func editorProfile(permissions string) *store.Profile {
	return &store.Profile{ID: 2, Role: store.RoleEditor, Permissions: permissions}
}

func TestHasAccess_NilProfileAllowsEverything(t *testing.T) {
	for _, feature := range []string{FeatureDashboard, FeatureSettings, "unknown-feature"} {
		if !HasAccess(nil, feature) {
			t.Errorf("HasAccess(nil, %q) = false, want true", feature)
		}
	}
}

func TestHasAccess_AdminBypassesAllFlags(t *testing.T) {
	// Admin access must not depend on the flag set, even an explicit false.
	profile := adminProfile()
	profile.Permissions = `{"news": false, "settings": false}`

	for _, item := range DefaultMenu() {
		if !HasAccess(profile, item.ID) {
			t.Errorf("HasAccess(admin, %q) = false, want true", item.ID)
		}
	}
}

func TestHasAccess_EditorFlags(t *testing.T) {
	profile := editorProfile(`{"news": true, "faq": false}`)

	tests := []struct {
		feature string
		want    bool
	}{
		{FeatureNews, true},
		{FeatureFAQ, false},
		{FeatureSettings, false}, // missing flag means no access
		{"brand-new-screen", true}, // unmapped features default to accessible
	}

	for _, tt := range tests {
		t.Run(tt.feature, func(t *testing.T) {
			if got := HasAccess(profile, tt.feature); got != tt.want {
				t.Errorf("HasAccess(editor, %q) = %v, want %v", tt.feature, got, tt.want)
			}
		})
	}
}

func TestHasAccess_MalformedPermissions(t *testing.T) {
	profile := editorProfile(`{not json`)

	// Malformed flag data degrades to an empty flag set for editors.
	if HasAccess(profile, FeatureNews) {
		t.Error("HasAccess with malformed permissions = true, want false for gated feature")
	}
	if !HasAccess(profile, "unmapped") {
		t.Error("HasAccess with malformed permissions = false, want true for unmapped feature")
	}
}

func TestAccessibleMenuItems_NilProfileUnfiltered(t *testing.T) {
	menu := DefaultMenu()
	got := AccessibleMenuItems(nil, menu)
	if len(got) != len(menu) {
		t.Errorf("AccessibleMenuItems(nil) returned %d items, want %d", len(got), len(menu))
	}
}

func TestAccessibleMenuItems_AdminUnfiltered(t *testing.T) {
	menu := DefaultMenu()
	got := AccessibleMenuItems(adminProfile(), menu)
	if len(got) != len(menu) {
		t.Errorf("AccessibleMenuItems(admin) returned %d items, want %d", len(got), len(menu))
	}
}

func TestAccessibleMenuItems_EditorFiltering(t *testing.T) {
	profile := editorProfile(`{"dashboard": true, "news": true}`)

	got := AccessibleMenuItems(profile, DefaultMenu())

	want := map[string]bool{FeatureDashboard: true, FeatureNews: true}
	if len(got) != len(want) {
		t.Fatalf("AccessibleMenuItems(editor) returned %d items, want %d: %+v", len(got), len(want), got)
	}
	for _, item := range got {
		if !want[item.ID] {
			t.Errorf("unexpected menu item %q", item.ID)
		}
		if item.AdminOnly {
			t.Errorf("adminOnly item %q visible to editor", item.ID)
		}
	}
}

func TestAccessibleMenuItems_UnmappedItemVisible(t *testing.T) {
	profile := editorProfile(`{}`)
	menu := []MenuItem{
		{ID: "experimental", Label: "Experimental"},
		{ID: FeatureNews, Label: "News"},
	}

	got := AccessibleMenuItems(profile, menu)
	if len(got) != 1 || got[0].ID != "experimental" {
		t.Errorf("AccessibleMenuItems = %+v, want only the unmapped item", got)
	}
}

func TestParsePermissions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]bool
	}{
		{"empty string", "", map[string]bool{}},
		{"empty object", "{}", map[string]bool{}},
		{"flags", `{"news": true, "faq": false}`, map[string]bool{"news": true, "faq": false}},
		{"malformed", "{oops", map[string]bool{}},
		{"null", "null", map[string]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePermissions(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParsePermissions(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParsePermissions(%q)[%q] = %v, want %v", tt.raw, k, got[k], v)
				}
			}
		})
	}
}
