// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"encoding/json"
	"log/slog"

	"github.com/remila/backstyle/internal/store"
)

// Feature identifiers for gated admin areas. The flag set is closed: only
// these features can be toggled per editor.
const (
	FeatureDashboard    = "dashboard"
	FeatureKPI          = "kpi"
	FeatureNews         = "news"
	FeatureWorkExamples = "workExamples"
	FeatureFAQ          = "faq"
	FeatureJudges       = "judges"
	FeatureSponsors     = "sponsors"
	FeaturePrizes       = "prizes"
	FeatureSettings     = "settings"
)

// gatedFeatures maps a feature id to its permission flag key. Features
// without a mapping are not gate-able and default to accessible, so newly
// added admin screens are never silently locked out before their flag is
// introduced.
var gatedFeatures = map[string]string{
	FeatureDashboard:    FeatureDashboard,
	FeatureKPI:          FeatureKPI,
	FeatureNews:         FeatureNews,
	FeatureWorkExamples: FeatureWorkExamples,
	FeatureFAQ:          FeatureFAQ,
	FeatureJudges:       FeatureJudges,
	FeatureSponsors:     FeatureSponsors,
	FeaturePrizes:       FeaturePrizes,
	FeatureSettings:     FeatureSettings,
}

// Permissions is the per-editor feature flag set, stored as a JSON object
// on the profile row. Flags absent from the object mean "no access".
type Permissions map[string]bool

// ParsePermissions decodes the permissions JSON stored on a profile.
// Malformed data is logged and treated as an empty flag set.
func ParsePermissions(raw string) Permissions {
	if raw == "" {
		return Permissions{}
	}
	var p Permissions
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.Warn("malformed permissions data", "error", err)
		return Permissions{}
	}
	if p == nil {
		return Permissions{}
	}
	return p
}

// IsGatedFeature reports whether the feature id belongs to the closed
// flag set. Account management uses it to reject unknown flags.
func IsGatedFeature(featureID string) bool {
	_, ok := gatedFeatures[featureID]
	return ok
}

// HasAccess reports whether the profile may use the given feature.
//
// A nil profile is allowed through: during transient load there is no auth
// information yet and blanking the whole panel is worse than a brief
// over-display (route handlers still require a session separately).
// Admins bypass all flags. Editors are checked against their flag set;
// features without a flag mapping are always accessible.
func HasAccess(profile *store.Profile, featureID string) bool {
	if profile == nil {
		return true
	}
	if profile.Role == store.RoleAdmin {
		return true
	}

	flag, gated := gatedFeatures[featureID]
	if !gated {
		return true
	}
	return ParsePermissions(profile.Permissions)[flag]
}

// AccessibleMenuItems filters menu items by the profile's role and flags.
// The same rules as HasAccess apply, plus adminOnly items are removed for
// non-admins.
func AccessibleMenuItems(profile *store.Profile, items []MenuItem) []MenuItem {
	if profile == nil || profile.Role == store.RoleAdmin {
		return items
	}

	perms := ParsePermissions(profile.Permissions)
	visible := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.AdminOnly {
			continue
		}
		if flag, gated := gatedFeatures[item.ID]; gated && !perms[flag] {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}
