// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

// MenuItem is a static admin navigation entry. The list is fixed at build
// time; visibility is decided per request by AccessibleMenuItems.
type MenuItem struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Icon          string `json:"icon"`
	AdminOnly     bool   `json:"adminOnly,omitempty"`
	Unimplemented bool   `json:"unimplemented,omitempty"`
}

// DefaultMenu returns the full admin navigation in display order.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{ID: FeatureDashboard, Label: "Dashboard", Icon: "home"},
		{ID: FeatureKPI, Label: "KPI", Icon: "chart"},
		{ID: FeatureNews, Label: "News", Icon: "newspaper"},
		{ID: FeatureWorkExamples, Label: "Work Examples", Icon: "image"},
		{ID: FeatureFAQ, Label: "FAQ", Icon: "question"},
		{ID: FeatureJudges, Label: "Judges", Icon: "users"},
		{ID: FeatureSponsors, Label: "Sponsors", Icon: "briefcase"},
		{ID: FeaturePrizes, Label: "Prizes", Icon: "trophy"},
		{ID: FeatureSettings, Label: "Settings", Icon: "cog"},
		{ID: "users", Label: "Staff Accounts", Icon: "shield", AdminOnly: true},
		{ID: "events", Label: "Event Log", Icon: "list", AdminOnly: true},
	}
}
