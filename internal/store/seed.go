package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates the initial admin profile. The caller supplies the password
// hash so this package stays independent of the hashing implementation.
func Seed(ctx context.Context, db *sql.DB, passwordHash string) error {
	queries := New(db)

	// Check if admin profile already exists
	_, err := queries.GetProfileByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin profile already exists, skipping seed")
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking for admin profile: %w", err)
	}

	// Create admin profile. Admins bypass feature flags, so permissions
	// stay at the empty default.
	now := time.Now()
	profile, err := queries.CreateProfile(ctx, CreateProfileParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Name:         DefaultAdminName,
		Role:         RoleAdmin,
		Permissions:  "{}",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin profile: %w", err)
	}

	slog.Info("created default admin profile",
		"id", profile.ID,
		"email", profile.Email,
		"password", DefaultAdminPassword,
	)

	return nil
}

// SeedDemoContent populates the database with sample contest content for
// development environments. It is a no-op when content already exists.
func SeedDemoContent(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	count, err := queries.CountNews(ctx)
	if err != nil {
		return fmt.Errorf("counting news: %w", err)
	}
	if count > 0 {
		slog.Info("content already exists, skipping demo seed")
		return nil
	}

	now := time.Now()

	if _, err := queries.CreateNews(ctx, CreateNewsParams{
		Title:       "Entries Are Open",
		Slug:        "entries-are-open",
		Body:        "Submissions for this year's back style contest are now open.\n\nSend us your best work before the deadline.",
		Status:      NewsStatusPublished,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return fmt.Errorf("seeding news: %w", err)
	}

	judges := []CreateJudgeParams{
		{Name: "Yuki Tanaka", Title: "Creative Director", Bio: "Twenty years of editorial styling.", SortOrder: 1, IsVisible: true, CreatedAt: now, UpdatedAt: now},
		{Name: "Mariko Sato", Title: "Salon Owner", Bio: "Award-winning colorist and educator.", SortOrder: 2, IsVisible: true, CreatedAt: now, UpdatedAt: now},
	}
	for _, j := range judges {
		if _, err := queries.CreateJudge(ctx, j); err != nil {
			return fmt.Errorf("seeding judges: %w", err)
		}
	}

	prizes := []CreatePrizeParams{
		{RankLabel: "Grand Prix", Title: "Grand Prix", Description: "Trophy and feature interview.", SortOrder: 1, IsVisible: true, CreatedAt: now, UpdatedAt: now},
		{RankLabel: "Runner-up", Title: "Runner-up Award", Description: "Certificate and product set.", SortOrder: 2, IsVisible: true, CreatedAt: now, UpdatedAt: now},
	}
	for _, p := range prizes {
		if _, err := queries.CreatePrize(ctx, p); err != nil {
			return fmt.Errorf("seeding prizes: %w", err)
		}
	}

	faqs := []CreateFAQParams{
		{Question: "Who can enter?", Answer: "Any licensed stylist may submit one entry.", Category: "entry", SortOrder: 1, IsVisible: true, CreatedAt: now, UpdatedAt: now},
		{Question: "Is there an entry fee?", Answer: "No, entry is free.", Category: "entry", SortOrder: 2, IsVisible: true, CreatedAt: now, UpdatedAt: now},
	}
	for _, f := range faqs {
		if _, err := queries.CreateFAQ(ctx, f); err != nil {
			return fmt.Errorf("seeding faqs: %w", err)
		}
	}

	settings := []UpsertSettingParams{
		{Key: "site_title", Value: "REMILA Back Style Contest", UpdatedAt: now},
		{Key: "entry_open", Value: "true", UpdatedAt: now},
	}
	for _, s := range settings {
		if err := queries.UpsertSetting(ctx, s); err != nil {
			return fmt.Errorf("seeding settings: %w", err)
		}
	}

	slog.Info("seeded demo content")
	return nil
}
