package store

import (
	"database/sql"
	"time"
)

// Profile roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// News statuses.
const (
	NewsStatusDraft     = "draft"
	NewsStatusScheduled = "scheduled"
	NewsStatusPublished = "published"
	NewsStatusArchived  = "archived"
)

// Entry statuses.
const (
	EntryStatusPending  = "pending"
	EntryStatusApproved = "approved"
	EntryStatusRejected = "rejected"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth     = "auth"
	EventCategoryContent  = "content"
	EventCategoryEntry    = "entry"
	EventCategoryUser     = "user"
	EventCategorySettings = "settings"
	EventCategorySystem   = "system"
)

// Profile is a contest staff account with a role and per-feature permissions.
// Permissions holds a JSON object of feature flags; it is parsed by the auth
// package, never by the store.
type Profile struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Permissions  string
	IsActive     bool
	LastLoginAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// News is a contest announcement. Body holds Markdown source; rendering
// happens at the handler layer.
type News struct {
	ID          int64
	Title       string
	Slug        string
	Body        string
	Status      string
	PublishAt   sql.NullTime
	PublishedAt sql.NullTime
	AuthorID    sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Judge is a contest jury member shown on the public site.
type Judge struct {
	ID        int64
	Name      string
	Title     string
	Bio       string
	PhotoPath string
	SortOrder int64
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Prize describes an award tier.
type Prize struct {
	ID          int64
	RankLabel   string
	Title       string
	Description string
	ImagePath   string
	SortOrder   int64
	IsVisible   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Sponsor is a contest sponsor with an optional logo and link.
type Sponsor struct {
	ID        int64
	Name      string
	URL       string
	LogoPath  string
	Tier      string
	SortOrder int64
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FAQ is a question/answer pair grouped by category.
type FAQ struct {
	ID        int64
	Question  string
	Answer    string
	Category  string
	SortOrder int64
	IsVisible bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Entry is a submitted work example for the contest gallery.
type Entry struct {
	ID          int64
	Title       string
	StylistName string
	SalonName   string
	Description string
	PhotoPath   string
	ThumbPath   string
	Status      string
	SortOrder   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Setting is a key/value site configuration entry.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Event is a persisted audit log record.
type Event struct {
	ID        int64
	CreatedAt time.Time
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress sql.NullString
	UserAgent sql.NullString
	Meta      sql.NullString
}

// PageView is a single recorded page visit used for KPI reporting.
type PageView struct {
	ID        int64
	Path      string
	Referrer  string
	IPHash    string
	Country   string
	Browser   string
	OS        string
	Device    string
	IsBot     bool
	CreatedAt time.Time
}
