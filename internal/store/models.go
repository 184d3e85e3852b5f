// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Article is a blog article. Content holds the markdown source;
// HTML is produced and sanitized at render time, never stored.
type Article struct {
	ID        int64
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	Image     string
	Author    string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Testimonial is a visitor-submitted review. Submissions start
// unapproved and only appear publicly once an admin approves them.
type Testimonial struct {
	ID        int64
	Name      string
	Role      string
	Text      string
	Rating    int64
	Approved  bool
	CreatedAt time.Time
}

// User is an operator account. Role is "admin" or "editor".
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// Event is an audit log entry written by the logging tee and by
// security-relevant handlers.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}

// PageView is a raw public page view captured by the tracking
// middleware. Raw rows are rolled up daily and pruned.
type PageView struct {
	ID          int64
	Path        string
	Country     string
	VisitorHash string
	CreatedAt   time.Time
}

// PageViewDaily is an aggregated per-day, per-path view count.
type PageViewDaily struct {
	ID      int64
	Day     string
	Path    string
	Country string
	Views   int64
}
