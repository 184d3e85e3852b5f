// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createTestimonial = `
INSERT INTO testimonials (name, role, text, rating, approved, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, name, role, text, rating, approved, created_at
`

// CreateTestimonialParams holds the fields for CreateTestimonial.
type CreateTestimonialParams struct {
	Name      string
	Role      string
	Text      string
	Rating    int64
	Approved  bool
	CreatedAt time.Time
}

// CreateTestimonial inserts a new testimonial and returns the stored row.
func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial,
		arg.Name, arg.Role, arg.Text, arg.Rating, arg.Approved, arg.CreatedAt,
	)
	var t Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Text, &t.Rating, &t.Approved, &t.CreatedAt)
	return t, err
}

const getTestimonialByID = `
SELECT id, name, role, text, rating, approved, created_at
FROM testimonials WHERE id = ?
`

// GetTestimonialByID returns a single testimonial by primary key.
func (q *Queries) GetTestimonialByID(ctx context.Context, id int64) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, getTestimonialByID, id)
	var t Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Text, &t.Rating, &t.Approved, &t.CreatedAt)
	return t, err
}

const listTestimonials = `
SELECT id, name, role, text, rating, approved, created_at
FROM testimonials
ORDER BY created_at DESC
`

// ListTestimonials returns all testimonials, newest first, for moderation.
func (q *Queries) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonials)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Role, &t.Text, &t.Rating, &t.Approved, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const listApprovedTestimonials = `
SELECT id, name, role, text, rating, approved, created_at
FROM testimonials WHERE approved = 1
ORDER BY created_at DESC
`

// ListApprovedTestimonials returns approved testimonials for the
// public testimonials section.
func (q *Queries) ListApprovedTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listApprovedTestimonials)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Role, &t.Text, &t.Rating, &t.Approved, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const countPendingTestimonials = `SELECT COUNT(*) FROM testimonials WHERE approved = 0`

// CountPendingTestimonials returns the number of unapproved testimonials.
func (q *Queries) CountPendingTestimonials(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPendingTestimonials)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const setTestimonialApproved = `UPDATE testimonials SET approved = ? WHERE id = ?`

// SetTestimonialApprovedParams holds the fields for SetTestimonialApproved.
type SetTestimonialApprovedParams struct {
	ID       int64
	Approved bool
}

// SetTestimonialApproved flips the approved flag on a testimonial.
func (q *Queries) SetTestimonialApproved(ctx context.Context, arg SetTestimonialApprovedParams) error {
	_, err := q.db.ExecContext(ctx, setTestimonialApproved, arg.Approved, arg.ID)
	return err
}

const deleteTestimonial = `DELETE FROM testimonials WHERE id = ?`

// DeleteTestimonial removes a testimonial.
func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTestimonial, id)
	return err
}
