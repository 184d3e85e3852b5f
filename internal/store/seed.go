// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/travthru/travthru/internal/auth"
)

// Seed creates the bootstrap admin account if it does not exist yet.
// The email and password come from configuration; all further admin
// grants happen through the dashboard's promote action.
func Seed(ctx context.Context, db *sql.DB, adminEmail, adminPassword string) error {
	queries := New(db)

	// Check if the bootstrap admin already exists
	_, err := queries.GetUserByEmail(ctx, adminEmail)
	if err == nil {
		slog.Info("bootstrap admin already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Role:         "admin",
		Name:         "Administrator",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created bootstrap admin user", "id", user.ID, "email", user.Email)
	return nil
}
