// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/travthru/travthru/internal/auth"
	"github.com/travthru/travthru/internal/logging"
	"github.com/travthru/travthru/internal/middleware"
	"github.com/travthru/travthru/internal/render"
	"github.com/travthru/travthru/internal/store"
)

// UsersHandler handles admin user management routes.
type UsersHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, renderer *render.Renderer) *UsersHandler {
	return &UsersHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// UsersListData holds data for the users list template.
type UsersListData struct {
	Users       []store.User
	CurrentUser *store.User
}

// List handles GET /admin/users - displays all users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	renderOrInternalError(w, r, h.renderer, "admin/users_list", render.TemplateData{
		Title: "Users",
		User:  middleware.GetUser(r),
		Data: UsersListData{
			Users:       users,
			CurrentUser: middleware.GetUser(r),
		},
	})
}

// UserFormData holds data for the user form template.
type UserFormData struct {
	Roles      []string
	Errors     map[string]string
	FormValues map[string]string
}

// NewForm handles GET /admin/users/new - displays the new user form.
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, UserFormData{
		Roles:      ValidRoles,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	})
}

// Create handles POST /admin/users - creates a new user.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsersNew) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	name := strings.TrimSpace(r.FormValue("name"))
	password := r.FormValue("password")
	passwordConfirm := r.FormValue("password_confirm")
	role := r.FormValue("role")

	formValues := map[string]string{
		"email": email,
		"name":  name,
		"role":  role,
	}

	validationErrors := make(map[string]string)

	if email == "" {
		validationErrors["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		validationErrors["email"] = "Invalid email format"
	} else {
		_, err := h.queries.GetUserByEmail(r.Context(), email)
		if err == nil {
			validationErrors["email"] = "Email already exists"
		} else if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error checking email", "error", err)
			validationErrors["email"] = "Error checking email"
		}
	}

	if name == "" {
		validationErrors["name"] = "Name is required"
	} else if len(name) < 2 {
		validationErrors["name"] = "Name must be at least 2 characters"
	}

	if password == "" {
		validationErrors["password"] = "Password is required"
	} else if len(password) < 8 {
		validationErrors["password"] = "Password must be at least 8 characters"
	} else if password != passwordConfirm {
		validationErrors["password_confirm"] = "Passwords do not match"
	}

	if role == "" {
		validationErrors["role"] = "Role is required"
	} else if !isValidRole(role) {
		validationErrors["role"] = "Invalid role"
	}

	if len(validationErrors) > 0 {
		h.renderForm(w, r, UserFormData{
			Roles:      ValidRoles,
			Errors:     validationErrors,
			FormValues: formValues,
		})
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Error creating user")
		return
	}

	now := time.Now()
	newUser, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err,
			"category", logging.EventCategoryUser)
		flashError(w, r, h.renderer, redirectAdminUsersNew, "Error creating user")
		return
	}

	slog.Info("user created", "category", logging.EventCategoryUser,
		"user_id", newUser.ID, "email", newUser.Email, "created_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User created successfully")
}

// SetRole handles POST /admin/users/{id}/role - changes a user's role.
// The role comes from the form, never from anything client-claimed about
// the current session; the current operator must hold the admin role to
// reach this handler at all.
func (h *UsersHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	role := r.FormValue("role")
	if !isValidRole(role) {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid role")
		return
	}

	target, ok := h.requireUser(w, r, id)
	if !ok {
		return
	}

	if target.Role == role {
		flashAndRedirect(w, r, h.renderer, redirectAdminUsers, "User already has that role", "info")
		return
	}

	// Never demote the last admin; the panel would become unmanageable.
	if target.Role == RoleAdmin && role != RoleAdmin {
		adminCount, err := h.queries.CountUsersByRole(r.Context(), RoleAdmin)
		if err != nil {
			logAndInternalError(w, "failed to count admins", "error", err)
			return
		}
		if adminCount <= 1 {
			flashError(w, r, h.renderer, redirectAdminUsers, "Cannot demote the last admin")
			return
		}
	}

	err = h.queries.UpdateUserRole(r.Context(), store.UpdateUserRoleParams{
		ID:        id,
		Role:      role,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to update user role", "error", err,
			"category", logging.EventCategoryUser, "user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, "Error updating user role")
		return
	}

	slog.Warn("user role changed", "category", logging.EventCategoryUser,
		"user_id", id, "old_role", target.Role, "new_role", role,
		"changed_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "Role updated for "+target.Name)
}

// Delete handles POST /admin/users/{id}/delete.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid user ID")
		return
	}

	if id == middleware.GetUserID(r) {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}

	target, ok := h.requireUser(w, r, id)
	if !ok {
		return
	}

	if target.Role == RoleAdmin {
		adminCount, err := h.queries.CountUsersByRole(r.Context(), RoleAdmin)
		if err != nil {
			logAndInternalError(w, "failed to count admins", "error", err)
			return
		}
		if adminCount <= 1 {
			flashError(w, r, h.renderer, redirectAdminUsers, "Cannot delete the last admin")
			return
		}
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		slog.Error("failed to delete user", "error", err,
			"category", logging.EventCategoryUser, "user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, "Error deleting user")
		return
	}

	slog.Warn("user deleted", "category", logging.EventCategoryUser,
		"user_id", id, "email", target.Email, "deleted_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User deleted")
}

// isValidRole checks if the given role is in the list of valid roles.
func isValidRole(role string) bool {
	for _, valid := range ValidRoles {
		if role == valid {
			return true
		}
	}
	return false
}

func (h *UsersHandler) requireUser(w http.ResponseWriter, r *http.Request, id int64) (store.User, bool) {
	return requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "User", id,
		func(id int64) (store.User, error) { return h.queries.GetUserByID(r.Context(), id) })
}

func (h *UsersHandler) renderForm(w http.ResponseWriter, r *http.Request, data UserFormData) {
	renderOrInternalError(w, r, h.renderer, "admin/users_form", render.TemplateData{
		Title: "New User",
		User:  middleware.GetUser(r),
		Data:  data,
	})
}
