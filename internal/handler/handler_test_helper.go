package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/travthru/travthru/internal/cache"
	"github.com/travthru/travthru/internal/middleware"
	"github.com/travthru/travthru/internal/render"
	"github.com/travthru/travthru/internal/store"
)

// testDB creates an in-memory SQLite database with the required schema for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'editor',
			name TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME
		);
		CREATE INDEX idx_users_email ON users(email);
		CREATE INDEX idx_users_role ON users(role);

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX idx_sessions_expiry ON sessions(expiry);

		CREATE TABLE articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			excerpt TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT 'Admin',
			published BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX idx_articles_slug ON articles(slug);
		CREATE INDEX idx_articles_published ON articles(published);

		CREATE TABLE testimonials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 5 CHECK (rating BETWEEN 1 AND 5),
			approved BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX idx_testimonials_approved ON testimonials(approved);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
		);

		CREATE TABLE page_views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			visitor_hash TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE page_views_daily (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			day TEXT NOT NULL,
			path TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			views INTEGER NOT NULL DEFAULT 0,
			UNIQUE(day, path, country)
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testUser is a test user for testing.
type testUser struct {
	ID           int64
	Email        string
	Name         string
	Role         string
	PasswordHash string
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, db *sql.DB, user testUser) store.User {
	t.Helper()

	if user.PasswordHash == "" {
		// Default password hash for "password123"
		user.PasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$c29tZXNhbHQ$RdescudvJCsgt3ub+b+dWRWJTmaaJObG"
	}

	now := time.Now()
	result, err := db.Exec(
		`INSERT INTO users (email, password_hash, role, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.Role, user.Name, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	id, _ := result.LastInsertId()
	return store.User{
		ID:           id,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		Name:         user.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// createTestArticle inserts an article directly for testing.
func createTestArticle(t *testing.T, db *sql.DB, title, slug string, published bool) store.Article {
	t.Helper()

	now := time.Now()
	article, err := store.New(db).CreateArticle(context.Background(), store.CreateArticleParams{
		Title:     title,
		Slug:      slug,
		Content:   "## " + title + "\n\nBody text.",
		Author:    "Test Author",
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to create test article: %v", err)
	}
	return article
}

// createTestTestimonial inserts a testimonial directly for testing.
func createTestTestimonial(t *testing.T, db *sql.DB, name string, rating int64, approved bool) store.Testimonial {
	t.Helper()

	testimonial, err := store.New(db).CreateTestimonial(context.Background(), store.CreateTestimonialParams{
		Name:      name,
		Role:      "Traveler",
		Text:      "Great ride, punctual driver.",
		Rating:    rating,
		Approved:  approved,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to create test testimonial: %v", err)
	}
	return testimonial
}

// testRenderer creates a renderer with no templates. Handlers under
// test exercise redirect paths, which never execute a template.
func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()

	r, err := render.New(render.Config{TemplatesFS: fstest.MapFS{}})
	if err != nil {
		t.Fatalf("failed to create test renderer: %v", err)
	}
	return r
}

// testCacheManager creates an in-memory cache manager.
func testCacheManager(t *testing.T, db *sql.DB) *cache.Manager {
	t.Helper()

	m, err := cache.NewManager(store.New(db), cache.DefaultCacheConfig())
	if err != nil {
		t.Fatalf("failed to create cache manager: %v", err)
	}
	t.Cleanup(m.Stop)
	return m
}

// requestWithUser injects an authenticated user into the request context.
func requestWithUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
