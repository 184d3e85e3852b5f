// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createArticle = `
INSERT INTO articles (title, slug, excerpt, content, image, author, published, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, title, slug, excerpt, content, image, author, published, created_at, updated_at
`

// CreateArticleParams holds the fields for CreateArticle.
type CreateArticleParams struct {
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

// CreateArticle inserts a new article and returns the stored row.
func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (Article, error) {
	row := q.db.QueryRowContext(ctx, createArticle,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.Image, arg.Author,
		arg.Published, arg.CreatedAt, arg.UpdatedAt,
	)
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.Image,
		&a.Author, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const getArticleByID = `
SELECT id, title, slug, excerpt, content, image, author, published, created_at, updated_at
FROM articles WHERE id = ?
`

// GetArticleByID returns a single article by primary key.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (Article, error) {
	row := q.db.QueryRowContext(ctx, getArticleByID, id)
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.Image,
		&a.Author, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const getPublishedArticleBySlug = `
SELECT id, title, slug, excerpt, content, image, author, published, created_at, updated_at
FROM articles WHERE slug = ? AND published = 1
LIMIT 1
`

// GetPublishedArticleBySlug returns the published article with the
// given slug. sql.ErrNoRows is the caller's "not found" signal.
func (q *Queries) GetPublishedArticleBySlug(ctx context.Context, slug string) (Article, error) {
	row := q.db.QueryRowContext(ctx, getPublishedArticleBySlug, slug)
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.Image,
		&a.Author, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const listArticles = `
SELECT id, title, slug, excerpt, content, image, author, published, created_at, updated_at
FROM articles
ORDER BY created_at DESC
LIMIT ? OFFSET ?
`

// ListArticlesParams holds pagination for ListArticles.
type ListArticlesParams struct {
	Limit  int64
	Offset int64
}

// ListArticles returns all articles, newest first, for the admin list.
func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]Article, error) {
	rows, err := q.db.QueryContext(ctx, listArticles, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.Image,
			&a.Author, &a.Published, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const countArticles = `SELECT COUNT(*) FROM articles`

// CountArticles returns the total number of articles.
func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countArticles)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listPublishedArticles = `
SELECT id, title, slug, excerpt, content, image, author, published, created_at, updated_at
FROM articles WHERE published = 1
ORDER BY created_at DESC
`

// ListPublishedArticles returns all published articles, newest first.
func (q *Queries) ListPublishedArticles(ctx context.Context) ([]Article, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedArticles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.Image,
			&a.Author, &a.Published, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const listRelatedArticles = `
SELECT id, title, slug, excerpt, content, image, author, published, created_at, updated_at
FROM articles WHERE published = 1 AND slug != ?
ORDER BY created_at DESC
LIMIT ?
`

// ListRelatedArticlesParams holds the exclusion slug and limit.
type ListRelatedArticlesParams struct {
	Slug  string
	Limit int64
}

// ListRelatedArticles returns published articles other than the given
// slug, newest first.
func (q *Queries) ListRelatedArticles(ctx context.Context, arg ListRelatedArticlesParams) ([]Article, error) {
	rows, err := q.db.QueryContext(ctx, listRelatedArticles, arg.Slug, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.Image,
			&a.Author, &a.Published, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const updateArticle = `
UPDATE articles
SET title = ?, slug = ?, excerpt = ?, content = ?, image = ?, published = ?, updated_at = ?
WHERE id = ?
RETURNING id, title, slug, excerpt, content, image, author, published, created_at, updated_at
`

// UpdateArticleParams holds the fields for UpdateArticle.
type UpdateArticleParams struct {
	ID        int64
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	Image     string
	Published bool
	UpdatedAt time.Time
}

// UpdateArticle updates an existing article and returns the stored row.
func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) (Article, error) {
	row := q.db.QueryRowContext(ctx, updateArticle,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.Image,
		arg.Published, arg.UpdatedAt, arg.ID,
	)
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.Image,
		&a.Author, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const setArticlePublished = `
UPDATE articles SET published = ?, updated_at = ? WHERE id = ?
`

// SetArticlePublishedParams holds the fields for SetArticlePublished.
type SetArticlePublishedParams struct {
	ID        int64
	Published bool
	UpdatedAt time.Time
}

// SetArticlePublished flips the publish flag on an article.
func (q *Queries) SetArticlePublished(ctx context.Context, arg SetArticlePublishedParams) error {
	_, err := q.db.ExecContext(ctx, setArticlePublished, arg.Published, arg.UpdatedAt, arg.ID)
	return err
}

const deleteArticle = `DELETE FROM articles WHERE id = ?`

// DeleteArticle removes an article.
func (q *Queries) DeleteArticle(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteArticle, id)
	return err
}

const articleSlugExists = `SELECT COUNT(*) FROM articles WHERE slug = ?`

// ArticleSlugExists returns a non-zero count if any article uses the slug.
func (q *Queries) ArticleSlugExists(ctx context.Context, slug string) (int64, error) {
	row := q.db.QueryRowContext(ctx, articleSlugExists, slug)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const articleSlugExistsExcluding = `SELECT COUNT(*) FROM articles WHERE slug = ? AND id != ?`

// ArticleSlugExistsExcludingParams holds the fields for ArticleSlugExistsExcluding.
type ArticleSlugExistsExcludingParams struct {
	Slug string
	ID   int64
}

// ArticleSlugExistsExcluding returns a non-zero count if another
// article (a different id) uses the slug.
func (q *Queries) ArticleSlugExistsExcluding(ctx context.Context, arg ArticleSlugExistsExcludingParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, articleSlugExistsExcluding, arg.Slug, arg.ID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
