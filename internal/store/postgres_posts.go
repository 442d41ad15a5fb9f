// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

const postColumns = `id, title, slug, excerpt, content, author, category, tags, image,
	published_at, scheduled_at, read_time, featured, status, comment_count,
	created_at, updated_at`

// scanPost scans a row into a Post, decoding the tags JSONB column.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var rawTags []byte
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Author, &p.Category,
		&rawTags, &p.Image, &p.PublishedAt, &p.ScheduledAt, &p.ReadTime,
		&p.Featured, &p.Status, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(rawTags) > 0 {
		if err := json.Unmarshal(rawTags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func (s *PostgresStore) queryPosts(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	out := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetPosts returns published posts matching the filter, ordered by
// published date descending.
func (s *PostgresStore) GetPosts(filter PostFilter) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = 'published'`
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		query += fmt.Sprintf(" AND featured = $%d", len(args))
	}
	query += ` ORDER BY published_at DESC NULLS LAST, created_at DESC, id`
	return s.queryPosts(query, args...)
}

// GetAllPosts returns every post regardless of status, newest first.
func (s *PostgresStore) GetAllPosts() ([]models.Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id`)
}

// GetScheduledPosts returns non-published posts carrying a scheduled
// publish date, soonest first.
func (s *PostgresStore) GetScheduledPosts() ([]models.Post, error) {
	return s.queryPosts(`
		SELECT ` + postColumns + ` FROM posts
		WHERE status <> 'published' AND scheduled_at IS NOT NULL
		ORDER BY scheduled_at, id`)
}

// GetPostByID retrieves a post by id, or a NotFoundError.
func (s *PostgresStore) GetPostByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// GetPostBySlug retrieves a post by slug, or a NotFoundError.
func (s *PostgresStore) GetPostBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// CreatePost inserts a post after applying create-time defaults.
func (s *PostgresStore) CreatePost(p *models.Post) (*models.Post, error) {
	post := p.Clone()
	preparePost(post, nowUTC())

	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO posts (id, title, slug, excerpt, content, author, category,
		                   tags, image, published_at, scheduled_at, read_time,
		                   featured, status, comment_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, post.ID, post.Title, post.Slug, post.Excerpt, post.Content, post.Author,
		post.Category, tags, post.Image, post.PublishedAt, post.ScheduledAt,
		post.ReadTime, post.Featured, post.Status, post.CommentCount,
		post.CreatedAt, post.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, &InvalidArgumentError{Field: "slug", Reason: "already in use"}
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// UpdatePost merges the patch over the stored post. The SET clause is built
// from the patch's fixed field set; there is no dynamic name translation,
// so nothing outside this mapping can ever be written.
func (s *PostgresStore) UpdatePost(id uuid.UUID, patch PostPatch) (*models.Post, error) {
	var (
		set  []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Excerpt != nil {
		add("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Tags != nil {
		tags, err := json.Marshal(*patch.Tags)
		if err != nil {
			return nil, fmt.Errorf("marshal tags: %w", err)
		}
		add("tags", tags)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if patch.ReadTime != nil {
		add("read_time", *patch.ReadTime)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PublishedAt != nil {
		add("published_at", *patch.PublishedAt)
	}
	if patch.ScheduledAt != nil {
		add("scheduled_at", *patch.ScheduledAt)
	}
	if patch.ClearScheduledAt {
		set = append(set, "scheduled_at = NULL")
	}
	// Publishing without an explicit date keeps the published-implies-
	// publishedDate invariant.
	if patch.Status != nil && *patch.Status == models.PostStatusPublished && patch.PublishedAt == nil {
		set = append(set, "published_at = COALESCE(published_at, NOW())")
	}
	set = append(set, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d RETURNING `+postColumns,
		strings.Join(set, ", "), len(args))

	row := s.db.QueryRow(query, args...)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	if isUniqueViolation(err) {
		return nil, &InvalidArgumentError{Field: "slug", Reason: "already in use"}
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// DeletePost removes a post, returning the deleted record. Comments go with
// it through the ON DELETE CASCADE on comments.post_id.
func (s *PostgresStore) DeletePost(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`DELETE FROM posts WHERE id = $1 RETURNING `+postColumns, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return p, nil
}

// SearchPosts matches the query against title, content and tags of
// published posts, case-insensitively.
func (s *PostgresStore) SearchPosts(query string) ([]models.Post, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	return s.queryPosts(`
		SELECT `+postColumns+` FROM posts
		WHERE status = 'published' AND (
			title ILIKE $1 ESCAPE '\'
			OR content ILIKE $1 ESCAPE '\'
			OR EXISTS (
				SELECT 1 FROM jsonb_array_elements_text(tags) AS tag
				WHERE tag ILIKE $1 ESCAPE '\'
			)
		)
		ORDER BY published_at DESC NULLS LAST, created_at DESC, id`, pattern)
}

// escapeLike escapes the LIKE metacharacters in a user-supplied query so it
// is matched literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
