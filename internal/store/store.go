// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store defines the storage contract for the blog backend and
// provides its two implementations: an in-memory store that snapshots to a
// JSON file, and a PostgreSQL store. Both satisfy the same Store interface
// with identical semantics, so the API layer never knows which one it holds.
package store

import (
	"time"

	"github.com/google/uuid"

	"blogpress/internal/models"
	"blogpress/internal/slug"
)

// PostFilter narrows GetPosts results. Zero values mean "no filter":
// an empty Category matches every category, a nil Featured matches both
// featured and non-featured posts.
type PostFilter struct {
	Category string
	Featured *bool
}

// PostPatch is a partial update for a post. Nil fields are left unchanged.
// The field set doubles as the update allow-list: anything not representable
// here cannot be changed through UpdatePost.
type PostPatch struct {
	Title       *string            `json:"title"`
	Slug        *string            `json:"slug"`
	Excerpt     *string            `json:"excerpt"`
	Content     *string            `json:"content"`
	Author      *string            `json:"author"`
	Category    *string            `json:"category"`
	Tags        *[]string          `json:"tags"`
	Image       *string            `json:"image"`
	ReadTime    *string            `json:"readTime"`
	Featured    *bool              `json:"featured"`
	Status      *models.PostStatus `json:"status"`
	PublishedAt *time.Time         `json:"publishedDate"`
	ScheduledAt *time.Time         `json:"scheduledPublishDate"`

	// ClearScheduledAt removes the scheduled publish date. Set by the
	// scheduler when it promotes a post; not settable over the wire.
	ClearScheduledAt bool `json:"-"`
}

// Store is the storage contract shared by all backends. Read operations on
// posts are public-facing and return published posts only, except where
// noted. Mutations return the resulting record so callers never need a
// follow-up read.
type Store interface {
	// GetPosts returns published posts matching the filter, ordered by
	// published date descending.
	GetPosts(filter PostFilter) ([]models.Post, error)
	// GetAllPosts returns every post regardless of status, ordered by
	// creation date descending. Admin listing only.
	GetAllPosts() ([]models.Post, error)
	// GetScheduledPosts returns non-published posts that carry a scheduled
	// publish date. Consumed by the publish scheduler.
	GetScheduledPosts() ([]models.Post, error)
	// GetPostByID returns a post by id, or a NotFoundError.
	GetPostByID(id uuid.UUID) (*models.Post, error)
	// GetPostBySlug returns a post by slug, or a NotFoundError.
	GetPostBySlug(slug string) (*models.Post, error)
	// CreatePost inserts a post, assigning id, slug, timestamps and
	// normalized status as needed, and returns the stored record.
	CreatePost(p *models.Post) (*models.Post, error)
	// UpdatePost merges the patch over the existing post and refreshes
	// updatedAt. Returns a NotFoundError for an unknown id.
	UpdatePost(id uuid.UUID, patch PostPatch) (*models.Post, error)
	// DeletePost removes a post and its comments, returning the deleted record.
	DeletePost(id uuid.UUID) (*models.Post, error)

	// GetCategories returns the union of registered categories and
	// categories used by posts, always including the fallback category.
	GetCategories() ([]string, error)
	// GetCategoryStats returns the post count per category name.
	GetCategoryStats() ([]models.CategoryStat, error)
	// AddCategory registers a category. Adding a name that already exists
	// (compared case-insensitively) is a no-op.
	AddCategory(name string) ([]string, error)
	// RenameCategory renames a category and rewrites every post referencing
	// it, atomically.
	RenameCategory(oldName, newName string) ([]string, error)
	// DeleteCategory removes a category and reassigns its posts to
	// reassignTo (the fallback category when empty), atomically.
	DeleteCategory(name, reassignTo string) ([]string, error)

	// SearchPosts returns published posts whose title, content or any tag
	// contains the query, case-insensitively.
	SearchPosts(query string) ([]models.Post, error)

	// GetPostComments returns the approved comments for a post.
	GetPostComments(postID uuid.UUID) ([]models.Comment, error)
	// AddComment creates an unapproved comment and increments the post's
	// comment count.
	AddComment(postID uuid.UUID, c *models.Comment) (*models.Comment, error)
	// ApproveComment marks a comment approved.
	ApproveComment(id uuid.UUID) (*models.Comment, error)
	// DeleteComment removes a comment, decrementing the post's comment
	// count (floored at zero), and returns the deleted record.
	DeleteComment(id uuid.UUID) (*models.Comment, error)

	// GetSettings returns all site settings.
	GetSettings() (models.Settings, error)
	// UpdateSettings upserts the given keys and returns the merged settings.
	UpdateSettings(partial map[string]string) (models.Settings, error)

	// Close releases backend resources.
	Close() error
}

// nowUTC is the clock used by the postgres backend; timestamps are stored
// in UTC and come back location-normalized from the driver.
func nowUTC() time.Time { return time.Now().UTC() }

// preparePost applies the create-time defaults shared by both backends:
// id and slug assignment, status normalization, the published-implies-
// publishedDate invariant, and server-managed timestamps.
func preparePost(p *models.Post, now time.Time) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if p.Status != models.PostStatusPublished {
		p.Status = models.PostStatusDraft
	}
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
	if p.Category == "" {
		p.Category = models.FallbackCategory
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.CommentCount = 0
	p.CreatedAt = now
	p.UpdatedAt = now
}

// applyPatch merges a patch into a post and refreshes updatedAt. When the
// patch publishes a post that has no published date yet, the date defaults
// to now so the published-implies-publishedDate invariant holds.
func applyPatch(p *models.Post, patch PostPatch, now time.Time) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Tags != nil {
		p.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.ReadTime != nil {
		p.ReadTime = *patch.ReadTime
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.PublishedAt != nil {
		t := *patch.PublishedAt
		p.PublishedAt = &t
	}
	if patch.ScheduledAt != nil {
		t := *patch.ScheduledAt
		p.ScheduledAt = &t
	}
	if patch.ClearScheduledAt {
		p.ScheduledAt = nil
	}
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
	p.UpdatedAt = now
}
