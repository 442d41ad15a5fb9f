// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

// MemoryStore holds all entities in process memory and snapshots the full
// state to a JSON file after every mutation. A single mutex serializes
// mutating calls, so the read-modify-write-snapshot sequence never
// interleaves. There is no cross-process safety: the file is last-writer-wins.
type MemoryStore struct {
	mu   sync.RWMutex
	path string

	posts      map[uuid.UUID]*models.Post
	comments   map[uuid.UUID]*models.Comment
	users      []models.User
	categories []string
	settings   models.Settings

	// now is swappable in tests.
	now func() time.Time
}

// NewMemory creates a memory store backed by the snapshot file at path.
// If the file exists it is loaded; if it is missing, seed content is written
// out; if it is unreadable or corrupt, seed content is used without
// persisting, so the damaged file is not overwritten.
func NewMemory(path string) (*MemoryStore, error) {
	s := &MemoryStore{
		path:     path,
		posts:    make(map[uuid.UUID]*models.Post),
		comments: make(map[uuid.UUID]*models.Comment),
		settings: models.Settings{},
		now:      time.Now,
	}
	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close is a no-op for the memory store; the snapshot file is already
// written after every mutation.
func (s *MemoryStore) Close() error { return nil }

// GetPosts returns published posts matching the filter, most recently
// published first.
func (s *MemoryStore) GetPosts(filter PostFilter) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Post{}
	for _, p := range s.posts {
		if !p.IsPublished() {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		out = append(out, *p.Clone())
	}
	sortByPublishedDesc(out)
	return out, nil
}

// GetAllPosts returns every post regardless of status, newest first.
func (s *MemoryStore) GetAllPosts() ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// GetScheduledPosts returns drafts carrying a scheduled publish date.
func (s *MemoryStore) GetScheduledPosts() ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Post{}
	for _, p := range s.posts {
		if p.IsScheduled() {
			out = append(out, *p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(*out[j].ScheduledAt)
	})
	return out, nil
}

func (s *MemoryStore) GetPostByID(id uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	return p.Clone(), nil
}

func (s *MemoryStore) GetPostBySlug(slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.Slug == slug {
			return p.Clone(), nil
		}
	}
	return nil, &NotFoundError{Resource: "post", Key: slug}
}

// CreatePost inserts a post after applying create-time defaults. The slug
// must be unique across all posts.
func (s *MemoryStore) CreatePost(p *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := p.Clone()
	preparePost(post, s.now())

	if err := s.checkSlugLocked(post.Slug, post.ID); err != nil {
		return nil, err
	}

	s.posts[post.ID] = post
	s.persistLocked()
	return post.Clone(), nil
}

// UpdatePost merges the patch over the stored post and refreshes updatedAt.
func (s *MemoryStore) UpdatePost(id uuid.UUID, patch PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}

	if patch.Slug != nil {
		if err := s.checkSlugLocked(*patch.Slug, id); err != nil {
			return nil, err
		}
	}

	updated := p.Clone()
	applyPatch(updated, patch, s.now())
	s.posts[id] = updated
	s.persistLocked()
	return updated.Clone(), nil
}

// DeletePost removes a post and its comments, returning the deleted record.
func (s *MemoryStore) DeletePost(id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	s.persistLocked()
	return p, nil
}

// GetCategories returns the union of registered categories and categories
// used by posts, always including the fallback, sorted alphabetically.
func (s *MemoryStore) GetCategories() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoriesLocked(), nil
}

func (s *MemoryStore) categoriesLocked() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	add(models.FallbackCategory)
	for _, name := range s.categories {
		add(name)
	}
	for _, p := range s.posts {
		add(p.Category)
	}
	sort.Strings(out)
	return out
}

// GetCategoryStats returns post counts per category, sorted by name.
func (s *MemoryStore) GetCategoryStats() ([]models.CategoryStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, p := range s.posts {
		counts[p.Category]++
	}

	stats := make([]models.CategoryStat, 0, len(counts))
	for _, name := range s.categoriesLocked() {
		stats = append(stats, models.CategoryStat{Name: name, Count: counts[name]})
	}
	return stats, nil
}

// AddCategory registers a category name. A name equal (ignoring case) to an
// existing category is a no-op.
func (s *MemoryStore) AddCategory(name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InvalidArgumentError{Field: "category", Reason: "name must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categoriesLocked() {
		if strings.EqualFold(existing, name) {
			return s.categoriesLocked(), nil
		}
	}

	s.categories = append(s.categories, name)
	s.persistLocked()
	return s.categoriesLocked(), nil
}

// RenameCategory renames a registered category and rewrites every post that
// referenced it. The mutex makes the rewrite atomic with respect to readers.
func (s *MemoryStore) RenameCategory(oldName, newName string) ([]string, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return nil, &InvalidArgumentError{Field: "category", Reason: "names must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if oldName == newName {
		return s.categoriesLocked(), nil
	}

	for i, name := range s.categories {
		if name == oldName {
			s.categories[i] = newName
		}
	}
	now := s.now()
	for _, p := range s.posts {
		if p.Category == oldName {
			p.Category = newName
			p.UpdatedAt = now
		}
	}
	s.persistLocked()
	return s.categoriesLocked(), nil
}

// DeleteCategory removes a category and reassigns its posts to reassignTo,
// defaulting to the fallback category.
func (s *MemoryStore) DeleteCategory(name, reassignTo string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InvalidArgumentError{Field: "category", Reason: "name must not be empty"}
	}
	if reassignTo = strings.TrimSpace(reassignTo); reassignTo == "" {
		reassignTo = models.FallbackCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.categories[:0]
	for _, existing := range s.categories {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	s.categories = kept

	now := s.now()
	for _, p := range s.posts {
		if p.Category == name {
			p.Category = reassignTo
			p.UpdatedAt = now
		}
	}
	s.persistLocked()
	return s.categoriesLocked(), nil
}

// SearchPosts returns published posts whose title, content or any tag
// contains the query, case-insensitively.
func (s *MemoryStore) SearchPosts(query string) ([]models.Post, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Post{}
	for _, p := range s.posts {
		if p.IsPublished() && postMatches(p, q) {
			out = append(out, *p.Clone())
		}
	}
	sortByPublishedDesc(out)
	return out, nil
}

func postMatches(p *models.Post, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// GetPostComments returns the approved comments for a post, oldest first.
func (s *MemoryStore) GetPostComments(postID uuid.UUID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Comment{}
	for _, c := range s.comments {
		if c.PostID == postID && c.Approved {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// AddComment creates an unapproved comment and increments the post's
// comment count. The memory store does not require the post to exist; the
// count simply stays untouched when it doesn't.
func (s *MemoryStore) AddComment(postID uuid.UUID, c *models.Comment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment := *c
	comment.ID = uuid.New()
	comment.PostID = postID
	comment.Approved = false
	comment.CreatedAt = s.now()

	s.comments[comment.ID] = &comment
	if p, ok := s.posts[postID]; ok {
		p.CommentCount++
	}
	s.persistLocked()

	result := comment
	return &result, nil
}

// ApproveComment marks a comment approved.
func (s *MemoryStore) ApproveComment(id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, &NotFoundError{Resource: "comment", Key: id.String()}
	}
	c.Approved = true
	s.persistLocked()

	result := *c
	return &result, nil
}

// DeleteComment removes a comment and decrements the post's comment count,
// floored at zero.
func (s *MemoryStore) DeleteComment(id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, &NotFoundError{Resource: "comment", Key: id.String()}
	}
	delete(s.comments, id)
	if p, ok := s.posts[c.PostID]; ok && p.CommentCount > 0 {
		p.CommentCount--
	}
	s.persistLocked()
	return c, nil
}

// GetSettings returns a copy of all site settings.
func (s *MemoryStore) GetSettings() (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone(), nil
}

// UpdateSettings upserts the given keys and returns the merged settings.
func (s *MemoryStore) UpdateSettings(partial map[string]string) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range partial {
		s.settings[k] = v
	}
	s.persistLocked()
	return s.settings.Clone(), nil
}

// checkSlugLocked rejects a slug already used by a different post.
func (s *MemoryStore) checkSlugLocked(slug string, self uuid.UUID) error {
	for _, p := range s.posts {
		if p.Slug == slug && p.ID != self {
			return &InvalidArgumentError{Field: "slug", Reason: "already in use"}
		}
	}
	return nil
}

// persistLocked writes the snapshot file. State in memory stays the source
// of truth: a failed write is logged, not propagated, so a full disk does
// not take the blog down.
func (s *MemoryStore) persistLocked() {
	if err := s.saveSnapshotLocked(); err != nil {
		slog.Error("snapshot write failed", "path", s.path, "error", err)
	}
}

// sortByPublishedDesc orders posts most recently published first, with a
// stable tiebreak on creation date and id.
func sortByPublishedDesc(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		pi, pj := posts[i].PublishedAt, posts[j].PublishedAt
		switch {
		case pi == nil && pj == nil:
			// fall through to tiebreak
		case pi == nil:
			return false
		case pj == nil:
			return true
		case !pi.Equal(*pj):
			return pi.After(*pj)
		}
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.String() < posts[j].ID.String()
	})
}
