// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// postgres_test.go holds the integration tests for the relational backend.
// Tests are skipped when PostgreSQL is not reachable.
package store

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"blogpress/internal/models"
)

// pgTestDSN returns the connection string for the test database, built
// from environment variables with defaults matching docker-compose.yml.
func pgTestDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testPostgres opens the relational backend against the test database,
// skipping the test when the database is unavailable. Migration and
// seeding run inside OpenPostgres. A cleanup closes the pool.
func testPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	s, err := OpenPostgres(pgTestDSN())
	if err != nil {
		if IsUnavailable(err) {
			t.Skipf("skipping integration test: DB not reachable: %v", err)
		}
		t.Fatalf("OpenPostgres: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { s.Close() })
	return s
}

// cleanPosts removes test posts by slug. Call in t.Cleanup().
func cleanPosts(t *testing.T, s *PostgresStore, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		s.db.Exec("DELETE FROM posts WHERE slug = $1", slug)
	}
}

// cleanCategories removes test categories by name. Call in t.Cleanup().
func cleanCategories(t *testing.T, s *PostgresStore, names ...string) {
	t.Helper()
	for _, name := range names {
		s.db.Exec("DELETE FROM categories WHERE name = $1", name)
	}
}

func TestPostgresPostCRUD(t *testing.T) {
	s := testPostgres(t)
	t.Cleanup(func() { cleanPosts(t, s, "pg-test-filmronde", "pg-test-filmronde-2") })

	created, err := s.CreatePost(&models.Post{
		Title: "Filmronde voor gevorderden",
		Slug:  "pg-test-filmronde",
		Tags:  []string{"film", "quiz"},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if created.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if created.Category != models.FallbackCategory {
		t.Errorf("category = %q, want fallback", created.Category)
	}

	got, err := s.GetPostByID(created.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if got.Title != created.Title || len(got.Tags) != 2 {
		t.Errorf("read back %+v", got)
	}

	bySlug, err := s.GetPostBySlug("pg-test-filmronde")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Errorf("slug lookup returned %v", bySlug.ID)
	}

	newSlug := "pg-test-filmronde-2"
	updated, err := s.UpdatePost(created.ID, PostPatch{Slug: &newSlug})
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if updated.Slug != newSlug {
		t.Errorf("slug = %q after update", updated.Slug)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updatedAt not refreshed")
	}

	if _, err := s.DeletePost(created.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := s.GetPostByID(created.ID); !IsNotFound(err) {
		t.Fatalf("deleted post still readable: %v", err)
	}
}

func TestPostgresSlugConflict(t *testing.T) {
	s := testPostgres(t)
	t.Cleanup(func() { cleanPosts(t, s, "pg-test-uniek") })

	if _, err := s.CreatePost(&models.Post{Title: "Uniek", Slug: "pg-test-uniek"}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	_, err := s.CreatePost(&models.Post{Title: "Uniek twee", Slug: "pg-test-uniek"})
	if !IsInvalidArgument(err) {
		t.Fatalf("expected invalid-argument on duplicate slug, got %v", err)
	}
}

func TestPostgresPublishKeepsOriginalDate(t *testing.T) {
	s := testPostgres(t)
	t.Cleanup(func() { cleanPosts(t, s, "pg-test-herpubliceren") })

	status := models.PostStatusPublished
	created, err := s.CreatePost(&models.Post{
		Title:  "Herpubliceren",
		Slug:   "pg-test-herpubliceren",
		Status: status,
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	// Read back so the date carries the database's timestamp precision.
	stored, err := s.GetPostByID(created.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	firstDate := stored.PublishedAt
	if firstDate == nil {
		t.Fatal("publish did not set a date")
	}

	draft := models.PostStatusDraft
	if _, err := s.UpdatePost(created.ID, PostPatch{Status: &draft}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	republished, err := s.UpdatePost(created.ID, PostPatch{Status: &status})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if republished.PublishedAt == nil || !republished.PublishedAt.Equal(*firstDate) {
		t.Errorf("publishedAt = %v, want original %v", republished.PublishedAt, firstDate)
	}
}

func TestPostgresSearch(t *testing.T) {
	s := testPostgres(t)
	t.Cleanup(func() { cleanPosts(t, s, "pg-test-zoeken") })

	published := models.PostStatusPublished
	if _, err := s.CreatePost(&models.Post{
		Title:  "Zeldzaamwoord in de titel",
		Slug:   "pg-test-zoeken",
		Status: published,
		Tags:   []string{"zeldzaamtag"},
	}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	byTitle, err := s.SearchPosts("zeldzaamwoord")
	if err != nil {
		t.Fatalf("SearchPosts: %v", err)
	}
	if len(byTitle) != 1 {
		t.Fatalf("title search returned %d posts", len(byTitle))
	}

	byTag, err := s.SearchPosts("zeldzaamtag")
	if err != nil {
		t.Fatalf("SearchPosts by tag: %v", err)
	}
	if len(byTag) != 1 {
		t.Fatalf("tag search returned %d posts", len(byTag))
	}

	// LIKE metacharacters must not act as wildcards.
	none, err := s.SearchPosts("%zz_nothing%")
	if err != nil {
		t.Fatalf("SearchPosts with metacharacters: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("metacharacter search matched %d posts", len(none))
	}
	if none == nil {
		t.Fatal("empty search result is nil instead of an empty slice")
	}
}

func TestPostgresCategoryRenameMovesPosts(t *testing.T) {
	s := testPostgres(t)
	t.Cleanup(func() {
		cleanPosts(t, s, "pg-test-verhuizen")
		cleanCategories(t, s, "PGTestOud", "PGTestNieuw")
	})

	if _, err := s.AddCategory("PGTestOud"); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	created, err := s.CreatePost(&models.Post{
		Title:    "Verhuizen",
		Slug:     "pg-test-verhuizen",
		Category: "PGTestOud",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	categories, err := s.RenameCategory("PGTestOud", "PGTestNieuw")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	for _, c := range categories {
		if c == "PGTestOud" {
			t.Errorf("old name still listed: %v", categories)
		}
	}
	moved, err := s.GetPostByID(created.ID)
	if err != nil {
		t.Fatalf("GetPostByID: %v", err)
	}
	if moved.Category != "PGTestNieuw" {
		t.Errorf("post category = %q after rename", moved.Category)
	}
}

func TestPostgresCommentCount(t *testing.T) {
	s := testPostgres(t)
	t.Cleanup(func() { cleanPosts(t, s, "pg-test-reacties") })

	created, err := s.CreatePost(&models.Post{Title: "Reacties", Slug: "pg-test-reacties"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	comment, err := s.AddComment(created.ID, &models.Comment{
		AuthorName: "Test",
		Content:    "integratiereactie",
	})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if comment.Approved {
		t.Error("new comment must start unapproved")
	}

	p, _ := s.GetPostByID(created.ID)
	if p.CommentCount != 1 {
		t.Errorf("commentCount = %d, want 1", p.CommentCount)
	}

	if _, err := s.ApproveComment(comment.ID); err != nil {
		t.Fatalf("ApproveComment: %v", err)
	}
	visible, err := s.GetPostComments(created.ID)
	if err != nil {
		t.Fatalf("GetPostComments: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 approved comment, got %d", len(visible))
	}

	if _, err := s.DeleteComment(comment.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	p, _ = s.GetPostByID(created.ID)
	if p.CommentCount != 0 {
		t.Errorf("commentCount = %d after delete, want 0", p.CommentCount)
	}
}

func TestPostgresCommentOnUnknownPost(t *testing.T) {
	s := testPostgres(t)

	_, err := s.AddComment(uuid.New(), &models.Comment{AuthorName: "X", Content: "y"})
	if !IsNotFound(err) {
		t.Fatalf("expected not-found for unknown post, got %v", err)
	}
}

func TestPostgresSettingsUpsert(t *testing.T) {
	s := testPostgres(t)
	t.Cleanup(func() { s.db.Exec("DELETE FROM settings WHERE key = $1", "pgTestKey") })

	merged, err := s.UpdateSettings(map[string]string{"pgTestKey": "een"})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if merged["pgTestKey"] != "een" {
		t.Errorf("settings = %v", merged)
	}

	merged, err = s.UpdateSettings(map[string]string{"pgTestKey": "twee"})
	if err != nil {
		t.Fatalf("UpdateSettings upsert: %v", err)
	}
	if merged["pgTestKey"] != "twee" {
		t.Errorf("settings = %v after upsert", merged)
	}
}
