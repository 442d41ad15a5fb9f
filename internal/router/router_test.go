// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// router_test.go exercises the API end to end against the memory backend:
// real router, real middleware, real store, no network.
package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"blogpress/internal/handlers"
	"blogpress/internal/models"
	"blogpress/internal/store"
)

const testToken = "test-admin-token"

// newTestServer wires the production route table over a freshly seeded
// memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.NewMemory(filepath.Join(t.TempDir(), "blog.json"))
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	r := New(handlers.NewPublic(st), handlers.NewAdmin(st), testToken)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON performs a request and decodes the JSON response body into out
// when out is non-nil.
func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestPublicListPosts(t *testing.T) {
	srv := newTestServer(t)

	var posts []models.Post
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/posts", "", nil, &posts)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(posts))
	}

	var featured []models.Post
	doJSON(t, http.MethodGet, srv.URL+"/api/posts?featured=true", "", nil, &featured)
	if len(featured) != 1 || !featured[0].Featured {
		t.Errorf("featured filter returned %v", featured)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/posts?featured=maybe", "", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad featured value: status = %d", resp.StatusCode)
	}
}

func TestPublicGetPostBySlugRendersHTML(t *testing.T) {
	srv := newTestServer(t)

	var detail struct {
		models.Post
		ContentHTML string `json:"contentHtml"`
	}
	resp := doJSON(t, http.MethodGet,
		srv.URL+"/api/posts/de-perfecte-pubquiz-samenstellen", "", nil, &detail)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if detail.Slug != "de-perfecte-pubquiz-samenstellen" {
		t.Errorf("slug = %q", detail.Slug)
	}
	if detail.ContentHTML == "" {
		t.Error("contentHtml missing from detail response")
	}

	// Same post by id.
	var byID struct {
		models.Post
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/posts/"+detail.ID.String(), "", nil, &byID)
	if resp.StatusCode != http.StatusOK || byID.ID != detail.ID {
		t.Errorf("lookup by id: status %d, id %v", resp.StatusCode, byID.ID)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/posts/bestaat-niet", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown slug: status = %d", resp.StatusCode)
	}
}

func TestPublicSearch(t *testing.T) {
	srv := newTestServer(t)

	var posts []models.Post
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/posts/search?q=pubquiz", "", nil, &posts)
	if resp.StatusCode != http.StatusOK || len(posts) != 1 {
		t.Fatalf("search: status %d, %d posts", resp.StatusCode, len(posts))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/posts/search?q=a", "", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("short query: status = %d", resp.StatusCode)
	}
}

func TestPublicCategories(t *testing.T) {
	srv := newTestServer(t)

	var categories []string
	doJSON(t, http.MethodGet, srv.URL+"/api/categories", "", nil, &categories)
	if len(categories) != 3 {
		t.Fatalf("categories = %v", categories)
	}

	var stats []models.CategoryStat
	doJSON(t, http.MethodGet, srv.URL+"/api/categories/stats", "", nil, &stats)
	if len(stats) != 3 {
		t.Fatalf("stats = %v", stats)
	}
}

func TestCommentSubmission(t *testing.T) {
	srv := newTestServer(t)

	var posts []models.Post
	doJSON(t, http.MethodGet, srv.URL+"/api/posts?featured=true", "", nil, &posts)
	postURL := srv.URL + "/api/posts/" + posts[0].ID.String() + "/comments"

	var created models.Comment
	resp := doJSON(t, http.MethodPost, postURL, "", map[string]string{
		"authorName": "Pim",
		"content":    "Leuke quiz!",
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if created.Approved {
		t.Error("comment must start unapproved")
	}

	// Unapproved comments stay invisible on the public listing.
	var visible []models.Comment
	doJSON(t, http.MethodGet, postURL, "", nil, &visible)
	for _, c := range visible {
		if c.ID == created.ID {
			t.Error("unapproved comment listed publicly")
		}
	}

	// Approve through the admin API and it appears.
	resp = doJSON(t, http.MethodPost,
		srv.URL+"/api/admin/comments/"+created.ID.String()+"/approve", testToken, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status = %d", resp.StatusCode)
	}
	visible = nil
	doJSON(t, http.MethodGet, postURL, "", nil, &visible)
	found := false
	for _, c := range visible {
		if c.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("approved comment not listed")
	}

	resp = doJSON(t, http.MethodPost, postURL, "", map[string]string{"content": "anoniem"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing author: status = %d", resp.StatusCode)
	}
}

func TestAdminRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/admin/posts", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/admin/posts", "wrong-token", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d", resp.StatusCode)
	}

	var posts []models.Post
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/admin/posts", testToken, nil, &posts)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid token: status = %d", resp.StatusCode)
	}
	if len(posts) != 3 {
		t.Errorf("admin listing returned %d posts, want drafts included", len(posts))
	}
}

func TestAdminPostLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var created models.Post
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/admin/posts", testToken, map[string]any{
		"title":   "Nieuwe ronde: aardrijkskunde",
		"content": "Tien vragen over hoofdsteden.",
		"tags":    []string{"quiz", "aardrijkskunde"},
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.StatusCode)
	}
	if created.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}

	base := srv.URL + "/api/admin/posts/" + created.ID.String()

	// Drafts are invisible publicly.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/posts/"+created.Slug, "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		// Draft detail is still reachable by slug; only listings hide it.
		t.Fatalf("draft detail: status = %d", resp.StatusCode)
	}

	// Partial updates enforce the same field limits as creation.
	resp = doJSON(t, http.MethodPut, base, testToken, map[string]any{
		"excerpt": strings.Repeat("a", 1001),
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversized excerpt: status = %d", resp.StatusCode)
	}

	var updated models.Post
	resp = doJSON(t, http.MethodPut, base, testToken, map[string]any{
		"excerpt": "Van Amsterdam tot Wellington.",
	}, &updated)
	if resp.StatusCode != http.StatusOK || updated.Excerpt != "Van Amsterdam tot Wellington." {
		t.Fatalf("update: status %d, excerpt %q", resp.StatusCode, updated.Excerpt)
	}

	var published models.Post
	resp = doJSON(t, http.MethodPost, base+"/publish", testToken, nil, &published)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish: status = %d", resp.StatusCode)
	}
	if published.Status != models.PostStatusPublished || published.PublishedAt == nil {
		t.Errorf("publish left status %q, publishedAt %v", published.Status, published.PublishedAt)
	}

	var unpublished models.Post
	resp = doJSON(t, http.MethodPost, base+"/unpublish", testToken, nil, &unpublished)
	if resp.StatusCode != http.StatusOK || unpublished.Status != models.PostStatusDraft {
		t.Fatalf("unpublish: status %d, post status %q", resp.StatusCode, unpublished.Status)
	}

	resp = doJSON(t, http.MethodDelete, base, testToken, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, base, testToken, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("double delete: status = %d", resp.StatusCode)
	}
}

func TestAdminSchedulePost(t *testing.T) {
	srv := newTestServer(t)

	var created models.Post
	doJSON(t, http.MethodPost, srv.URL+"/api/admin/posts", testToken, map[string]any{
		"title": "Gepland stuk",
	}, &created)

	base := srv.URL + "/api/admin/posts/" + created.ID.String()

	resp := doJSON(t, http.MethodPost, base+"/schedule", testToken, map[string]any{}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("schedule without date: status = %d", resp.StatusCode)
	}

	var scheduled models.Post
	resp = doJSON(t, http.MethodPost, base+"/schedule", testToken, map[string]any{
		"scheduledPublishDate": "2026-12-01T09:00:00Z",
	}, &scheduled)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("schedule: status = %d", resp.StatusCode)
	}
	if scheduled.ScheduledAt == nil || scheduled.Status != models.PostStatusDraft {
		t.Errorf("schedule left status %q, scheduledAt %v", scheduled.Status, scheduled.ScheduledAt)
	}
}

func TestAdminCategoryManagement(t *testing.T) {
	srv := newTestServer(t)

	var categories []string
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/admin/categories", testToken,
		map[string]string{"name": "Sport"}, &categories)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add: status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/admin/categories/Sport", testToken,
		map[string]string{"newName": "Sport & Spel"}, &categories)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rename: status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete,
		srv.URL+"/api/admin/categories/Horeca?reassignTo=Quizvragen", testToken, nil, &categories)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status = %d", resp.StatusCode)
	}
	for _, c := range categories {
		if c == "Horeca" {
			t.Errorf("deleted category still listed: %v", categories)
		}
	}

	// The Horeca post moved to Quizvragen.
	var posts []models.Post
	doJSON(t, http.MethodGet, srv.URL+"/api/posts?category=Quizvragen", "", nil, &posts)
	if len(posts) != 2 {
		t.Errorf("expected 2 posts in Quizvragen after reassignment, got %d", len(posts))
	}
}

func TestAdminSettings(t *testing.T) {
	srv := newTestServer(t)

	var settings models.Settings
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/admin/settings", testToken,
		map[string]string{"siteTitle": "Quizblog"}, &settings)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update settings: status = %d", resp.StatusCode)
	}
	if settings["siteTitle"] != "Quizblog" {
		t.Errorf("settings = %v", settings)
	}
	if settings[models.SettingPublishAnnouncement] == "" {
		t.Error("existing setting dropped by merge")
	}

	// Public read sees the merged result.
	var public models.Settings
	doJSON(t, http.MethodGet, srv.URL+"/api/settings", "", nil, &public)
	if public["siteTitle"] != "Quizblog" {
		t.Errorf("public settings = %v", public)
	}
}

func TestEmptyListingsEncodeAsArrays(t *testing.T) {
	srv := newTestServer(t)

	var posts []models.Post
	doJSON(t, http.MethodGet, srv.URL+"/api/admin/posts", testToken, nil, &posts)
	for _, p := range posts {
		resp := doJSON(t, http.MethodDelete,
			srv.URL+"/api/admin/posts/"+p.ID.String(), testToken, nil, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete %q: status %d", p.Slug, resp.StatusCode)
		}
	}

	for _, url := range []string{
		srv.URL + "/api/posts",
		srv.URL + "/api/posts/search?q=pubquiz",
	} {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("GET %s: %v", url, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("read %s: %v", url, err)
		}
		if got := strings.TrimSpace(string(body)); got != "[]" {
			t.Errorf("GET %s: body %q, want []", url, got)
		}
	}
}
