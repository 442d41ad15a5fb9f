// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogpress/internal/markdown"
	"blogpress/internal/models"
	"blogpress/internal/store"
)

// Public serves the read-mostly endpoints the site frontend consumes.
// Everything here operates on published content only.
type Public struct {
	store store.Store
}

func NewPublic(st store.Store) *Public {
	return &Public{store: st}
}

// postDetail is a post plus its rendered body. List endpoints return the
// raw model; only the detail view pays for markdown rendering.
type postDetail struct {
	models.Post
	ContentHTML string `json:"contentHtml"`
}

// ListPosts returns published posts, optionally narrowed by the category
// and featured query parameters.
func (h *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter := store.PostFilter{Category: r.URL.Query().Get("category")}
	switch r.URL.Query().Get("featured") {
	case "":
	case "true":
		v := true
		filter.Featured = &v
	case "false":
		v := false
		filter.Featured = &v
	default:
		writeBadRequest(w, "featured must be true or false")
		return
	}

	posts, err := h.store.GetPosts(filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetPost looks a post up by UUID or, failing that, by slug, and returns
// it with the markdown body rendered to HTML.
func (h *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")

	var post *models.Post
	var err error
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		post, err = h.store.GetPostByID(id)
	} else {
		post, err = h.store.GetPostBySlug(key)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		// Serve the post anyway; the raw markdown is still in Content.
		slog.Warn("markdown render failed", "post", post.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, postDetail{Post: *post, ContentHTML: html})
}

func (h *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.GetCategories()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Public) CategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetCategoryStats()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Search matches published posts against the q parameter.
func (h *Public) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < minSearchLength {
		writeBadRequest(w, "search query too short")
		return
	}
	posts, err := h.store.SearchPosts(query)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// ListComments returns the approved comments for a post.
func (h *Public) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid post id")
		return
	}
	comments, err := h.store.GetPostComments(postID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

type createCommentRequest struct {
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	Content     string `json:"content"`
}

// CreateComment accepts a visitor comment. It lands unapproved and stays
// invisible until an admin approves it.
func (h *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid post id")
		return
	}

	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if msg := validateComment(req.AuthorName, req.AuthorEmail, req.Content); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	// Resolve the post up front so both backends answer 404 identically.
	if _, err := h.store.GetPostByID(postID); err != nil {
		writeStoreError(w, err)
		return
	}

	comment := &models.Comment{
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		Content:     strings.TrimSpace(req.Content),
	}
	created, err := h.store.AddComment(postID, comment)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetSettings exposes the site settings the frontend renders, such as the
// publish announcement banner.
func (h *Public) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
