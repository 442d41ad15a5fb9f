// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogpress/internal/models"
	"blogpress/internal/store"
)

// Admin serves the authoring endpoints. The router mounts these behind
// token auth; the handlers themselves assume the caller is trusted.
type Admin struct {
	store store.Store
}

func NewAdmin(st store.Store) *Admin {
	return &Admin{store: st}
}

// ListPosts returns every post regardless of status, drafts included.
func (h *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.GetAllPosts()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreatePost stores a new post. Missing id and slug are filled in by the
// store; the status defaults to draft unless published is submitted.
func (h *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := decodeJSON(w, r, &post); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if msg := validatePost(post.Title, post.Excerpt, post.Content); msg != "" {
		writeBadRequest(w, msg)
		return
	}
	created, err := h.store.CreatePost(&post)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePost applies a partial update. Only fields present in the body
// change; everything else keeps its stored value.
func (h *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid post id")
		return
	}

	var patch store.PostPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if msg := validatePatch(patch); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	updated, err := h.store.UpdatePost(id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid post id")
		return
	}
	if _, err := h.store.DeletePost(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishPost makes a post live immediately and clears any pending
// schedule. An already published post keeps its original publish date.
func (h *Admin) PublishPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid post id")
		return
	}
	status := models.PostStatusPublished
	updated, err := h.store.UpdatePost(id, store.PostPatch{
		Status:           &status,
		ClearScheduledAt: true,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UnpublishPost pulls a post back to draft. The publish date is kept so
// republishing restores the original ordering.
func (h *Admin) UnpublishPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid post id")
		return
	}
	status := models.PostStatusDraft
	updated, err := h.store.UpdatePost(id, store.PostPatch{Status: &status})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type schedulePostRequest struct {
	ScheduledAt *time.Time `json:"scheduledPublishDate"`
}

// SchedulePost marks a draft for automatic publication at the given time.
// The scheduler picks it up once the time has passed.
func (h *Admin) SchedulePost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid post id")
		return
	}

	var req schedulePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ScheduledAt == nil || req.ScheduledAt.IsZero() {
		writeBadRequest(w, "scheduledPublishDate is required")
		return
	}

	status := models.PostStatusDraft
	updated, err := h.store.UpdatePost(id, store.PostPatch{
		Status:      &status,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	categories, err := h.store.AddCategory(req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, categories)
}

type renameCategoryRequest struct {
	NewName string `json:"newName"`
}

// RenameCategory renames a category and moves its posts along with it.
func (h *Admin) RenameCategory(w http.ResponseWriter, r *http.Request) {
	oldName := chi.URLParam(r, "name")

	var req renameCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	categories, err := h.store.RenameCategory(oldName, req.NewName)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// DeleteCategory removes a category and reassigns its posts. The target
// comes from the reassignTo query parameter, defaulting to the fallback
// category.
func (h *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	reassignTo := strings.TrimSpace(r.URL.Query().Get("reassignTo"))
	categories, err := h.store.DeleteCategory(name, reassignTo)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Admin) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid comment id")
		return
	}
	comment, err := h.store.ApproveComment(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid comment id")
		return
	}
	if _, err := h.store.DeleteComment(id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSettings merges the submitted keys into the stored settings and
// returns the full resulting map.
func (h *Admin) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := decodeJSON(w, r, &values); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(values) == 0 {
		writeBadRequest(w, "no settings provided")
		return
	}
	settings, err := h.store.UpdateSettings(values)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
