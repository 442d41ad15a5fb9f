// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains. Routes
// split into a public group the frontend consumes and an admin group
// behind bearer-token auth.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogpress/internal/handlers"
	"blogpress/internal/middleware"
)

// New creates the configured chi router with all middleware and route
// groups wired up. adminToken guards the /api/admin group; when it is
// empty the admin API answers 503.
func New(public *handlers.Public, admin *handlers.Admin, adminToken string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Public routes — published content only.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", public.ListPosts)
			r.Get("/search", public.Search)
			r.Get("/{id}", public.GetPost)
			r.Get("/{id}/comments", public.ListComments)
			r.Post("/{id}/comments", public.CreateComment)
		})
		r.Get("/categories", public.ListCategories)
		r.Get("/categories/stats", public.CategoryStats)
		r.Get("/settings", public.GetSettings)

		// Admin routes — full content management.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireToken(adminToken))

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.ListPosts)
				r.Post("/", admin.CreatePost)
				r.Put("/{id}", admin.UpdatePost)
				r.Delete("/{id}", admin.DeletePost)
				r.Post("/{id}/publish", admin.PublishPost)
				r.Post("/{id}/unpublish", admin.UnpublishPost)
				r.Post("/{id}/schedule", admin.SchedulePost)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", admin.CreateCategory)
				r.Put("/{name}", admin.RenameCategory)
				r.Delete("/{name}", admin.DeleteCategory)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Post("/{id}/approve", admin.ApproveComment)
				r.Delete("/{id}", admin.DeleteComment)
			})

			r.Put("/settings", admin.UpdateSettings)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
