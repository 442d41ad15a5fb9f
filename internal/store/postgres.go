// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// PostgresStore maps the storage contract onto normalized tables. Single-
// statement operations rely on the engine's atomicity; the multi-row
// category operations and comment-count maintenance run in transactions.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres opens a connection pool, verifies it with a ping, applies
// pending migrations and seeds sample rows if the posts table is empty.
// Connection failures surface as an UnavailableError so the caller can
// fail fast at startup.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, &UnavailableError{Backend: "postgres", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &UnavailableError{Backend: "postgres", Err: err}
	}
	slog.Info("database connected")

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &PostgresStore{db: db}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate runs all pending goose migrations from the embedded SQL files.
// Migrations are embedded at compile time so no external files are needed
// at runtime. Running them again is a no-op, which is what makes schema
// setup idempotent.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// seedIfEmpty inserts the sample fixture when no posts exist yet. The
// posts table is the sentinel: a deployment that deleted every post but
// kept users should not be re-seeded with content either way, so only a
// truly empty table triggers seeding.
func (s *PostgresStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	seed := seedData(nowUTC())

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range seed.Posts {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("seed marshal tags: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO posts (id, title, slug, excerpt, content, author, category,
			                   tags, image, published_at, scheduled_at, read_time,
			                   featured, status, comment_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`, p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Author, p.Category,
			tags, p.Image, p.PublishedAt, p.ScheduledAt, p.ReadTime,
			p.Featured, p.Status, p.CommentCount, p.CreatedAt, p.UpdatedAt); err != nil {
			return fmt.Errorf("seed insert post: %w", err)
		}
	}
	for _, c := range seed.Comments {
		if _, err := tx.Exec(`
			INSERT INTO comments (id, post_id, author_name, author_email, content, approved, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, c.ID, c.PostID, c.AuthorName, c.AuthorEmail, c.Content, c.Approved, c.CreatedAt); err != nil {
			return fmt.Errorf("seed insert comment: %w", err)
		}
	}
	for _, name := range seed.Categories {
		if _, err := tx.Exec(`
			INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("seed insert category: %w", err)
		}
	}
	for k, v := range seed.Settings {
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
		`, k, v); err != nil {
			return fmt.Errorf("seed insert setting: %w", err)
		}
	}
	for _, u := range seed.Users {
		if _, err := tx.Exec(`
			INSERT INTO users (id, email, password_hash, display_name, role, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO NOTHING
		`, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Role, u.CreatedAt); err != nil {
			return fmt.Errorf("seed insert user: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	slog.Info("database seeded with sample content",
		"posts", len(seed.Posts),
		"categories", len(seed.Categories),
	)
	return nil
}

// isUniqueViolation reports a PostgreSQL unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports a PostgreSQL foreign-key-constraint error.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
