// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"
	"sort"
	"strings"

	"blogpress/internal/models"
)

// GetCategories returns the union of registered categories and categories
// actually used by posts, always including the fallback category.
func (s *PostgresStore) GetCategories() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT name FROM categories
		UNION
		SELECT category FROM posts WHERE category <> ''
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	hasFallback := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if name == models.FallbackCategory {
			hasFallback = true
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !hasFallback {
		out = append(out, models.FallbackCategory)
		sort.Strings(out)
	}
	return out, nil
}

// GetCategoryStats returns post counts per category, including zero counts
// for registered-but-unused categories.
func (s *PostgresStore) GetCategoryStats() ([]models.CategoryStat, error) {
	names, err := s.GetCategories()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT category, COUNT(*) FROM posts GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count posts per category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]models.CategoryStat, 0, len(names))
	for _, name := range names {
		stats = append(stats, models.CategoryStat{Name: name, Count: counts[name]})
	}
	return stats, nil
}

// AddCategory registers a category name. Names equal ignoring case to an
// existing category (registered or in use by a post) are a no-op.
func (s *PostgresStore) AddCategory(name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InvalidArgumentError{Field: "category", Reason: "name must not be empty"}
	}

	existing, err := s.GetCategories()
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if strings.EqualFold(e, name) {
			return existing, nil
		}
	}

	if _, err := s.db.Exec(`
		INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING
	`, name); err != nil {
		return nil, fmt.Errorf("add category: %w", err)
	}
	return s.GetCategories()
}

// RenameCategory renames the category row and rewrites every post that
// referenced it, in one transaction. A mid-operation failure rolls back
// both the category table and the posts.
func (s *PostgresStore) RenameCategory(oldName, newName string) ([]string, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return nil, &InvalidArgumentError{Field: "category", Reason: "names must not be empty"}
	}
	if oldName == newName {
		return s.GetCategories()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("rename category begin tx: %w", err)
	}
	defer tx.Rollback()

	// The new name may already exist as its own category; in that case the
	// rename is a merge, so the old row goes away either way.
	if _, err := tx.Exec(`
		INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING
	`, newName); err != nil {
		return nil, fmt.Errorf("rename category insert: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM categories WHERE name = $1`, oldName); err != nil {
		return nil, fmt.Errorf("rename category delete old: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE posts SET category = $2, updated_at = NOW() WHERE category = $1
	`, oldName, newName); err != nil {
		return nil, fmt.Errorf("rename category update posts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("rename category commit: %w", err)
	}
	return s.GetCategories()
}

// DeleteCategory removes the category row and reassigns its posts to
// reassignTo (the fallback category when empty), in one transaction.
func (s *PostgresStore) DeleteCategory(name, reassignTo string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InvalidArgumentError{Field: "category", Reason: "name must not be empty"}
	}
	if reassignTo = strings.TrimSpace(reassignTo); reassignTo == "" {
		reassignTo = models.FallbackCategory
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("delete category begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM categories WHERE name = $1`, name); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE posts SET category = $2, updated_at = NOW() WHERE category = $1
	`, name, reassignTo); err != nil {
		return nil, fmt.Errorf("delete category reassign posts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete category commit: %w", err)
	}
	return s.GetCategories()
}
