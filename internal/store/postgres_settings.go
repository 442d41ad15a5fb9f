// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"

	"blogpress/internal/models"
)

// GetSettings returns every setting as a map.
func (s *PostgresStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(models.Settings)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// UpdateSettings upserts the given keys in a single transaction and
// returns the merged settings.
func (s *PostgresStore) UpdateSettings(partial map[string]string) (models.Settings, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update settings begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return nil, fmt.Errorf("update settings prepare: %w", err)
	}
	defer stmt.Close()

	for k, v := range partial {
		if _, err := stmt.Exec(k, v); err != nil {
			return nil, fmt.Errorf("update setting %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update settings commit: %w", err)
	}
	return s.GetSettings()
}
