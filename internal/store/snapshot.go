// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"blogpress/internal/models"
)

// snapshotFile is the on-disk layout of the memory store. Date fields
// serialize as RFC 3339 text through encoding/json.
type snapshotFile struct {
	Posts      []models.Post    `json:"posts"`
	Comments   []models.Comment `json:"comments"`
	Users      []models.User    `json:"users"`
	Categories []string         `json:"categories"`
	Settings   models.Settings  `json:"settings"`
	LastSaved  time.Time        `json:"lastSaved"`
}

// restore initializes the store state from the snapshot file. A missing
// file seeds sample content and persists it; a read or parse error seeds
// the same content without persisting, so a corrupt file is left in place
// for inspection instead of being silently overwritten.
func (s *MemoryStore) restore() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.Info("snapshot file missing, seeding sample content", "path", s.path)
		s.applySeed(seedData(s.now()))
		if err := s.saveSnapshotLocked(); err != nil {
			return fmt.Errorf("write initial snapshot: %w", err)
		}
		return nil
	}
	if err != nil {
		slog.Error("snapshot read failed, using seed content without persisting",
			"path", s.path, "error", err)
		s.applySeed(seedData(s.now()))
		return nil
	}

	var snap snapshotFile
	if err := json.Unmarshal(raw, &snap); err != nil {
		slog.Error("snapshot parse failed, using seed content without persisting",
			"path", s.path, "error", err)
		s.applySeed(seedData(s.now()))
		return nil
	}

	for i := range snap.Posts {
		p := snap.Posts[i]
		s.posts[p.ID] = &p
	}
	for i := range snap.Comments {
		c := snap.Comments[i]
		s.comments[c.ID] = &c
	}
	s.users = snap.Users
	s.categories = snap.Categories
	if snap.Settings != nil {
		s.settings = snap.Settings
	}
	slog.Info("snapshot restored",
		"path", s.path,
		"posts", len(s.posts),
		"comments", len(s.comments),
		"lastSaved", snap.LastSaved,
	)
	return nil
}

// applySeed loads a seed fixture into the store maps.
func (s *MemoryStore) applySeed(seed seedFixture) {
	for i := range seed.Posts {
		p := seed.Posts[i]
		s.posts[p.ID] = &p
	}
	for i := range seed.Comments {
		c := seed.Comments[i]
		s.comments[c.ID] = &c
	}
	s.users = seed.Users
	s.categories = seed.Categories
	s.settings = seed.Settings.Clone()
}

// saveSnapshotLocked serializes the full state and overwrites the snapshot
// file. The caller must hold the mutex. The write is a plain overwrite:
// last-writer-wins at process level, per the single-writer deployment model.
func (s *MemoryStore) saveSnapshotLocked() error {
	snap := snapshotFile{
		Posts:      make([]models.Post, 0, len(s.posts)),
		Comments:   make([]models.Comment, 0, len(s.comments)),
		Users:      s.users,
		Categories: s.categories,
		Settings:   s.settings,
		LastSaved:  s.now(),
	}
	for _, p := range s.posts {
		snap.Posts = append(snap.Posts, *p)
	}
	for _, c := range s.comments {
		snap.Comments = append(snap.Comments, *c)
	}
	// Stable file content for a given state makes diffs and tests sane.
	sortSnapshot(&snap)

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func sortSnapshot(snap *snapshotFile) {
	sort.Slice(snap.Posts, func(i, j int) bool {
		return snap.Posts[i].ID.String() < snap.Posts[j].ID.String()
	})
	sort.Slice(snap.Comments, func(i, j int) bool {
		return snap.Comments[i].ID.String() < snap.Comments[j].ID.String()
	})
}
