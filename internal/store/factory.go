// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"
	"strings"

	"blogpress/internal/config"
)

// BackendKind identifies a storage backend implementation. The kind is
// resolved once at startup; there is no runtime backend switching.
type BackendKind int

const (
	BackendMemory BackendKind = iota
	BackendPostgres
)

// String returns the configuration name of the backend kind.
func (k BackendKind) String() string {
	switch k {
	case BackendMemory:
		return "memory"
	case BackendPostgres:
		return "postgres"
	default:
		return "unknown"
	}
}

// ParseBackendKind maps a configuration value to a BackendKind.
func ParseBackendKind(s string) (BackendKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "memory":
		return BackendMemory, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	default:
		return 0, &InvalidArgumentError{Field: "backend", Reason: fmt.Sprintf("unknown backend %q", s)}
	}
}

// New selects and initializes the configured backend. It returns a ready,
// seeded store or fails fast: a postgres backend without a usable connection
// string, or one that cannot be reached, yields an UnavailableError.
func New(cfg *config.Config) (Store, error) {
	kind, err := ParseBackendKind(cfg.Backend)
	if err != nil {
		return nil, err
	}

	switch kind {
	case BackendPostgres:
		// A postgres backend with no connection configuration at all is a
		// deployment error, not something to retry against.
		if cfg.DatabaseURL == "" && cfg.DBHost == "" {
			return nil, &UnavailableError{Backend: "postgres"}
		}
		return OpenPostgres(cfg.DSN())
	default:
		return NewMemory(cfg.DataFile)
	}
}
