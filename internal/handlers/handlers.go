// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers translates HTTP requests into storage-contract calls.
// Handlers stay thin: decode, validate, call the store, encode. All policy
// lives in the store implementations.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"blogpress/internal/store"
)

// maxBodyBytes caps request bodies; post content fits comfortably.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeStoreError maps the storage error kinds onto HTTP statuses.
// Anything outside the typed set is a 500 with a generic body; the
// details go to the log, not to the client.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case store.IsInvalidArgument(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case store.IsUnavailable(err):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		slog.Error("storage call failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeBadRequest reports a validation failure produced by this layer.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// decodeJSON decodes a size-limited JSON request body, rejecting unknown
// fields so typos in admin payloads fail loudly instead of silently.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
