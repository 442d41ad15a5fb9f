// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SettingPublishAnnouncement is the key for the free-form announcement text
// shown with newly published posts.
const SettingPublishAnnouncement = "publishAnnouncement"

// Settings is the flat key-value site configuration. Values are free-form
// strings; no schema is enforced beyond that.
type Settings map[string]string

// Get returns the value for a key, or the fallback if the key is absent or empty.
func (s Settings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Clone returns a copy of the settings map.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
