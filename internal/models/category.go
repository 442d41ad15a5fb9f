// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// FallbackCategory is the always-present catch-all category. Posts whose
// category is deleted without an explicit reassignment target end up here,
// and category listings always include it.
const FallbackCategory = "Algemeen"

// CategoryStat is the per-category post count returned by the stats endpoint.
type CategoryStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
