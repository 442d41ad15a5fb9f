// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reader comment on a post. Comments are created unapproved
// and only become publicly visible once an admin approves them.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"postId"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	Content     string    `json:"content"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
}
