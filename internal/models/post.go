// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog post. JSON field names follow the wire format used by the
// frontend and by the snapshot file of the memory backend; date fields
// serialize as RFC 3339 text.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Excerpt      string     `json:"excerpt"`
	Content      string     `json:"content"`
	Author       string     `json:"author"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	Image        string     `json:"image"`
	PublishedAt  *time.Time `json:"publishedDate,omitempty"`
	ScheduledAt  *time.Time `json:"scheduledPublishDate,omitempty"`
	ReadTime     string     `json:"readTime"`
	Featured     bool       `json:"featured"`
	Status       PostStatus `json:"status"`
	CommentCount int        `json:"commentCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsScheduled returns true if the post is a draft carrying a publish
// timestamp, i.e. eligible for promotion by the publish scheduler.
func (p *Post) IsScheduled() bool {
	return !p.IsPublished() && p.ScheduledAt != nil && !p.ScheduledAt.IsZero()
}

// DueAt returns true if the post is scheduled and its publish time has
// passed at the given instant.
func (p *Post) DueAt(now time.Time) bool {
	return p.IsScheduled() && !p.ScheduledAt.After(now)
}

// Clone returns a deep copy of the post. The tags slice is copied so that
// callers cannot mutate stored state through the returned value.
func (p *Post) Clone() *Post {
	c := *p
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		c.PublishedAt = &t
	}
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		c.ScheduledAt = &t
	}
	return &c
}
