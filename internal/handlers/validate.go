// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"

	"blogpress/internal/store"
)

const (
	minSearchLength = 2

	maxTitleLength   = 300
	maxExcerptLength = 1000
	maxContentLength = 1 << 19

	maxCommentAuthorLength  = 120
	maxCommentContentLength = 5000
)

// validatePost checks the fields an admin submits when creating a post.
// Returns an empty string when the post is acceptable.
func validatePost(title, excerpt, content string) string {
	switch {
	case strings.TrimSpace(title) == "":
		return "title is required"
	case len(title) > maxTitleLength:
		return "title too long"
	case len(excerpt) > maxExcerptLength:
		return "excerpt too long"
	case len(content) > maxContentLength:
		return "content too long"
	}
	return ""
}

// validatePatch applies the same limits to the fields present in a
// partial update. Absent fields pass.
func validatePatch(patch store.PostPatch) string {
	switch {
	case patch.Title != nil && strings.TrimSpace(*patch.Title) == "":
		return "title is required"
	case patch.Title != nil && len(*patch.Title) > maxTitleLength:
		return "title too long"
	case patch.Excerpt != nil && len(*patch.Excerpt) > maxExcerptLength:
		return "excerpt too long"
	case patch.Content != nil && len(*patch.Content) > maxContentLength:
		return "content too long"
	}
	return ""
}

func validateComment(authorName, authorEmail, content string) string {
	switch {
	case strings.TrimSpace(authorName) == "":
		return "authorName is required"
	case len(authorName) > maxCommentAuthorLength:
		return "authorName too long"
	case authorEmail != "" && !strings.Contains(authorEmail, "@"):
		return "authorEmail is not a valid address"
	case strings.TrimSpace(content) == "":
		return "content is required"
	case len(content) > maxCommentContentLength:
		return "content too long"
	}
	return ""
}
