// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogpress/internal/models"
)

const commentColumns = `id, post_id, author_name, author_email, content, approved, created_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.AuthorName, &c.AuthorEmail,
		&c.Content, &c.Approved, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetPostComments returns the approved comments for a post, oldest first.
func (s *PostgresStore) GetPostComments(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1 AND approved
		ORDER BY created_at, id`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// AddComment creates an unapproved comment and increments the post's
// comment count in the same transaction. The foreign key on post_id
// enforces that the post exists.
func (s *PostgresStore) AddComment(postID uuid.UUID, c *models.Comment) (*models.Comment, error) {
	comment := *c
	comment.ID = uuid.New()
	comment.PostID = postID
	comment.Approved = false
	comment.CreatedAt = nowUTC()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("add comment begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO comments (id, post_id, author_name, author_email, content, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, comment.ID, comment.PostID, comment.AuthorName, comment.AuthorEmail,
		comment.Content, comment.Approved, comment.CreatedAt)
	if isForeignKeyViolation(err) {
		return nil, &NotFoundError{Resource: "post", Key: postID.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE posts SET comment_count = comment_count + 1 WHERE id = $1
	`, postID); err != nil {
		return nil, fmt.Errorf("add comment increment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add comment commit: %w", err)
	}
	return &comment, nil
}

// ApproveComment marks a comment approved.
func (s *PostgresStore) ApproveComment(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`
		UPDATE comments SET approved = TRUE WHERE id = $1
		RETURNING `+commentColumns, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "comment", Key: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("approve comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment and decrements the post's comment count,
// floored at zero, in one transaction.
func (s *PostgresStore) DeleteComment(id uuid.UUID) (*models.Comment, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("delete comment begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`DELETE FROM comments WHERE id = $1 RETURNING `+commentColumns, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "comment", Key: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE posts SET comment_count = GREATEST(comment_count - 1, 0) WHERE id = $1
	`, c.PostID); err != nil {
		return nil, fmt.Errorf("delete comment decrement count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("delete comment commit: %w", err)
	}
	return c, nil
}
