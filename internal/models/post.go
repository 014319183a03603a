package models

import "time"

// Post column defaults. A fresh post starts with 99 views and a comment count
// of 1; every created answer bumps the count by one.
const (
	DefaultViewCount    = 99
	DefaultCommentCount = 1
)

// PostRow represents a post record in the database. The author reference is
// nullable so a post can outlive its author.
type PostRow struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title"`
	Content      string    `db:"content"`
	ViewCount    int       `db:"view_count"`
	CommentCount int       `db:"comment_count"`
	AuthorID     *int64    `db:"author_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Post is the outward-facing post representation, with the author eagerly
// attached where the query joined it and answers attached on detail reads.
type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ViewCount    int       `json:"view_count"`
	CommentCount int       `json:"comment_count"`
	AuthorID     *int64    `json:"author_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Author       *User     `json:"author,omitempty"`
	Answers      []Answer  `json:"answers,omitempty"`
}

// PublicPost converts a database row to its outward representation.
func PublicPost(row *PostRow) *Post {
	if row == nil {
		return nil
	}
	return &Post{
		ID:           row.ID,
		Title:        row.Title,
		Content:      row.Content,
		ViewCount:    row.ViewCount,
		CommentCount: row.CommentCount,
		AuthorID:     row.AuthorID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
