package models

import "time"

// AnswerRow represents an answer record in the database. Both references are
// required: an answer always belongs to a post and an author.
type AnswerRow struct {
	ID        int64     `db:"id"`
	Content   string    `db:"content"`
	PostID    int64     `db:"post_id"`
	AuthorID  int64     `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Answer is the outward-facing answer representation.
type Answer struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	PostID    int64     `json:"post_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    *User     `json:"author,omitempty"`
}

// PublicAnswer converts a database row to its outward representation.
func PublicAnswer(row *AnswerRow) *Answer {
	if row == nil {
		return nil
	}
	return &Answer{
		ID:        row.ID,
		Content:   row.Content,
		PostID:    row.PostID,
		AuthorID:  row.AuthorID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
