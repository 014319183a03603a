package models

import "time"

// UserRow represents a user record in the database. The password hash lives
// only here; outward representations use User, which has no hash field.
type UserRow struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// User is the outward-facing user representation.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser converts a database row to its outward representation.
func PublicUser(row *UserRow) *User {
	if row == nil {
		return nil
	}
	return &User{
		ID:        row.ID,
		Username:  row.Username,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// AuthorRef is the compact author attachment used on answers: id and username
// only, no email.
func AuthorRef(row *UserRow) *User {
	if row == nil {
		return nil
	}
	return &User{
		ID:        row.ID,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
