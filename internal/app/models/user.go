package models

import (
	"time"
)

// User is an account row of the users worksheet; the email is the key
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Comment is attached to a material or a profile through ReferenceID
type Comment struct {
	ID          string      `json:"id"`
	Type        CommentType `json:"type"`
	ReferenceID string      `json:"referenceId"`
	AuthorEmail string      `json:"authorEmail"`
	AuthorName  string      `json:"authorName"`
	Text        string      `json:"text"`
	CreatedAt   time.Time   `json:"createdAt"`
}
