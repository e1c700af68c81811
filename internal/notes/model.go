package notes

import "time"

// Note is a free-form piece of information extracted from a document. Notes are immutable.
type Note struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewNote is a classified note waiting to be stored.
type NewNote struct {
	Title   string
	Content string
}
