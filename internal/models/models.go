package models

import "time"

// Task mirrors the task record returned by the remote API. The client never
// mutates a Task locally; every mutation is followed by a list re-fetch.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	OwnerID     int       `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}
