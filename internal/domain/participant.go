package domain

import "time"

// Participant links a user to a pool. At most one exists per (user, pool).
type Participant struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PollID    string    `json:"pollId"`
	CreatedAt time.Time `json:"createdAt"`
}
