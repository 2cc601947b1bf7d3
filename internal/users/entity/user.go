package entity

import "time"

type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventUserCreated is the type of the event sent after a user is created.
const EventUserCreated = "user.created"

type UserCreatedEvent struct {
	Type       string `json:"type"`
	UserID     int64  `json:"user_id,string"`
	Email      string `json:"email"`
	OccurredAt int64  `json:"occurred_at"`
}
