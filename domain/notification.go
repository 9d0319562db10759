package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a memo queued for delivery the next time its recipient
// speaks. It is owned by the store until delivered.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Recipient Identity  `json:"recipient"`
	Via       string    `json:"via"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotification(recipient, via, body string) Notification {
	return Notification{
		ID:        uuid.New(),
		Recipient: NewIdentity(recipient),
		Via:       via,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
