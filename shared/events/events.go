package events

import "time"

// Event types
const (
	AccountRegistered = "account.registered"

	MessageCreated = "message.created"
	MessageUpdated = "message.updated"
	MessageDeleted = "message.deleted"
)

// Stream names
const (
	AccountEventsStream = "account.events"
	MessageEventsStream = "message.events"
)

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountRegisteredEvent struct {
	AccountID int    `json:"account_id"`
	Username  string `json:"username"`
}

type MessageCreatedEvent struct {
	MessageID       int   `json:"message_id"`
	PostedBy        int   `json:"posted_by"`
	TimePostedEpoch int64 `json:"time_posted_epoch"`
}

type MessageUpdatedEvent struct {
	MessageID int `json:"message_id"`
	PostedBy  int `json:"posted_by"`
}

type MessageDeletedEvent struct {
	MessageID int `json:"message_id"`
	PostedBy  int `json:"posted_by"`
}
