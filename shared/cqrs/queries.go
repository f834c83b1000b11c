package cqrs

// ---------- Account queries ----------

// LoginQuery matches an account by exact username and password.
type LoginQuery struct {
	Username string
	Password string
}

// ---------- Message queries ----------

// GetMessageQuery fetches a single message by ID.
type GetMessageQuery struct {
	MessageID int
}

// ListMessagesQuery fetches every message.
type ListMessagesQuery struct{}

// ListAccountMessagesQuery fetches all messages posted by an account.
type ListAccountMessagesQuery struct {
	AccountID int
}
