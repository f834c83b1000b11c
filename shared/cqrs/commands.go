package cqrs

type RegisterAccountCommand struct {
	Username string `validate:"notblank"`
	Password string `validate:"min=4"`
}

type CreateMessageCommand struct {
	PostedBy int
	Text     string `validate:"notblank,max=254"`
	PostedAt int64
}

type UpdateMessageCommand struct {
	MessageID int
	Text      string `validate:"notblank,max=254"`
}

type DeleteMessageCommand struct {
	MessageID int
}
