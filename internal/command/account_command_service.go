package command

import (
	"context"
	"log/slog"

	"github.com/socialmedia/api/shared/cqrs"
	"github.com/socialmedia/api/shared/events"
	"github.com/socialmedia/api/shared/models"
	"github.com/socialmedia/api/shared/validation"
)

type AccountWriter interface {
	Create(ctx context.Context, account *models.Account) error
}

// EventPublisher is satisfied by *events.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AccountCommandService registers accounts. Username uniqueness is left to
// the store.
type AccountCommandService struct {
	writeRepo AccountWriter
	publisher EventPublisher
}

func NewAccountCommandService(writeRepo AccountWriter, publisher EventPublisher) *AccountCommandService {
	return &AccountCommandService{writeRepo: writeRepo, publisher: publisher}
}

func (s *AccountCommandService) Register(ctx context.Context, cmd cqrs.RegisterAccountCommand) (*models.Account, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	account := &models.Account{
		Username: cmd.Username,
		Password: cmd.Password,
	}
	if err := s.writeRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountRegistered, events.AccountRegisteredEvent{
		AccountID: account.AccountID,
		Username:  account.Username,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish account.registered event", "account_id", account.AccountID, "error", err)
	}
	return account, nil
}
