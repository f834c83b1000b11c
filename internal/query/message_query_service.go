package query

import (
	"context"

	"github.com/socialmedia/api/shared/cqrs"
	"github.com/socialmedia/api/shared/models"
)

type MessageReader interface {
	GetByID(ctx context.Context, id int) (*models.Message, error)
	List(ctx context.Context) ([]models.Message, error)
	ListByAccount(ctx context.Context, accountID int) ([]models.Message, error)
}

// MessageQueryService reads messages from the read repository.
type MessageQueryService struct {
	readRepo MessageReader
}

func NewMessageQueryService(readRepo MessageReader) *MessageQueryService {
	return &MessageQueryService{readRepo: readRepo}
}

func (s *MessageQueryService) GetMessage(ctx context.Context, q cqrs.GetMessageQuery) (*models.Message, error) {
	return s.readRepo.GetByID(ctx, q.MessageID)
}

func (s *MessageQueryService) ListMessages(ctx context.Context, _ cqrs.ListMessagesQuery) ([]models.Message, error) {
	return s.readRepo.List(ctx)
}

func (s *MessageQueryService) ListAccountMessages(ctx context.Context, q cqrs.ListAccountMessagesQuery) ([]models.Message, error) {
	return s.readRepo.ListByAccount(ctx, q.AccountID)
}
