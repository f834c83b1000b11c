package query

import (
	"context"
	"errors"

	"github.com/socialmedia/api/shared/cqrs"
	"github.com/socialmedia/api/shared/models"
)

type AccountReader interface {
	GetByCredentials(ctx context.Context, username, password string) (*models.Account, error)
}

// AccountQueryService handles login. Credentials are compared as stored,
// without hashing.
type AccountQueryService struct {
	readRepo AccountReader
}

func NewAccountQueryService(readRepo AccountReader) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

func (s *AccountQueryService) Login(ctx context.Context, q cqrs.LoginQuery) (*models.Account, error) {
	account, err := s.readRepo.GetByCredentials(ctx, q.Username, q.Password)
	if errors.Is(err, models.ErrUnknownAccount) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
