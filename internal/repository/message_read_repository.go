package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/socialmedia/api/shared/models"
	sharedredis "github.com/socialmedia/api/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

const messageViewKeyPrefix = "message:view:"

// MessageReadRepository serves message reads. Single messages come from the
// Redis view cache when present and fall back to PostgreSQL. Only writes fill
// the cache; cold reads leave it untouched. Lists always come from PostgreSQL.
type MessageReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.Message]
}

// NewMessageReadRepository accepts a nil redisClient, in which case every
// read goes to PostgreSQL.
func NewMessageReadRepository(db *sql.DB, redisClient *goredis.Client, ttl time.Duration) *MessageReadRepository {
	return &MessageReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.Message](redisClient, messageViewKeyPrefix, ttl),
	}
}

func (r *MessageReadRepository) GetByID(ctx context.Context, id int) (*models.Message, error) {
	if m, ok := r.cache.Get(ctx, strconv.Itoa(id)); ok {
		return m, nil
	}

	query := `SELECT ` + messageColumns + ` FROM message WHERE message_id = $1`
	return scanMessage(r.db.QueryRowContext(ctx, query, id))
}

func (r *MessageReadRepository) List(ctx context.Context) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM message ORDER BY message_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return scanMessages(rows)
}

func (r *MessageReadRepository) ListByAccount(ctx context.Context, accountID int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM message WHERE posted_by = $1 ORDER BY message_id`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for account %d: %w", accountID, err)
	}
	return scanMessages(rows)
}

// CacheMessage stores the read model entry for a newly created message.
func (r *MessageReadRepository) CacheMessage(ctx context.Context, m *models.Message) {
	r.cache.Set(ctx, strconv.Itoa(m.MessageID), m)
}

// InvalidateMessage drops the read model entry after an update or delete.
func (r *MessageReadRepository) InvalidateMessage(ctx context.Context, id int) {
	r.cache.Delete(ctx, strconv.Itoa(id))
}
