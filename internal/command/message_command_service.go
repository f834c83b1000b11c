package command

import (
	"context"
	"log/slog"

	"github.com/socialmedia/api/shared/cqrs"
	"github.com/socialmedia/api/shared/events"
	"github.com/socialmedia/api/shared/models"
	"github.com/socialmedia/api/shared/validation"
)

type MessageWriter interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int) (*models.Message, error)
	UpdateText(ctx context.Context, id int, text string) error
	Delete(ctx context.Context, id int) (*models.Message, error)
}

// MessageCache keeps the message read model in step with writes.
type MessageCache interface {
	CacheMessage(ctx context.Context, m *models.Message)
	InvalidateMessage(ctx context.Context, id int)
}

// MessageCommandService writes messages to PostgreSQL and keeps the Redis
// read model from serving stale rows: creates fill it, updates and deletes
// clear it.
type MessageCommandService struct {
	writeRepo MessageWriter
	cache     MessageCache
	publisher EventPublisher
}

func NewMessageCommandService(writeRepo MessageWriter, cache MessageCache, publisher EventPublisher) *MessageCommandService {
	return &MessageCommandService{
		writeRepo: writeRepo,
		cache:     cache,
		publisher: publisher,
	}
}

// CreateMessage does not check that PostedBy exists; the foreign key does.
func (s *MessageCommandService) CreateMessage(ctx context.Context, cmd cqrs.CreateMessageCommand) (*models.Message, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	message := &models.Message{
		PostedBy:        cmd.PostedBy,
		MessageText:     cmd.Text,
		TimePostedEpoch: cmd.PostedAt,
	}
	if err := s.writeRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	s.cache.CacheMessage(ctx, message)
	s.publish(ctx, events.MessageCreated, events.MessageCreatedEvent{
		MessageID:       message.MessageID,
		PostedBy:        message.PostedBy,
		TimePostedEpoch: message.TimePostedEpoch,
	})
	return message, nil
}

// UpdateMessage replaces the text and returns the row as re-read after the
// write. The two statements are not atomic.
func (s *MessageCommandService) UpdateMessage(ctx context.Context, cmd cqrs.UpdateMessageCommand) (*models.Message, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	if err := s.writeRepo.UpdateText(ctx, cmd.MessageID, cmd.Text); err != nil {
		return nil, err
	}
	// Dropped, not overwritten: overlapping updates can re-read out of order.
	s.cache.InvalidateMessage(ctx, cmd.MessageID)
	updated, err := s.writeRepo.GetByID(ctx, cmd.MessageID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.MessageUpdated, events.MessageUpdatedEvent{
		MessageID: updated.MessageID,
		PostedBy:  updated.PostedBy,
	})
	return updated, nil
}

// DeleteMessage removes the row and returns what it contained.
func (s *MessageCommandService) DeleteMessage(ctx context.Context, cmd cqrs.DeleteMessageCommand) (*models.Message, error) {
	deleted, err := s.writeRepo.Delete(ctx, cmd.MessageID)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateMessage(ctx, cmd.MessageID)
	s.publish(ctx, events.MessageDeleted, events.MessageDeletedEvent{
		MessageID: deleted.MessageID,
		PostedBy:  deleted.PostedBy,
	})
	return deleted, nil
}

func (s *MessageCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.MessageEventsStream, eventType, data); err != nil {
		slog.WarnContext(ctx, "failed to publish message event", "type", eventType, "error", err)
	}
}
