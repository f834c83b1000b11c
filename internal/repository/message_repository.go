package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/socialmedia/api/shared/models"
)

const messageColumns = `message_id, posted_by, message_text, time_posted_epoch`

// MessageWriteRepository handles all state-mutating operations for messages.
// It always talks to PostgreSQL directly.
type MessageWriteRepository struct {
	db *sql.DB
}

func NewMessageWriteRepository(db *sql.DB) *MessageWriteRepository {
	return &MessageWriteRepository{db: db}
}

// Create inserts the message and fills in its generated ID.
func (r *MessageWriteRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO message (posted_by, message_text, time_posted_epoch)
		VALUES ($1, $2, $3)
		RETURNING message_id
	`
	err := r.db.QueryRowContext(ctx, query,
		message.PostedBy, message.MessageText, message.TimePostedEpoch,
	).Scan(&message.MessageID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.ErrUnknownAccount
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID reads the row from PostgreSQL, bypassing any cache.
func (r *MessageWriteRepository) GetByID(ctx context.Context, id int) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM message WHERE message_id = $1`
	return scanMessage(r.db.QueryRowContext(ctx, query, id))
}

func (r *MessageWriteRepository) UpdateText(ctx context.Context, id int, text string) error {
	query := `UPDATE message SET message_text = $2 WHERE message_id = $1`
	result, err := r.db.ExecContext(ctx, query, id, text)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrMessageNotFound
	}
	return nil
}

// Delete removes the row and returns its contents as they were.
func (r *MessageWriteRepository) Delete(ctx context.Context, id int) (*models.Message, error) {
	query := `DELETE FROM message WHERE message_id = $1 RETURNING ` + messageColumns
	return scanMessage(r.db.QueryRowContext(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.MessageID, &m.PostedBy, &m.MessageText, &m.TimePostedEpoch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return &m, nil
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
