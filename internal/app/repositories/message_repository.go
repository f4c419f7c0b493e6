package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

// MessageRepository handles database operations for the local message log.
// The log is append-only: rows are never updated after creation except for
// the recipient's read state.
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends a message record to the log
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (
			sender_id, recipient_id, content, message_type, room_id, external_id, file_url, file_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.SenderID,
		message.RecipientID,
		message.Content,
		message.MessageType,
		message.RoomID,
		message.ExternalID,
		message.FileURL,
		message.FileName,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	return nil
}

// GetByID retrieves a message by its ID
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, content, message_type, room_id,
		       external_id, file_url, file_name, is_read, read_at, created_at
		FROM messages
		WHERE id = $1
	`

	var message models.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&message.ID,
		&message.SenderID,
		&message.RecipientID,
		&message.Content,
		&message.MessageType,
		&message.RoomID,
		&message.ExternalID,
		&message.FileURL,
		&message.FileName,
		&message.IsRead,
		&message.ReadAt,
		&message.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrMessageNotFound
		}
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}

	return &message, nil
}

// GetCounterpartyIDs returns the distinct ids of everyone the user has a
// logged exchange with, as sender or recipient.
func (r *MessageRepository) GetCounterpartyIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning counterparty id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetConversation retrieves the logged exchange between two users, newest
// first, bounded by limit and an optional before cursor.
func (r *MessageRepository) GetConversation(ctx context.Context, userA, userB int64, before *time.Time, limit int) ([]*models.Message, error) {
	queryBuilder := squirrel.Select(
		"id", "sender_id", "recipient_id", "content", "message_type", "room_id",
		"external_id", "file_url", "file_name", "is_read", "read_at", "created_at",
	).
		From("messages").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if before != nil {
		queryBuilder = queryBuilder.Where("created_at < ?", before)
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.SenderID,
			&message.RecipientID,
			&message.Content,
			&message.MessageType,
			&message.RoomID,
			&message.ExternalID,
			&message.FileURL,
			&message.FileName,
			&message.IsRead,
			&message.ReadAt,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, rows.Err()
}

// MarkRead sets the read state of a message. Only the recipient may do
// this; the WHERE clause enforces it at the data layer too.
func (r *MessageRepository) MarkRead(ctx context.Context, messageID, recipientID int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE messages SET is_read = TRUE, read_at = $1 WHERE id = $2 AND recipient_id = $3 AND is_read = FALSE`,
		time.Now(), messageID, recipientID)
	if err != nil {
		return fmt.Errorf("error marking message read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}
