package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

const defaultConversationLimit = 50

// MessageService serves read access to the local message log.
type MessageService interface {
	GetConversation(ctx context.Context, callerID, otherID int64, before *time.Time, limit int) ([]dto.MessageResponse, error)
	MarkRead(ctx context.Context, callerID, messageID int64) error
}

// messageReader is the log read/update surface the service needs
type messageReader interface {
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	GetConversation(ctx context.Context, userA, userB int64, before *time.Time, limit int) ([]*models.Message, error)
	MarkRead(ctx context.Context, messageID, recipientID int64) error
}

// messageServiceImpl implements MessageService
type messageServiceImpl struct {
	messages messageReader
	users    partnerDirectory
	logger   zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(messages messageReader, users partnerDirectory, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{
		messages: messages,
		users:    users,
		logger:   logger,
	}
}

// GetConversation returns the local log of the caller's conversation with
// another user, newest first.
func (s *messageServiceImpl) GetConversation(ctx context.Context, callerID, otherID int64, before *time.Time, limit int) ([]dto.MessageResponse, error) {
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}

	if limit <= 0 || limit > 100 {
		limit = defaultConversationLimit
	}

	messages, err := s.messages.GetConversation(ctx, callerID, otherID, before, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.ToMessageResponse(message))
	}
	return responses, nil
}

// MarkRead marks a message as read. Only the recipient may do it; anyone
// else gets a permission error rather than a silent no-op.
func (s *messageServiceImpl) MarkRead(ctx context.Context, callerID, messageID int64) error {
	message, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.RecipientID != callerID {
		return apperrors.NewForbiddenError("Only the recipient can mark a message as read")
	}

	return s.messages.MarkRead(ctx, messageID, callerID)
}
