package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

func seedMessage(t *testing.T, log *fakeMessageLog, senderID, recipientID int64, content string, at time.Time) *models.Message {
	t.Helper()
	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		MessageType: models.MessageTypeText,
		CreatedAt:   at,
	}
	if err := log.Create(context.Background(), message); err != nil {
		t.Fatalf("seeding message: %v", err)
	}
	return message
}

func TestGetConversationReturnsBothDirectionsNewestFirst(t *testing.T) {
	users := newFakeUsers(
		testUser(1, "Casey", "Student", models.RoleStudent),
		testUser(2, "Riley", "Student", models.RoleStudent),
		testUser(3, "Ana", "Student", models.RoleStudent),
	)
	log := &fakeMessageLog{}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, log, 1, 2, "hi", base)
	seedMessage(t, log, 2, 1, "hello", base.Add(time.Minute))
	seedMessage(t, log, 1, 3, "other thread", base.Add(2*time.Minute))

	svc := NewMessageService(log, users, zerolog.Nop())

	messages, err := svc.GetConversation(context.Background(), 1, 2, nil, 0)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(messages), messages)
	}
	if messages[0].Content != "hello" || messages[1].Content != "hi" {
		t.Errorf("expected newest first, got %q then %q", messages[0].Content, messages[1].Content)
	}
}

func TestGetConversationBeforeCursor(t *testing.T) {
	users := newFakeUsers(
		testUser(1, "Casey", "Student", models.RoleStudent),
		testUser(2, "Riley", "Student", models.RoleStudent),
	)
	log := &fakeMessageLog{}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedMessage(t, log, 1, 2, "old", base)
	seedMessage(t, log, 2, 1, "new", base.Add(time.Hour))

	svc := NewMessageService(log, users, zerolog.Nop())

	cursor := base.Add(time.Minute)
	messages, err := svc.GetConversation(context.Background(), 1, 2, &cursor, 0)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}

	if len(messages) != 1 || messages[0].Content != "old" {
		t.Errorf("expected only the message before the cursor, got %+v", messages)
	}
}

func TestGetConversationUnknownUser(t *testing.T) {
	users := newFakeUsers(testUser(1, "Casey", "Student", models.RoleStudent))
	svc := NewMessageService(&fakeMessageLog{}, users, zerolog.Nop())

	_, err := svc.GetConversation(context.Background(), 1, 99, nil, 0)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestMarkReadOnlyByRecipient(t *testing.T) {
	users := newFakeUsers(
		testUser(1, "Casey", "Student", models.RoleStudent),
		testUser(2, "Riley", "Student", models.RoleStudent),
	)
	log := &fakeMessageLog{}
	message := seedMessage(t, log, 1, 2, "hi", time.Now())

	svc := NewMessageService(log, users, zerolog.Nop())

	if err := svc.MarkRead(context.Background(), 1, message.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("sender must not mark the message read, got %v", err)
	}
	if message.IsRead {
		t.Error("message must stay unread after a rejected attempt")
	}

	if err := svc.MarkRead(context.Background(), 2, message.ID); err != nil {
		t.Fatalf("MarkRead by recipient: %v", err)
	}
	if !message.IsRead || message.ReadAt == nil {
		t.Errorf("expected read state set, got %+v", message)
	}
}

func TestMarkReadUnknownMessage(t *testing.T) {
	users := newFakeUsers(testUser(1, "Casey", "Student", models.RoleStudent))
	svc := NewMessageService(&fakeMessageLog{}, users, zerolog.Nop())

	if err := svc.MarkRead(context.Background(), 1, 42); !errors.Is(err, apperrors.ErrMessageNotFound) {
		t.Errorf("expected message-not-found, got %v", err)
	}
}
