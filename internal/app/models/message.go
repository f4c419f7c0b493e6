package models

import "time"

// MessageType represents the type of a logged message
type MessageType string

const (
	MessageTypeText   MessageType = "TEXT"
	MessageTypeImage  MessageType = "IMAGE"
	MessageTypeFile   MessageType = "FILE"
	MessageTypeSystem MessageType = "SYSTEM"
)

// Message is the locally owned durable record of a single-recipient send.
// Group sends are modeled as N individual records. Rows are immutable once
// created except for the read state, which only the recipient may change.
// ExternalID is set only when the external provider accepted the send.
type Message struct {
	ID          int64       `json:"id" db:"id"`
	SenderID    int64       `json:"senderId" db:"sender_id"`
	RecipientID int64       `json:"recipientId" db:"recipient_id"`
	Content     string      `json:"content" db:"content"`
	MessageType MessageType `json:"messageType" db:"message_type"`
	RoomID      *int64      `json:"roomId,omitempty" db:"room_id"`
	ExternalID  *string     `json:"externalId,omitempty" db:"external_id"`
	FileURL     *string     `json:"fileUrl,omitempty" db:"file_url"`
	FileName    *string     `json:"fileName,omitempty" db:"file_name"`
	IsRead      bool        `json:"isRead" db:"is_read"`
	ReadAt      *time.Time  `json:"readAt,omitempty" db:"read_at"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`

	// Related entities
	Sender    *User `json:"sender,omitempty"`
	Recipient *User `json:"recipient,omitempty"`
}
