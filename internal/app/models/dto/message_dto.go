package dto

import (
	"time"

	"github.com/thankiuday/dreamlink/internal/app/models"
)

// SendMessageRequest represents a room fan-out send request. TargetID,
// when set, narrows delivery to that single room member.
type SendMessageRequest struct {
	Content  string `json:"content" binding:"required" example:"Homework is due Friday"`
	TargetID *int64 `json:"targetId,omitempty" example:"12"`
}

// StartCallRequest represents a video-call notification request
type StartCallRequest struct {
	TargetID *int64 `json:"targetId,omitempty" example:"12"`
}

// RecipientStatus values used in delivery reports
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// Well-known failure reasons. Anything else is a provider error string.
const (
	DeliveryReasonTimeout     = "timeout"
	DeliveryReasonPersistence = "local persistence failed"
)

// RecipientReport is the per-recipient line of a delivery report
type RecipientReport struct {
	RecipientID int64  `json:"recipientId" example:"12"`
	Status      string `json:"status" example:"sent"`
	Reason      string `json:"reason,omitempty" example:"gateway returned status 503"`
	ExternalID  string `json:"externalId,omitempty" example:"ext_9f2c"`
}

// DeliveryReport summarizes a fan-out call. Partial failure is an
// expected outcome, reported here rather than raised as an error.
type DeliveryReport struct {
	RoomID         int64             `json:"roomId" example:"1"`
	TotalAttempted int               `json:"totalAttempted" example:"5"`
	TotalSent      int               `json:"totalSent" example:"4"`
	TotalFailed    int               `json:"totalFailed" example:"1"`
	Recipients     []RecipientReport `json:"recipients"`
	CallURL        string            `json:"callUrl,omitempty" example:"https://meet.dreamlink.app/room/1/b2f1..."`
	FileURL        string            `json:"fileUrl,omitempty"`
}

// MessageResponse is the public view of a logged message
type MessageResponse struct {
	ID          int64      `json:"id" example:"1"`
	SenderID    int64      `json:"senderId" example:"3"`
	RecipientID int64      `json:"recipientId" example:"12"`
	Content     string     `json:"content" example:"Homework is due Friday"`
	MessageType string     `json:"messageType" example:"TEXT"`
	RoomID      *int64     `json:"roomId,omitempty" example:"1"`
	ExternalID  *string    `json:"externalId,omitempty" example:"ext_9f2c"`
	FileURL     *string    `json:"fileUrl,omitempty"`
	FileName    *string    `json:"fileName,omitempty"`
	IsRead      bool       `json:"isRead" example:"false"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToMessageResponse converts a message model to its response view
func ToMessageResponse(message *models.Message) MessageResponse {
	return MessageResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Content:     message.Content,
		MessageType: string(message.MessageType),
		RoomID:      message.RoomID,
		ExternalID:  message.ExternalID,
		FileURL:     message.FileURL,
		FileName:    message.FileName,
		IsRead:      message.IsRead,
		ReadAt:      message.ReadAt,
		CreatedAt:   message.CreatedAt,
	}
}
