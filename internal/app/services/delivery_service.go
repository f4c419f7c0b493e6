package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
	"github.com/thankiuday/dreamlink/internal/pkg/chatgateway"
	"github.com/thankiuday/dreamlink/internal/pkg/filestorage"
)

// DeliveryService fans a message out from a room owner to room members,
// writing every attempt to the local message log and delivering through the
// external provider on a best-effort basis.
type DeliveryService interface {
	SendToRoom(ctx context.Context, authorID, roomID int64, req *dto.SendMessageRequest) (*dto.DeliveryReport, error)
	SendFileToRoom(ctx context.Context, authorID, roomID int64, targetID *int64, file io.Reader, filename, contentType string) (*dto.DeliveryReport, error)
	StartCall(ctx context.Context, authorID, roomID int64, req *dto.StartCallRequest) (*dto.DeliveryReport, error)
}

// roomStore is the room lookup surface the engine needs
type roomStore interface {
	GetByID(ctx context.Context, id int64) (*models.Room, error)
}

// memberStore enumerates a room's membership
type memberStore interface {
	GetMemberIDsByRoomID(ctx context.Context, roomID int64) ([]int64, error)
}

// messageWriter appends rows to the local message log
type messageWriter interface {
	Create(ctx context.Context, message *models.Message) error
}

// recipientDirectory resolves recipients to users
type recipientDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
}

// deliveryServiceImpl implements DeliveryService
type deliveryServiceImpl struct {
	rooms       roomStore
	members     memberStore
	messages    messageWriter
	users       recipientDirectory
	gateway     chatgateway.Gateway
	storage     filestorage.ObjectStorage
	callBaseURL string
	logger      zerolog.Logger
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	rooms roomStore,
	members memberStore,
	messages messageWriter,
	users recipientDirectory,
	gateway chatgateway.Gateway,
	storage filestorage.ObjectStorage,
	callBaseURL string,
	logger zerolog.Logger,
) DeliveryService {
	return &deliveryServiceImpl{
		rooms:       rooms,
		members:     members,
		messages:    messages,
		users:       users,
		gateway:     gateway,
		storage:     storage,
		callBaseURL: callBaseURL,
		logger:      logger,
	}
}

// SendToRoom fans a text message out to the room's members, or to one
// member when the request carries a target.
func (s *deliveryServiceImpl) SendToRoom(ctx context.Context, authorID, roomID int64, req *dto.SendMessageRequest) (*dto.DeliveryReport, error) {
	recipients, err := s.resolveRecipients(ctx, authorID, roomID, req.TargetID)
	if err != nil {
		return nil, err
	}
	return s.fanOut(ctx, authorID, roomID, recipients, fanOutPayload{
		content:     req.Content,
		messageType: models.MessageTypeText,
	}), nil
}

// SendFileToRoom uploads the file to durable storage once, then fans out a
// caption message carrying the file's URL. An upload failure aborts the
// whole call before any recipient is attempted.
func (s *deliveryServiceImpl) SendFileToRoom(ctx context.Context, authorID, roomID int64, targetID *int64, file io.Reader, filename, contentType string) (*dto.DeliveryReport, error) {
	recipients, err := s.resolveRecipients(ctx, authorID, roomID, targetID)
	if err != nil {
		return nil, err
	}

	fileURL, err := s.storage.Upload(ctx, file, filename, contentType)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("File upload failed")
		return nil, apperrors.NewBadRequestError("File upload failed")
	}

	messageType := models.MessageTypeFile
	if strings.HasPrefix(contentType, "image/") {
		messageType = models.MessageTypeImage
	}

	report := s.fanOut(ctx, authorID, roomID, recipients, fanOutPayload{
		content:     fmt.Sprintf("Shared a file: %s (%s)", filename, fileURL),
		messageType: messageType,
		fileURL:     &fileURL,
		fileName:    &filename,
	})
	report.FileURL = fileURL
	return report, nil
}

// StartCall mints a join URL for a room-scoped video call and fans the
// invitation out like any other message.
func (s *deliveryServiceImpl) StartCall(ctx context.Context, authorID, roomID int64, req *dto.StartCallRequest) (*dto.DeliveryReport, error) {
	recipients, err := s.resolveRecipients(ctx, authorID, roomID, req.TargetID)
	if err != nil {
		return nil, err
	}

	callURL := fmt.Sprintf("%s/call/%d/%s", strings.TrimRight(s.callBaseURL, "/"), roomID, uuid.New().String())

	report := s.fanOut(ctx, authorID, roomID, recipients, fanOutPayload{
		content:     fmt.Sprintf("Video call started. Join: %s", callURL),
		messageType: models.MessageTypeSystem,
	})
	report.CallURL = callURL
	return report, nil
}

// resolveRecipients checks the per-call preconditions exactly once and
// returns the recipient users: the room must exist, the author must own it,
// and a targeted recipient must exist.
func (s *deliveryServiceImpl) resolveRecipients(ctx context.Context, authorID, roomID int64, targetID *int64) ([]*models.User, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != authorID {
		return nil, apperrors.NewForbiddenError("Only the room owner can send messages to the room")
	}

	if targetID != nil {
		target, err := s.users.GetByID(ctx, *targetID)
		if err != nil {
			return nil, apperrors.NewResourceNotFoundError("Target user not found")
		}
		return []*models.User{target}, nil
	}

	memberIDs, err := s.members.GetMemberIDsByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != authorID {
			ids = append(ids, id)
		}
	}

	return s.users.GetByIDs(ctx, ids)
}

// fanOutPayload is the content shared by every recipient of one fan-out.
type fanOutPayload struct {
	content     string
	messageType models.MessageType
	fileURL     *string
	fileName    *string
}

// fanOut runs the per-recipient delivery loop. Each recipient is handled
// independently: a failed external delivery never blocks the remaining
// recipients, and every attempt leaves exactly one row in the local log.
// When the caller's deadline expires mid-loop the remaining recipients are
// reported as failed without being attempted.
func (s *deliveryServiceImpl) fanOut(ctx context.Context, authorID, roomID int64, recipients []*models.User, payload fanOutPayload) *dto.DeliveryReport {
	report := &dto.DeliveryReport{
		RoomID:     roomID,
		Recipients: make([]dto.RecipientReport, 0, len(recipients)),
	}

	author, authorErr := s.users.GetByID(ctx, authorID)

	for i, recipient := range recipients {
		if ctx.Err() != nil {
			for _, remaining := range recipients[i:] {
				report.Recipients = append(report.Recipients, dto.RecipientReport{
					RecipientID: remaining.ID,
					Status:      dto.DeliveryStatusFailed,
					Reason:      dto.DeliveryReasonTimeout,
				})
				report.TotalFailed++
			}
			break
		}

		line := s.deliverOne(ctx, author, authorErr, authorID, roomID, recipient, payload)
		report.Recipients = append(report.Recipients, line)
		if line.Status == dto.DeliveryStatusSent {
			report.TotalSent++
		} else {
			report.TotalFailed++
		}
		report.TotalAttempted++
	}

	s.logger.Info().
		Int64("roomID", roomID).
		Int64("authorID", authorID).
		Int("attempted", report.TotalAttempted).
		Int("sent", report.TotalSent).
		Int("failed", report.TotalFailed).
		Msg("Fan-out completed")

	return report
}

// deliverOne attempts external delivery to a single recipient and then
// writes the local row unconditionally. The external id is recorded when
// the provider accepted the message and left null otherwise.
func (s *deliveryServiceImpl) deliverOne(ctx context.Context, author *models.User, authorErr error, authorID, roomID int64, recipient *models.User, payload fanOutPayload) dto.RecipientReport {
	externalID, sendErr := s.sendExternal(ctx, author, authorErr, authorID, recipient, payload.content)
	if sendErr != nil {
		s.logger.Warn().Err(sendErr).
			Int64("authorID", authorID).
			Int64("recipientID", recipient.ID).
			Msg("External delivery failed, keeping local copy")
	}

	message := &models.Message{
		SenderID:    authorID,
		RecipientID: recipient.ID,
		Content:     payload.content,
		MessageType: payload.messageType,
		RoomID:      &roomID,
		ExternalID:  externalID,
		FileURL:     payload.fileURL,
		FileName:    payload.fileName,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		s.logger.Error().Err(err).
			Int64("authorID", authorID).
			Int64("recipientID", recipient.ID).
			Msg("Local message write failed")
		return dto.RecipientReport{
			RecipientID: recipient.ID,
			Status:      dto.DeliveryStatusFailed,
			Reason:      dto.DeliveryReasonPersistence,
		}
	}

	line := dto.RecipientReport{RecipientID: recipient.ID}
	if sendErr != nil {
		line.Status = dto.DeliveryStatusFailed
		line.Reason = sendErr.Error()
	} else {
		line.Status = dto.DeliveryStatusSent
		if externalID != nil {
			line.ExternalID = *externalID
		}
	}
	return line
}

// sendExternal runs the provider sequence for one recipient: make both
// parties known, provision the pair channel, send. Any failure is returned
// for reporting; nothing here is fatal to the fan-out.
func (s *deliveryServiceImpl) sendExternal(ctx context.Context, author *models.User, authorErr error, authorID int64, recipient *models.User, content string) (*string, error) {
	refs := []chatgateway.UserRef{{ID: recipient.ID, Name: recipient.DisplayName()}}
	if authorErr == nil {
		refs = append([]chatgateway.UserRef{{ID: author.ID, Name: author.DisplayName()}}, refs...)
	}
	if err := s.gateway.EnsureUsers(ctx, refs); err != nil {
		return nil, err
	}

	channelID, err := s.gateway.EnsureChannel(ctx, authorID, recipient.ID)
	if err != nil {
		return nil, err
	}

	externalID, err := s.gateway.Send(ctx, channelID, authorID, content)
	if err != nil {
		return nil, err
	}
	return &externalID, nil
}
