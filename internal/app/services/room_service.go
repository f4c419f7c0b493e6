package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
	"github.com/thankiuday/dreamlink/internal/pkg/helpers"
)

const joinCodeLength = 6

// RoomService manages rooms: creation with a unique join code, joining by
// code, and membership queries.
type RoomService interface {
	CreateRoom(ctx context.Context, ownerID int64, ownerRole models.RoleType, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	JoinRoom(ctx context.Context, userID int64, req *dto.JoinRoomRequest) (*dto.RoomResponse, error)
	GetRoomMembers(ctx context.Context, callerID, roomID int64) ([]dto.UserResponse, error)
	GetRoomsForUser(ctx context.Context, userID int64, role models.RoleType) ([]dto.RoomResponse, error)
	LeaveRoom(ctx context.Context, userID, roomID int64) error
	DeleteRoom(ctx context.Context, callerID, roomID int64) error
}

// roomRepository is the room persistence surface the service needs
type roomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*models.Room, error)
	JoinCodeExists(ctx context.Context, joinCode string) (bool, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]*models.Room, error)
	Delete(ctx context.Context, id int64) error
}

// roomMemberRepository is the membership persistence surface
type roomMemberRepository interface {
	GetMembersByRoomID(ctx context.Context, roomID int64) ([]*models.User, error)
	GetRoomIDsByUserID(ctx context.Context, userID int64) ([]int64, error)
	IsMember(ctx context.Context, roomID, userID int64) (bool, error)
	AddMember(ctx context.Context, roomID, userID int64) (int64, error)
	RemoveMember(ctx context.Context, roomID, userID int64) error
}

// roomServiceImpl implements RoomService
type roomServiceImpl struct {
	rooms   roomRepository
	members roomMemberRepository
	logger  zerolog.Logger
}

// NewRoomService creates a new RoomService
func NewRoomService(rooms roomRepository, members roomMemberRepository, logger zerolog.Logger) RoomService {
	return &roomServiceImpl{
		rooms:   rooms,
		members: members,
		logger:  logger,
	}
}

// CreateRoom creates a room owned by a faculty member, with a collision-free
// join code and the owner enrolled as the first member.
func (s *roomServiceImpl) CreateRoom(ctx context.Context, ownerID int64, ownerRole models.RoleType, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	if ownerRole != models.RoleFaculty && ownerRole != models.RoleAdmin {
		return nil, apperrors.NewForbiddenError("Only faculty can create rooms")
	}

	joinCode, err := helpers.GenerateUniqueCode(ctx, joinCodeLength, helpers.DefaultCodeAttempts, s.rooms.JoinCodeExists)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate room join code")
		return nil, apperrors.ErrJoinCodeExhausted
	}

	room := &models.Room{
		Name:     req.Name,
		OwnerID:  ownerID,
		JoinCode: joinCode,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	if _, err := s.members.AddMember(ctx, room.ID, ownerID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("roomID", room.ID).Int64("ownerID", ownerID).Msg("Room created")

	response := dto.ToRoomResponse(room, true)
	return &response, nil
}

// JoinRoom enrolls the user in the room identified by the join code.
// An unknown code and a duplicate join are distinct failures.
func (s *roomServiceImpl) JoinRoom(ctx context.Context, userID int64, req *dto.JoinRoomRequest) (*dto.RoomResponse, error) {
	room, err := s.rooms.GetByJoinCode(ctx, req.JoinCode)
	if err != nil {
		return nil, apperrors.ErrInvalidJoinCode
	}

	if _, err := s.members.AddMember(ctx, room.ID, userID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("roomID", room.ID).Int64("userID", userID).Msg("User joined room")

	response := dto.ToRoomResponse(room, false)
	return &response, nil
}

// GetRoomMembers lists a room's members. Only members may look.
func (s *roomServiceImpl) GetRoomMembers(ctx context.Context, callerID, roomID int64) ([]dto.UserResponse, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	isMember, err := s.members.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.NewForbiddenError("Only room members can view the member list")
	}

	users, err := s.members.GetMembersByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.ToUserResponse(user))
	}
	return responses, nil
}

// GetRoomsForUser returns the rooms the user belongs to. Faculty see the
// join codes of rooms they own.
func (s *roomServiceImpl) GetRoomsForUser(ctx context.Context, userID int64, role models.RoleType) ([]dto.RoomResponse, error) {
	roomIDs, err := s.members.GetRoomIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RoomResponse, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		room, err := s.rooms.GetByID(ctx, roomID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.ToRoomResponse(room, room.OwnerID == userID))
	}
	return responses, nil
}

// LeaveRoom removes the caller from a room. The owner cannot leave their
// own room; they delete it instead.
func (s *roomServiceImpl) LeaveRoom(ctx context.Context, userID, roomID int64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID == userID {
		return apperrors.NewBadRequestError("The room owner cannot leave; delete the room instead")
	}

	if err := s.members.RemoveMember(ctx, roomID, userID); err != nil {
		return err
	}

	s.logger.Info().Int64("roomID", roomID).Int64("userID", userID).Msg("User left room")
	return nil
}

// DeleteRoom removes a room. Only the owner may delete it.
func (s *roomServiceImpl) DeleteRoom(ctx context.Context, callerID, roomID int64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != callerID {
		return apperrors.NewForbiddenError("Only the room owner can delete the room")
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return err
	}

	s.logger.Info().Int64("roomID", roomID).Int64("ownerID", callerID).Msg("Room deleted")
	return nil
}
