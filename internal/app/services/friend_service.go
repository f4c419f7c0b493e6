package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

// FriendService manages declared friendships and verified account links.
type FriendService interface {
	AddFriend(ctx context.Context, userID, friendID int64) error
	GetFriends(ctx context.Context, userID int64) ([]dto.UserResponse, error)
	LinkAccounts(ctx context.Context, callerRole models.RoleType, userID, otherID int64) error
}

// friendshipWriter is the mutation surface the service needs
type friendshipWriter interface {
	GetFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	AreFriends(ctx context.Context, userID, friendID int64) (bool, error)
	CreateFriendship(ctx context.Context, userID, friendID int64) error
	CreateLink(ctx context.Context, userID, linkedUserID int64) error
}

// friendServiceImpl implements FriendService
type friendServiceImpl struct {
	friends friendshipWriter
	users   partnerDirectory
	logger  zerolog.Logger
}

// NewFriendService creates a new FriendService
func NewFriendService(friends friendshipWriter, users partnerDirectory, logger zerolog.Logger) FriendService {
	return &friendServiceImpl{
		friends: friends,
		users:   users,
		logger:  logger,
	}
}

// AddFriend records a mutual friendship between the caller and another user.
// The edge is written in both directions so either side's reads see it.
func (s *friendServiceImpl) AddFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return apperrors.NewBadRequestError("Cannot befriend yourself")
	}
	if _, err := s.users.GetByID(ctx, friendID); err != nil {
		return apperrors.NewResourceNotFoundError("User not found")
	}

	already, err := s.friends.AreFriends(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if already {
		return apperrors.NewConflictError("Already friends")
	}

	if err := s.friends.CreateFriendship(ctx, userID, friendID); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Int64("friendID", friendID).Msg("Friendship created")
	return nil
}

// GetFriends lists the caller's friends with display data.
func (s *friendServiceImpl) GetFriends(ctx context.Context, userID int64) ([]dto.UserResponse, error) {
	friendIDs, err := s.friends.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetByIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.ToUserResponse(user))
	}
	return responses, nil
}

// LinkAccounts records a verified account link between two users. Links are
// established administratively after out-of-band verification.
func (s *friendServiceImpl) LinkAccounts(ctx context.Context, callerRole models.RoleType, userID, otherID int64) error {
	if callerRole != models.RoleAdmin {
		return apperrors.NewForbiddenError("Only admins can link accounts")
	}
	if userID == otherID {
		return apperrors.NewBadRequestError("Cannot link an account to itself")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return apperrors.NewResourceNotFoundError("User not found")
	}
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		return apperrors.NewResourceNotFoundError("User not found")
	}

	if err := s.friends.CreateLink(ctx, userID, otherID); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Int64("otherID", otherID).Msg("Accounts linked")
	return nil
}
