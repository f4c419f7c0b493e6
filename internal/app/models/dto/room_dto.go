package dto

import (
	"time"

	"github.com/thankiuday/dreamlink/internal/app/models"
)

// CreateRoomRequest represents a room creation request
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100" example:"Grade 7 Science"`
}

// JoinRoomRequest represents a join-by-code request
type JoinRoomRequest struct {
	JoinCode string `json:"joinCode" binding:"required" example:"K7PQ2M"`
}

// RoomResponse is the public view of a room
type RoomResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Grade 7 Science"`
	OwnerID   int64     `json:"ownerId" example:"3"`
	JoinCode  string    `json:"joinCode,omitempty" example:"K7PQ2M"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToRoomResponse converts a room model to its response view. The join
// code is only included for the owner.
func ToRoomResponse(room *models.Room, includeJoinCode bool) RoomResponse {
	resp := RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		OwnerID:   room.OwnerID,
		CreatedAt: room.CreatedAt,
	}
	if includeJoinCode {
		resp.JoinCode = room.JoinCode
	}
	return resp
}

// ToUserResponse converts a user model to its public view
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}
}
