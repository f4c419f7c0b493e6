package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	FriendshipRepository *FriendshipRepository
	RoomRepository       *RoomRepository
	RoomMemberRepository *RoomMemberRepository
	MessageRepository    *MessageRepository
	TokenRepository      *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		FriendshipRepository: NewFriendshipRepository(db),
		RoomRepository:       NewRoomRepository(db),
		RoomMemberRepository: NewRoomMemberRepository(db),
		MessageRepository:    NewMessageRepository(db),
		TokenRepository:      NewTokenRepository(db),
	}
}
