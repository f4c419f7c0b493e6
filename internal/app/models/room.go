package models

import "time"

// Room represents a faculty-owned messaging room
type Room struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	OwnerID   int64     `json:"ownerId" db:"owner_id"`
	JoinCode  string    `json:"joinCode" db:"join_code"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Owner   *User   `json:"owner,omitempty"`
	Members []*User `json:"members,omitempty"`
}
