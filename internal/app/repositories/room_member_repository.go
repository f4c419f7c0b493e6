package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
	"github.com/thankiuday/dreamlink/internal/pkg/dberrors"
)

// RoomMemberRepository handles database operations for room membership
type RoomMemberRepository struct {
	db *pgxpool.Pool
}

// NewRoomMemberRepository creates a new RoomMemberRepository
func NewRoomMemberRepository(db *pgxpool.Pool) *RoomMemberRepository {
	return &RoomMemberRepository{db: db}
}

// GetMemberIDsByRoomID retrieves the user ids of all members of a room
func (r *RoomMemberRepository) GetMemberIDsByRoomID(ctx context.Context, roomID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM room_members WHERE room_id = $1`, roomID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetMembersByRoomID retrieves all members of a room with display data
func (r *RoomMemberRepository) GetMembersByRoomID(ctx context.Context, roomID int64) ([]*models.User, error) {
	queryBuilder := squirrel.Select("u.id", "u.email", "u.first_name", "u.last_name", "u.role", "u.is_active").
		From("room_members rm").
		Join("users u ON rm.user_id = u.id").
		Where("rm.room_id = ?", roomID).
		OrderBy("u.first_name", "u.last_name").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, &user)
	}

	return members, rows.Err()
}

// GetRoomIDsByUserID retrieves all rooms a user belongs to
func (r *RoomMemberRepository) GetRoomIDsByUserID(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT room_id FROM room_members WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning room id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetCoMemberIDs returns the distinct ids of everyone who shares at least
// one room with the user, excluding the user. One query instead of a
// per-room fan-in.
func (r *RoomMemberRepository) GetCoMemberIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `
		SELECT DISTINCT other.user_id
		FROM room_members own
		JOIN room_members other ON other.room_id = own.room_id
		WHERE own.user_id = $1 AND other.user_id <> $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning co-member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// IsMember checks whether a user belongs to a room
func (r *RoomMemberRepository) IsMember(ctx context.Context, roomID, userID int64) (bool, error) {
	var exists int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM room_members WHERE room_id = $1 AND user_id = $2`,
		roomID, userID).Scan(&exists)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return true, nil
}

// AddMember adds a user to a room. A duplicate join is rejected with
// apperrors.ErrAlreadyRoomMember rather than silently ignored.
func (r *RoomMemberRepository) AddMember(ctx context.Context, roomID, userID int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO room_members (room_id, user_id) VALUES ($1, $2) RETURNING id`,
		roomID, userID).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrAlreadyRoomMember
		}
		return 0, fmt.Errorf("error adding room member: %w", err)
	}

	return id, nil
}

// RemoveMember removes a user from a room
func (r *RoomMemberRepository) RemoveMember(ctx context.Context, roomID, userID int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM room_members WHERE room_id = $1 AND user_id = $2`,
		roomID, userID)
	if err != nil {
		return fmt.Errorf("error removing room member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("User is not a member of this room")
	}

	return nil
}
