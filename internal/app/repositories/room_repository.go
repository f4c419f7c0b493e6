package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
)

// RoomRepository handles database operations for rooms
type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a new room
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (name, owner_id, join_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		room.Name,
		room.OwnerID,
		room.JoinCode,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating room: %w", err)
	}

	return nil
}

// GetByID retrieves a room by its ID
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	query := `
		SELECT id, name, owner_id, join_code, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	var room models.Room
	err := r.db.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.OwnerID,
		&room.JoinCode,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("error retrieving room: %w", err)
	}

	return &room, nil
}

// GetByJoinCode retrieves a room by its join code
func (r *RoomRepository) GetByJoinCode(ctx context.Context, joinCode string) (*models.Room, error) {
	query := `
		SELECT id, name, owner_id, join_code, created_at, updated_at
		FROM rooms
		WHERE join_code = $1
	`

	var room models.Room
	err := r.db.QueryRow(ctx, query, joinCode).Scan(
		&room.ID,
		&room.Name,
		&room.OwnerID,
		&room.JoinCode,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("error retrieving room by join code: %w", err)
	}

	return &room, nil
}

// JoinCodeExists checks whether a join code is already taken
func (r *RoomRepository) JoinCodeExists(ctx context.Context, joinCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE join_code = $1)`, joinCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking join code: %w", err)
	}
	return exists, nil
}

// GetByOwnerID retrieves all rooms owned by a user
func (r *RoomRepository) GetByOwnerID(ctx context.Context, ownerID int64) ([]*models.Room, error) {
	queryBuilder := squirrel.Select("id", "name", "owner_id", "join_code", "created_at", "updated_at").
		From("rooms").
		Where("owner_id = ?", ownerID).
		OrderBy("created_at DESC").
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

	var rooms []*models.Room
	for rows.Next() {
		var room models.Room
		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.OwnerID,
			&room.JoinCode,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning room row: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

// Delete removes a room
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting room: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrRoomNotFound
	}

	return nil
}
