package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendshipRepository handles database operations for friendship and
// linked-account edges
type FriendshipRepository struct {
	db *pgxpool.Pool
}

// NewFriendshipRepository creates a new FriendshipRepository
func NewFriendshipRepository(db *pgxpool.Pool) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// GetFriendIDs returns the ids of everyone the user has a declared
// friendship with. Edges are stored in both directions, so one scan over
// user_id is enough.
func (r *FriendshipRepository) GetFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT friend_id FROM friendships WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning friend id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// AreFriends checks whether a declared friendship exists between two users
func (r *FriendshipRepository) AreFriends(ctx context.Context, userID, friendID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`,
		userID, friendID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking friendship: %w", err)
	}
	return exists, nil
}

// CreateFriendship writes a mutual friendship edge in both directions in
// one transaction. The symmetric pair is never written independently.
func (r *FriendshipRepository) CreateFriendship(ctx context.Context, userID, friendID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, friendID)
	batch.Queue(`INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, friendID, userID)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("error creating friendship edge: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("error closing batch: %w", err)
	}

	return tx.Commit(ctx)
}

// GetLinkedAccountIDs returns the ids of accounts linked to the user
func (r *FriendshipRepository) GetLinkedAccountIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT linked_user_id FROM linked_accounts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning linked account id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CreateLink writes a symmetric linked-account edge in both directions.
// Callers invoke this only after verification succeeds.
func (r *FriendshipRepository) CreateLink(ctx context.Context, userID, linkedUserID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO linked_accounts (user_id, linked_user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, linkedUserID); err != nil {
		return fmt.Errorf("error creating account link: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO linked_accounts (user_id, linked_user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		linkedUserID, userID); err != nil {
		return fmt.Errorf("error creating account link: %w", err)
	}

	return tx.Commit(ctx)
}
