package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

// CreateFriend persists a new friend link.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friends (id, owner_id, friend_id, nickname, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		friend.ID, friend.OwnerID, friend.FriendID, friend.Nickname, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friend link: %w", err)
	}
	return nil
}

// ListFriends returns all friend links owned by the given profile.
func (s *SQLiteStore) ListFriends(ctx context.Context, ownerID string) ([]*models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, friend_id, nickname, created_at
		 FROM friends WHERE owner_id = ? ORDER BY nickname`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		friend := &models.Friend{}
		if err := rows.Scan(&friend.ID, &friend.OwnerID, &friend.FriendID, &friend.Nickname, &friend.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend link: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friend links: %w", err)
	}
	return friends, nil
}

// DeleteFriend removes a friend link owned by the given profile.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, ownerID, friendLinkID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM friends WHERE id = ? AND owner_id = ?`,
		friendLinkID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend link: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("friend link %s: %w", friendLinkID, storage.ErrNotFound)
	}
	return nil
}
