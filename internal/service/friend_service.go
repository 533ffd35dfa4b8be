package service

import (
	"context"
	"log/slog"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

// FriendService manages a user's friend links.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a new FriendService.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// List returns the user's friend links.
func (s *FriendService) List(ctx context.Context, userID string) ([]*models.Friend, error) {
	friends, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		return nil, err
	}
	return friends, nil
}

// Add creates a friend link from the user to another registered profile.
// The befriended profile must exist.
func (s *FriendService) Add(ctx context.Context, userID, friendID, nickname string) (*models.Friend, error) {
	friend := &models.Friend{
		OwnerID:  userID,
		FriendID: friendID,
		Nickname: nickname,
	}
	if err := friend.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetProfileByID(ctx, friendID); err != nil {
		return nil, err
	}

	if err := s.store.CreateFriend(ctx, friend); err != nil {
		slog.Error("AddFriend failed", "user_id", userID, "friend_id", friendID, "error", err)
		return nil, err
	}
	return friend, nil
}

// Remove deletes one of the user's friend links.
func (s *FriendService) Remove(ctx context.Context, userID, friendLinkID string) error {
	if err := s.store.DeleteFriend(ctx, userID, friendLinkID); err != nil {
		slog.Warn("RemoveFriend failed", "user_id", userID, "friend_link_id", friendLinkID, "error", err)
		return err
	}
	return nil
}
