package models

import "errors"

var (
	ErrEmptyNickname = errors.New("nickname can't be empty")
	ErrSelfFriend    = errors.New("can't add yourself as a friend")
)

// Friend is a nickname a user assigns to another registered user. Many-to-one
// on both ends: a user may have many friend links, and a profile may be
// nicknamed by many users. The nickname is immutable beyond delete/re-add.
type Friend struct {
	// ID is the unique identifier for the friend link (UUID format).
	ID string

	// OwnerID is the profile ID of the user who created the link.
	OwnerID string

	// FriendID is the profile ID of the befriended user.
	FriendID string

	// Nickname is what the owner calls this person (e.g. "Bob").
	Nickname string

	// CreatedAt is the Unix timestamp when the link was created.
	CreatedAt int64
}

// Validate checks the invariants a friend link must satisfy.
func (f *Friend) Validate() error {
	if f.OwnerID == "" || f.FriendID == "" {
		return ErrMissingParty
	}
	if f.OwnerID == f.FriendID {
		return ErrSelfFriend
	}
	if f.Nickname == "" {
		return ErrEmptyNickname
	}
	return nil
}
