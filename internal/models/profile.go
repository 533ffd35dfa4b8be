package models

// Profile represents a registered user account.
//
// Registration happens through the mini app: the user submits an email,
// receives a one-time code, and verifying the code creates (or logs into)
// the profile. The Telegram ID links the profile to the chat bot so parsed
// transactions and settle notifications reach the right person.
type Profile struct {
	// ID is the unique identifier for the profile (UUID format).
	ID string

	// TelegramID is the numeric Telegram user ID (unique per profile).
	// Zero if the profile has not been linked to Telegram yet.
	TelegramID int64

	// Email is the user's email address (unique). Used for OTP login.
	Email string

	// DisplayName is the name shown to other users.
	DisplayName string

	// CreatedAt is the Unix timestamp when the profile was created.
	CreatedAt int64
}
