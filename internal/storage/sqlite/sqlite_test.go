package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateProfile(t *testing.T, store *SQLiteStore, email string) *models.Profile {
	t.Helper()
	profile := &models.Profile{Email: email, DisplayName: email}
	if err := store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	return profile
}

func TestSQLiteStore_Profiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateProfile generates ID and timestamp", func(t *testing.T) {
		profile := &models.Profile{Email: "alice@example.com", DisplayName: "Alice", TelegramID: 12345}
		if err := store.CreateProfile(ctx, profile); err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
		if profile.ID == "" {
			t.Error("Expected profile ID to be generated")
		}
		if profile.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetProfileByID retrieves profile", func(t *testing.T) {
		created := mustCreateProfile(t, store, "bob@example.com")
		got, err := store.GetProfileByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetProfileByID failed: %v", err)
		}
		if got.Email != "bob@example.com" {
			t.Errorf("Expected email bob@example.com, got %s", got.Email)
		}
	})

	t.Run("GetProfileByID unknown returns NotFound", func(t *testing.T) {
		_, err := store.GetProfileByID(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetProfileByEmail unknown returns nil", func(t *testing.T) {
		got, err := store.GetProfileByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetProfileByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil profile, got %+v", got)
		}
	})
}

func TestSQLiteStore_Friends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateProfile(t, store, "alice@example.com")
	bob := mustCreateProfile(t, store, "bob@example.com")

	friend := &models.Friend{OwnerID: alice.ID, FriendID: bob.ID, Nickname: "Bobby"}
	if err := store.CreateFriend(ctx, friend); err != nil {
		t.Fatalf("CreateFriend failed: %v", err)
	}

	t.Run("ListFriends returns owned links", func(t *testing.T) {
		friends, err := store.ListFriends(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 1 || friends[0].Nickname != "Bobby" {
			t.Errorf("Expected one friend Bobby, got %+v", friends)
		}
	})

	t.Run("ListFriends is scoped to owner", func(t *testing.T) {
		friends, err := store.ListFriends(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 0 {
			t.Errorf("Expected no friends for bob, got %+v", friends)
		}
	})

	t.Run("DeleteFriend by non-owner fails", func(t *testing.T) {
		err := store.DeleteFriend(ctx, bob.ID, friend.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteFriend removes link", func(t *testing.T) {
		if err := store.DeleteFriend(ctx, alice.ID, friend.ID); err != nil {
			t.Fatalf("DeleteFriend failed: %v", err)
		}
		friends, err := store.ListFriends(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 0 {
			t.Errorf("Expected no friends after delete, got %+v", friends)
		}
	})
}

func createTransaction(t *testing.T, store *SQLiteStore, creator, payer, payee string, amount string) (*models.Transaction, *models.Obligation) {
	t.Helper()
	txn := &models.Transaction{
		CreatorID:   creator,
		Description: "Dinner",
		TotalAmount: decimal.RequireFromString(amount),
		SourceType:  models.SourceText,
	}
	obligation := &models.Obligation{
		PayerID:  payer,
		PayeeID:  payee,
		Amount:   decimal.RequireFromString(amount),
		Label:    "Pizza",
		Category: "Food",
	}
	if err := store.CreateTransaction(context.Background(), txn, []*models.Obligation{obligation}); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	return txn, obligation
}

func TestSQLiteStore_Transactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateProfile(t, store, "alice@example.com")
	bob := mustCreateProfile(t, store, "bob@example.com")
	carol := mustCreateProfile(t, store, "carol@example.com")

	txn, obligation := createTransaction(t, store, alice.ID, alice.ID, bob.ID, "25.50")

	t.Run("CreateTransaction generates IDs and links obligations", func(t *testing.T) {
		if txn.ID == "" || obligation.ID == "" {
			t.Fatal("Expected generated IDs")
		}
		if obligation.TransactionID != txn.ID {
			t.Errorf("Expected obligation linked to %s, got %s", txn.ID, obligation.TransactionID)
		}
		if obligation.Status != models.StatusPending {
			t.Errorf("Expected pending status, got %s", obligation.Status)
		}
	})

	t.Run("GetTransaction round-trips amounts", func(t *testing.T) {
		got, err := store.GetTransaction(ctx, txn.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if !got.TotalAmount.Equal(decimal.RequireFromString("25.50")) {
			t.Errorf("Expected total 25.50, got %s", got.TotalAmount)
		}
	})

	t.Run("ListTransactionsForUser includes participants", func(t *testing.T) {
		for _, userID := range []string{alice.ID, bob.ID} {
			txns, err := store.ListTransactionsForUser(ctx, userID)
			if err != nil {
				t.Fatalf("ListTransactionsForUser failed: %v", err)
			}
			if len(txns) != 1 {
				t.Errorf("Expected 1 transaction for %s, got %d", userID, len(txns))
			}
		}

		txns, err := store.ListTransactionsForUser(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListTransactionsForUser failed: %v", err)
		}
		if len(txns) != 0 {
			t.Errorf("Expected no transactions for carol, got %d", len(txns))
		}
	})

	t.Run("ListObligationsForUser pendingOnly filters paid", func(t *testing.T) {
		_, paid := createTransaction(t, store, alice.ID, bob.ID, alice.ID, "10.00")
		if _, err := store.SettleObligation(ctx, paid.ID, time.Now().Unix()); err != nil {
			t.Fatalf("SettleObligation failed: %v", err)
		}

		all, err := store.ListObligationsForUser(ctx, alice.ID, false)
		if err != nil {
			t.Fatalf("ListObligationsForUser failed: %v", err)
		}
		pendingOnly, err := store.ListObligationsForUser(ctx, alice.ID, true)
		if err != nil {
			t.Fatalf("ListObligationsForUser failed: %v", err)
		}
		if len(all) != len(pendingOnly)+1 {
			t.Errorf("Expected pendingOnly to exclude exactly the paid obligation: all=%d pending=%d", len(all), len(pendingOnly))
		}
	})
}

func TestSQLiteStore_SettleObligation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateProfile(t, store, "alice@example.com")
	bob := mustCreateProfile(t, store, "bob@example.com")
	_, obligation := createTransaction(t, store, alice.ID, alice.ID, bob.ID, "25.50")

	t.Run("Settle flips pending to paid", func(t *testing.T) {
		paidAt := time.Now().Unix()
		settled, err := store.SettleObligation(ctx, obligation.ID, paidAt)
		if err != nil {
			t.Fatalf("SettleObligation failed: %v", err)
		}
		if settled.Status != models.StatusPaid {
			t.Errorf("Expected paid status, got %s", settled.Status)
		}
		if settled.PaidAt != paidAt {
			t.Errorf("Expected paid_at %d, got %d", paidAt, settled.PaidAt)
		}
	})

	t.Run("Second settle fails with AlreadySettled and keeps timestamp", func(t *testing.T) {
		before, err := store.GetObligation(ctx, obligation.ID)
		if err != nil {
			t.Fatalf("GetObligation failed: %v", err)
		}

		_, err = store.SettleObligation(ctx, obligation.ID, before.PaidAt+3600)
		if !errors.Is(err, storage.ErrAlreadySettled) {
			t.Fatalf("Expected ErrAlreadySettled, got %v", err)
		}

		after, err := store.GetObligation(ctx, obligation.ID)
		if err != nil {
			t.Fatalf("GetObligation failed: %v", err)
		}
		if after.PaidAt != before.PaidAt {
			t.Errorf("Paid timestamp changed: %d -> %d", before.PaidAt, after.PaidAt)
		}
	})

	t.Run("Settle unknown obligation returns NotFound", func(t *testing.T) {
		_, err := store.SettleObligation(ctx, "missing", time.Now().Unix())
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_OTP(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	email := "alice@example.com"
	expiry := time.Now().Add(10 * time.Minute).Unix()

	if err := store.UpsertOTP(ctx, email, "hash-1", expiry); err != nil {
		t.Fatalf("UpsertOTP failed: %v", err)
	}

	t.Run("GetOTP returns stored hash", func(t *testing.T) {
		hash, expiresAt, err := store.GetOTP(ctx, email)
		if err != nil {
			t.Fatalf("GetOTP failed: %v", err)
		}
		if hash != "hash-1" || expiresAt != expiry {
			t.Errorf("Unexpected OTP row: %s %d", hash, expiresAt)
		}
	})

	t.Run("Upsert replaces previous code", func(t *testing.T) {
		if err := store.UpsertOTP(ctx, email, "hash-2", expiry+60); err != nil {
			t.Fatalf("UpsertOTP failed: %v", err)
		}
		hash, _, err := store.GetOTP(ctx, email)
		if err != nil {
			t.Fatalf("GetOTP failed: %v", err)
		}
		if hash != "hash-2" {
			t.Errorf("Expected replaced hash, got %s", hash)
		}
	})

	t.Run("DeleteOTP consumes code", func(t *testing.T) {
		if err := store.DeleteOTP(ctx, email); err != nil {
			t.Fatalf("DeleteOTP failed: %v", err)
		}
		_, _, err := store.GetOTP(ctx, email)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})
}
