package pgx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/linguachat/core"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := isUniqueViolation(test.err); got != test.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, test.want)
			}
		})
	}
}

// newTestAdapter connects to LINGUACHAT_TEST_DATABASE_URL, migrating a fresh
// schema. Tests skip when it is unset.
func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	url := os.Getenv("LINGUACHAT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("LINGUACHAT_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("pgxpool.New error: %v", err)
	}
	t.Cleanup(pool.Close)

	a := New(pool)
	if err := a.Migrate(ctx); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE public.friendships, public.friend_requests, public.users`); err != nil {
		t.Fatalf("truncate error: %v", err)
	}
	return a
}

func TestAdapter_Users(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	// Arrange
	u := &core.User{Email: "Ana@Example.com", PasswordHash: "hash", FullName: "Ana", ProfilePic: "pic"}

	// Act
	if err := a.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	dup := a.CreateUser(ctx, &core.User{Email: "ana@example.com", PasswordHash: "hash", FullName: "Other"})
	byEmail, err := a.GetUserByEmail(ctx, "ANA@example.com")

	// Assert
	if !errors.Is(dup, core.ErrEmailTaken) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrEmailTaken", dup)
	}
	if err != nil || byEmail.ID != u.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("GetUserByEmail() = %+v, %v", byEmail, err)
	}
	if len(byEmail.Friends) != 0 {
		t.Errorf("Friends = %v, want empty", byEmail.Friends)
	}

	updated, err := a.UpdateProfile(ctx, u.ID, core.ProfileUpdate{
		FullName: "Ana Diaz", Bio: "hi", NativeLanguage: "spanish", LearningLanguage: "english", Location: "Lima",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if !updated.IsOnboarded || updated.ProfilePic != "pic" || updated.FullName != "Ana Diaz" {
		t.Errorf("UpdateProfile() = %+v", updated)
	}
	if _, err := a.UpdateProfile(ctx, "missing", core.ProfileUpdate{}); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("UpdateProfile(missing) error = %v, want ErrUserNotFound", err)
	}
	if err := a.UpdatePasswordHash(ctx, u.ID, "new-hash"); err != nil {
		t.Errorf("UpdatePasswordHash() error = %v", err)
	}
	if _, err := a.GetUserByID(ctx, "missing"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("GetUserByID(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestAdapter_FriendRequestLifecycle(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	sender := &core.User{Email: "a@example.com", PasswordHash: "h", FullName: "A", IsOnboarded: true}
	recipient := &core.User{Email: "b@example.com", PasswordHash: "h", FullName: "B", IsOnboarded: true}
	for _, u := range []*core.User{sender, recipient} {
		if err := a.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
	}

	req := &core.FriendRequest{SenderID: sender.ID, RecipientID: recipient.ID}
	if err := a.CreateFriendRequest(ctx, req); err != nil {
		t.Fatalf("CreateFriendRequest() error = %v", err)
	}

	if got, err := a.FindPendingRequestBetween(ctx, recipient.ID, sender.ID); err != nil || got.ID != req.ID {
		t.Errorf("FindPendingRequestBetween(reverse) = %v, %v", got, err)
	}
	incoming, err := a.ListFriendRequests(ctx, core.FriendRequestFilter{RecipientID: recipient.ID, Status: core.FriendRequestPending})
	if err != nil || len(incoming) != 1 {
		t.Errorf("ListFriendRequests(incoming) = %v, %v", incoming, err)
	}

	accepted, err := a.AcceptFriendRequest(ctx, req.ID)
	if err != nil || accepted.Status != core.FriendRequestAccepted {
		t.Fatalf("AcceptFriendRequest() = %v, %v", accepted, err)
	}
	if _, err := a.AcceptFriendRequest(ctx, req.ID); !errors.Is(err, core.ErrFriendRequestAccepted) {
		t.Errorf("second AcceptFriendRequest() error = %v, want ErrFriendRequestAccepted", err)
	}
	if _, err := a.AcceptFriendRequest(ctx, "missing"); !errors.Is(err, core.ErrFriendRequestNotFound) {
		t.Errorf("AcceptFriendRequest(missing) error = %v, want ErrFriendRequestNotFound", err)
	}

	s, _ := a.GetUserByID(ctx, sender.ID)
	r, _ := a.GetUserByID(ctx, recipient.ID)
	if len(s.Friends) != 1 || s.Friends[0] != recipient.ID || len(r.Friends) != 1 || r.Friends[0] != sender.ID {
		t.Errorf("friends = %v / %v, want each other once", s.Friends, r.Friends)
	}

	users, err := a.ListUsersByIDs(ctx, []string{recipient.ID, "missing", sender.ID})
	if err != nil || len(users) != 2 || users[0].ID != recipient.ID {
		t.Errorf("ListUsersByIDs() = %v, %v", users, err)
	}
	onboarded, err := a.ListOnboardedUsers(ctx, []string{sender.ID})
	if err != nil || len(onboarded) != 1 || onboarded[0].ID != recipient.ID {
		t.Errorf("ListOnboardedUsers() = %v, %v", onboarded, err)
	}
}
