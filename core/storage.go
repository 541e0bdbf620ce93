package core

import "context"

type UserStorage interface {
	// CreateUser assigns ID and timestamps. Returns ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, u *User) error

	// Query methods. Missing users return ErrUserNotFound.
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsersByIDs(ctx context.Context, ids []string) ([]*User, error)
	ListOnboardedUsers(ctx context.Context, excludeIDs []string) ([]*User, error)

	// Update methods
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// FriendRequestFilter selects requests; empty fields match anything
type FriendRequestFilter struct {
	SenderID    string
	RecipientID string
	Status      FriendRequestStatus
}

type FriendRequestStorage interface {
	// CreateFriendRequest assigns ID and timestamps
	CreateFriendRequest(ctx context.Context, r *FriendRequest) error

	// Query methods. Missing requests return ErrFriendRequestNotFound.
	GetFriendRequest(ctx context.Context, id string) (*FriendRequest, error)
	FindPendingRequestBetween(ctx context.Context, a, b string) (*FriendRequest, error)
	ListFriendRequests(ctx context.Context, f FriendRequestFilter) ([]*FriendRequest, error)
}

type FriendshipStorage interface {
	// AcceptFriendRequest moves a pending request to accepted and adds each
	// party to the other's friends set as one operation. Adding is a no-op
	// when the id is already present. Returns ErrFriendRequestAccepted when
	// the request is no longer pending.
	AcceptFriendRequest(ctx context.Context, requestID string) (*FriendRequest, error)
}

type Storage interface {
	UserStorage
	FriendRequestStorage
	FriendshipStorage
}
