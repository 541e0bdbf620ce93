package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// CHAT BRIDGE PORT (remote messaging provider)
// ============================================

// ChatBridge mirrors users to the chat provider and mints client tokens
type ChatBridge interface {
	UpsertIdentity(ctx context.Context, id ChatIdentity) error
	IssueChatToken(userID string) (string, error)
}

// ChatSyncPolicy decides, per call site, whether a failed identity upsert
// fails the surrounding operation
type ChatSyncPolicy struct {
	RequiredOnSignup     bool
	RequiredOnOnboarding bool
}

func DefaultChatSyncPolicy() ChatSyncPolicy {
	return ChatSyncPolicy{
		RequiredOnSignup:     true,
		RequiredOnOnboarding: false,
	}
}

// ============================================
// SERVICE PORTS (for HTTP adapters)
// ============================================

// SignUpInput contains the data needed to register a new user
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// SignInInput contains the credentials for authentication
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordInput replaces the signed-in user's password
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResult contains the authenticated user and a freshly issued session token
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// OnboardInput contains the profile fields collected after signup
type OnboardInput struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
	ProfilePic       string `json:"profilePic"`
}

// AuthProvider provides authentication operations for HTTP adapters
type AuthProvider interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, input SignInInput) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*AuthContext, error)
	ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error
}

// ProfileProvider provides onboarding and discovery operations
type ProfileProvider interface {
	Onboard(ctx context.Context, userID string, input OnboardInput) (*User, error)
	Recommend(ctx context.Context, userID string) ([]*User, error)
}

// FriendGraph provides the friend-request lifecycle
type FriendGraph interface {
	SendRequest(ctx context.Context, senderID, recipientID string) (*FriendRequest, error)
	AcceptRequest(ctx context.Context, requestID, actingUserID string) (*FriendRequest, error)
	ListIncoming(ctx context.Context, userID string) ([]*FriendRequestView, error)
	ListOutgoing(ctx context.Context, userID string) ([]*FriendRequestView, error)
	ListAcceptedIncoming(ctx context.Context, userID string) ([]*FriendRequestView, error)
	Friends(ctx context.Context, userID string) ([]*PublicProfile, error)
}

// ChatTokenProvider mints chat tokens for authenticated users
type ChatTokenProvider interface {
	ChatToken(ctx context.Context, userID string) (string, error)
}
