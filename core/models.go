package core

import "time"

// User represents a registered member of the platform
//
// Friends is written only by friend-request acceptance
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"` // Never expose in JSON
	FullName         string    `json:"fullName"`
	Bio              string    `json:"bio"`
	ProfilePic       string    `json:"profilePic"`
	NativeLanguage   string    `json:"nativeLanguage"`
	LearningLanguage string    `json:"learningLanguage"`
	Location         string    `json:"location"`
	IsOnboarded      bool      `json:"isOnboarded"`
	Friends          []string  `json:"friends"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasFriend reports whether id is in the user's friends set
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// PublicProfile is the projection of a User shown to other users
type PublicProfile struct {
	ID               string `json:"id"`
	FullName         string `json:"fullName"`
	ProfilePic       string `json:"profilePic"`
	NativeLanguage   string `json:"nativeLanguage,omitempty"`
	LearningLanguage string `json:"learningLanguage,omitempty"`
}

// ProfileOf projects u, optionally including its languages
func ProfileOf(u *User, withLanguages bool) *PublicProfile {
	p := &PublicProfile{
		ID:         u.ID,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
	}
	if withLanguages {
		p.NativeLanguage = u.NativeLanguage
		p.LearningLanguage = u.LearningLanguage
	}
	return p
}

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

// FriendRequest is a directional proposal awaiting the recipient's approval
type FriendRequest struct {
	ID          string              `json:"id"`
	SenderID    string              `json:"sender"`
	RecipientID string              `json:"recipient"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// FriendRequestView is a FriendRequest with the counterpart's profile attached.
// Exactly one of Sender or Recipient is set, depending on the feed.
type FriendRequestView struct {
	ID        string              `json:"id"`
	Sender    *PublicProfile      `json:"sender,omitempty"`
	Recipient *PublicProfile      `json:"recipient,omitempty"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// ProfileUpdate holds the onboarding fields written in one update
type ProfileUpdate struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
	ProfilePic       string // empty keeps the current picture
}

// ChatIdentity is the user representation mirrored to the chat provider
type ChatIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// AuthContext is the identity resolved by the auth gate
type AuthContext struct {
	User *User
}

// UserID returns the authenticated user's id
func (a *AuthContext) UserID() string {
	if a == nil || a.User == nil {
		return ""
	}
	return a.User.ID
}
