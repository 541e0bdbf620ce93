package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/lborres/linguachat/core"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	credentials *CredentialStore
	tokens      *TokenService
	users       core.UserStorage
	chat        *ChatService
	policy      core.ChatSyncPolicy
	avatar      func() string
}

// Ensure AuthService implements AuthProvider
var _ core.AuthProvider = (*AuthService)(nil)

func NewAuthService(credentials *CredentialStore, tokens *TokenService, users core.UserStorage, chat *ChatService, policy core.ChatSyncPolicy) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		users:       users,
		chat:        chat,
		policy:      policy,
		avatar:      randomAvatar,
	}
}

// randomAvatar picks one of the provider's 100 public avatars
func randomAvatar() string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", rand.Intn(100)+1)
}

// SignUp registers a new user and issues a session token
func (s *AuthService) SignUp(ctx context.Context, input core.SignUpInput) (*core.AuthResult, error) {
	// Step 1: Validate input
	if err := validateSignUp(input); err != nil {
		return nil, err
	}

	// Step 2: Create the user with a hashed secret
	user, err := s.credentials.CreateUser(ctx, input.Email, input.Password, strings.TrimSpace(input.FullName), s.avatar())
	if err != nil {
		return nil, err
	}

	// Step 3: Mirror the user to the chat provider. The user row is kept
	// even when a required sync fails.
	if err := s.chat.SyncIdentity(ctx, user, CallSiteSignup, s.policy.RequiredOnSignup); err != nil {
		return nil, err
	}

	// Step 4: Issue the session token
	return s.issue(user)
}

// SignIn authenticates a user with email and password
func (s *AuthService) SignIn(ctx context.Context, input core.SignInInput) (*core.AuthResult, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, core.ErrEmailRequired
	}
	if input.Password == "" {
		return nil, core.ErrPasswordRequired
	}

	user, err := s.credentials.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.credentials.VerifySecret(user, input.Password) {
		return nil, core.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a session token to the user it was issued for
func (s *AuthService) Authenticate(ctx context.Context, token string) (*core.AuthContext, error) {
	if token == "" {
		return nil, core.ErrNoToken
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, core.ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &core.AuthContext{User: user}, nil
}

// ChangePassword replaces userID's password after checking the current one.
// Outstanding session tokens stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, input core.ChangePasswordInput) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return core.ErrPasswordRequired
	}
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}
	if input.NewPassword == input.CurrentPassword {
		return core.ErrPasswordUnchanged
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return core.ErrUnknownUser
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !s.credentials.VerifySecret(user, input.CurrentPassword) {
		return core.ErrWrongPassword
	}

	return s.credentials.ResetSecret(ctx, user.ID, input.NewPassword)
}

func (s *AuthService) issue(user *core.User) (*core.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &core.AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func validateSignUp(input core.SignUpInput) error {
	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		return core.ErrEmailRequired
	case input.Password == "":
		return core.ErrPasswordRequired
	case strings.TrimSpace(input.FullName) == "":
		return core.ErrFullNameRequired
	}
	if err := validatePassword(input.Password); err != nil {
		return err
	}
	if !emailPattern.MatchString(email) {
		return core.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return core.ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return core.ErrPasswordTooLong
	}
	return nil
}
