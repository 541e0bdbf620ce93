package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lborres/linguachat/core"
	"github.com/lborres/linguachat/pkg/crypto"
)

// CredentialStore owns user identities and their hashed secrets
type CredentialStore struct {
	db     core.UserStorage
	hasher crypto.PasswordHandler
}

func NewCredentialStore(db core.UserStorage, hasher crypto.PasswordHandler) *CredentialStore {
	return &CredentialStore{db: db, hasher: hasher}
}

// CreateUser hashes rawSecret and stores a new user. Returns core.ErrEmailTaken
// if the email is already registered.
func (cs *CredentialStore) CreateUser(ctx context.Context, email, rawSecret, fullName, profilePic string) (*core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := cs.db.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, core.ErrEmailTaken
	}

	hash, err := cs.hasher.Hash(rawSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		ProfilePic:   profilePic,
		Friends:      []string{},
	}
	if err := cs.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (cs *CredentialStore) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	return cs.db.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// VerifySecret reports whether rawSecret matches the user's stored hash
func (cs *CredentialStore) VerifySecret(user *core.User, rawSecret string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	ok, err := cs.hasher.Verify(rawSecret, user.PasswordHash)
	return err == nil && ok
}

// ResetSecret replaces the user's secret with the hash of rawSecret
func (cs *CredentialStore) ResetSecret(ctx context.Context, userID, rawSecret string) error {
	hash, err := cs.hasher.Hash(rawSecret)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := cs.db.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
