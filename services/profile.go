package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lborres/linguachat/core"
)

type ProfileService struct {
	users  core.UserStorage
	chat   *ChatService
	policy core.ChatSyncPolicy
}

var _ core.ProfileProvider = (*ProfileService)(nil)

func NewProfileService(users core.UserStorage, chat *ChatService, policy core.ChatSyncPolicy) *ProfileService {
	return &ProfileService{users: users, chat: chat, policy: policy}
}

// Onboard writes the profile fields and marks the user onboarded
func (s *ProfileService) Onboard(ctx context.Context, userID string, input core.OnboardInput) (*core.User, error) {
	if missing := missingOnboardFields(input); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", core.ErrProfileIncomplete, strings.Join(missing, ", "))
	}

	user, err := s.users.UpdateProfile(ctx, userID, core.ProfileUpdate{
		FullName:         strings.TrimSpace(input.FullName),
		Bio:              strings.TrimSpace(input.Bio),
		NativeLanguage:   strings.TrimSpace(input.NativeLanguage),
		LearningLanguage: strings.TrimSpace(input.LearningLanguage),
		Location:         strings.TrimSpace(input.Location),
		ProfilePic:       strings.TrimSpace(input.ProfilePic),
	})
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := s.chat.SyncIdentity(ctx, user, CallSiteOnboarding, s.policy.RequiredOnOnboarding); err != nil {
		return nil, err
	}
	return user, nil
}

// Recommend lists onboarded users other than the caller and the caller's friends
func (s *ProfileService) Recommend(ctx context.Context, userID string) ([]*core.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	exclude := append([]string{userID}, user.Friends...)
	users, err := s.users.ListOnboardedUsers(ctx, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func missingOnboardFields(input core.OnboardInput) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", input.FullName},
		{"bio", input.Bio},
		{"nativeLanguage", input.NativeLanguage},
		{"learningLanguage", input.LearningLanguage},
		{"location", input.Location},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
