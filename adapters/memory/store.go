// Package memory is a process-local core.Storage used for development and
// tests. Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lborres/linguachat/core"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*core.User
	byEmail  map[string]string
	requests map[string]*core.FriendRequest
	now      func() time.Time
}

var _ core.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[string]*core.User),
		byEmail:  make(map[string]string),
		requests: make(map[string]*core.FriendRequest),
		now:      time.Now,
	}
}

func (s *Store) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(u.Email)
	if _, exists := s.byEmail[email]; exists {
		return core.ErrEmailTaken
	}

	now := s.now()
	u.ID = uuid.NewString()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Friends == nil {
		u.Friends = []string{}
	}

	s.users[u.ID] = copyUser(u)
	s.byEmail[email] = u.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return copyUser(s.users[id]), nil
}

// ListUsersByIDs skips ids with no user, preserving the order of ids
func (s *Store) ListUsersByIDs(_ context.Context, ids []string) ([]*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (s *Store) ListOnboardedUsers(_ context.Context, excludeIDs []string) ([]*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	out := make([]*core.User, 0)
	for id, u := range s.users {
		if _, skip := excluded[id]; skip || !u.IsOnboarded {
			continue
		}
		out = append(out, copyUser(u))
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) UpdateProfile(_ context.Context, id string, p core.ProfileUpdate) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}

	u.FullName = p.FullName
	u.Bio = p.Bio
	u.NativeLanguage = p.NativeLanguage
	u.LearningLanguage = p.LearningLanguage
	u.Location = p.Location
	if p.ProfilePic != "" {
		u.ProfilePic = p.ProfilePic
	}
	u.IsOnboarded = true
	u.UpdatedAt = s.now()

	return copyUser(u), nil
}

func (s *Store) UpdatePasswordHash(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.now()
	return nil
}

func (s *Store) CreateFriendRequest(_ context.Context, r *core.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	r.ID = uuid.NewString()
	if r.Status == "" {
		r.Status = core.FriendRequestPending
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	cp := *r
	s.requests[r.ID] = &cp
	return nil
}

func (s *Store) GetFriendRequest(_ context.Context, id string) (*core.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, core.ErrFriendRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) FindPendingRequestBetween(_ context.Context, a, b string) (*core.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.requests {
		if r.Status != core.FriendRequestPending {
			continue
		}
		if (r.SenderID == a && r.RecipientID == b) || (r.SenderID == b && r.RecipientID == a) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, core.ErrFriendRequestNotFound
}

func (s *Store) ListFriendRequests(_ context.Context, f core.FriendRequestFilter) ([]*core.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.FriendRequest, 0)
	for _, r := range s.requests {
		if f.SenderID != "" && r.SenderID != f.SenderID {
			continue
		}
		if f.RecipientID != "" && r.RecipientID != f.RecipientID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AcceptFriendRequest flips the request and links both users under the write lock
func (s *Store) AcceptFriendRequest(_ context.Context, requestID string) (*core.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[requestID]
	if !ok {
		return nil, core.ErrFriendRequestNotFound
	}
	if r.Status != core.FriendRequestPending {
		return nil, core.ErrFriendRequestAccepted
	}

	sender, ok := s.users[r.SenderID]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	recipient, ok := s.users[r.RecipientID]
	if !ok {
		return nil, core.ErrUserNotFound
	}

	now := s.now()
	r.Status = core.FriendRequestAccepted
	r.UpdatedAt = now

	sender.Friends = addToSet(sender.Friends, recipient.ID)
	recipient.Friends = addToSet(recipient.Friends, sender.ID)
	sender.UpdatedAt = now
	recipient.UpdatedAt = now

	cp := *r
	return &cp, nil
}

func addToSet(set []string, id string) []string {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func copyUser(u *core.User) *core.User {
	cp := *u
	cp.Friends = append([]string{}, u.Friends...)
	return &cp
}

func sortUsers(users []*core.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
}
