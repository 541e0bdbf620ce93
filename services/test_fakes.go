package services

import (
	"context"
	"errors"
	"sync"

	"github.com/lborres/linguachat/core"
)

// ErrFakeUpstream is returned by FakeChatBridge when failure is injected
var ErrFakeUpstream = errors.New("fake chat upstream failure")

// FakeChatBridge is a test-only fake implementing core.ChatBridge.
// It records upserted identities and exposes error fields for behavior injection.
type FakeChatBridge struct {
	mu        sync.Mutex
	upserts   []core.ChatIdentity
	UpsertErr error
	TokenErr  error
}

var _ core.ChatBridge = (*FakeChatBridge)(nil)

func NewFakeChatBridge() *FakeChatBridge {
	return &FakeChatBridge{}
}

func (f *FakeChatBridge) UpsertIdentity(_ context.Context, id core.ChatIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.UpsertErr != nil {
		return f.UpsertErr
	}
	f.upserts = append(f.upserts, id)
	return nil
}

func (f *FakeChatBridge) IssueChatToken(userID string) (string, error) {
	if f.TokenErr != nil {
		return "", f.TokenErr
	}
	return "chat-token-" + userID, nil
}

// Upserts returns a copy of the identities upserted so far
func (f *FakeChatBridge) Upserts() []core.ChatIdentity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.ChatIdentity(nil), f.upserts...)
}

// FakeStorage wraps a core.Storage and exposes error fields for behavior
// injection. A nil field passes the call through.
type FakeStorage struct {
	core.Storage

	GetUserErr       error
	CreateRequestErr error
	ListRequestsErr  error
	AcceptErr        error
	// BeforeAccept runs right before AcceptFriendRequest reaches the wrapped storage
	BeforeAccept func()
}

func (f *FakeStorage) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	if f.GetUserErr != nil {
		return nil, f.GetUserErr
	}
	return f.Storage.GetUserByID(ctx, id)
}

func (f *FakeStorage) CreateFriendRequest(ctx context.Context, r *core.FriendRequest) error {
	if f.CreateRequestErr != nil {
		return f.CreateRequestErr
	}
	return f.Storage.CreateFriendRequest(ctx, r)
}

func (f *FakeStorage) ListFriendRequests(ctx context.Context, filter core.FriendRequestFilter) ([]*core.FriendRequest, error) {
	if f.ListRequestsErr != nil {
		return nil, f.ListRequestsErr
	}
	return f.Storage.ListFriendRequests(ctx, filter)
}

func (f *FakeStorage) AcceptFriendRequest(ctx context.Context, requestID string) (*core.FriendRequest, error) {
	if f.BeforeAccept != nil {
		f.BeforeAccept()
	}
	if f.AcceptErr != nil {
		return nil, f.AcceptErr
	}
	return f.Storage.AcceptFriendRequest(ctx, requestID)
}
