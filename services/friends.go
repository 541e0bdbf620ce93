package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lborres/linguachat/core"
	"github.com/lborres/linguachat/pkg/metrics"
)

// FriendService runs the friend-request lifecycle. It is the only writer of
// friendships, which it materializes through core.FriendshipStorage.
type FriendService struct {
	db      core.Storage
	logger  *slog.Logger
	metrics *metrics.Collectors
}

var _ core.FriendGraph = (*FriendService)(nil)

func NewFriendService(db core.Storage, logger *slog.Logger, m *metrics.Collectors) *FriendService {
	return &FriendService{db: db, logger: logger, metrics: m}
}

// SendRequest creates a pending request from senderID to recipientID
func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID string) (*core.FriendRequest, error) {
	req, err := s.sendRequest(ctx, senderID, recipientID)
	s.metrics.FriendRequest("send", outcomeLabel(err))
	return req, err
}

func (s *FriendService) sendRequest(ctx context.Context, senderID, recipientID string) (*core.FriendRequest, error) {
	// Step 1: No self requests
	if senderID == recipientID {
		return nil, core.ErrSelfRequest
	}

	// Step 2: Both parties must exist
	recipient, err := s.db.GetUserByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}
	sender, err := s.db.GetUserByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}

	// Step 3: Not already linked in either direction
	if sender.HasFriend(recipientID) || recipient.HasFriend(senderID) {
		return nil, core.ErrAlreadyFriends
	}

	// Step 4: No pending request in either direction
	_, err = s.db.FindPendingRequestBetween(ctx, senderID, recipientID)
	switch {
	case err == nil:
		return nil, core.ErrDuplicateRequest
	case !errors.Is(err, core.ErrFriendRequestNotFound):
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}

	// Step 5: Create
	req := &core.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      core.FriendRequestPending,
	}
	if err := s.db.CreateFriendRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	return req, nil
}

// AcceptRequest accepts requestID on behalf of actingUserID, who must be its recipient
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, actingUserID string) (*core.FriendRequest, error) {
	req, err := s.acceptRequest(ctx, requestID, actingUserID)
	s.metrics.FriendRequest("accept", outcomeLabel(err))
	return req, err
}

func (s *FriendService) acceptRequest(ctx context.Context, requestID, actingUserID string) (*core.FriendRequest, error) {
	req, err := s.db.GetFriendRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, core.ErrFriendRequestNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load friend request: %w", err)
	}

	if req.RecipientID != actingUserID {
		return nil, core.ErrNotRequestRecipient
	}
	if req.Status == core.FriendRequestAccepted {
		return nil, core.ErrFriendRequestAccepted
	}

	accepted, err := s.db.AcceptFriendRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, core.ErrFriendRequestAccepted) || errors.Is(err, core.ErrFriendRequestNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	s.logger.Debug("friend request accepted", "request_id", accepted.ID,
		"sender_id", accepted.SenderID, "recipient_id", accepted.RecipientID)
	return accepted, nil
}

// ListIncoming returns pending requests addressed to userID with sender profiles
func (s *FriendService) ListIncoming(ctx context.Context, userID string) ([]*core.FriendRequestView, error) {
	return s.list(ctx, core.FriendRequestFilter{RecipientID: userID, Status: core.FriendRequestPending}, viewSender, true)
}

// ListOutgoing returns pending requests sent by userID with recipient profiles
func (s *FriendService) ListOutgoing(ctx context.Context, userID string) ([]*core.FriendRequestView, error) {
	return s.list(ctx, core.FriendRequestFilter{SenderID: userID, Status: core.FriendRequestPending}, viewRecipient, true)
}

// ListAcceptedIncoming returns accepted requests addressed to userID with the
// sender's name and picture only
func (s *FriendService) ListAcceptedIncoming(ctx context.Context, userID string) ([]*core.FriendRequestView, error) {
	return s.list(ctx, core.FriendRequestFilter{RecipientID: userID, Status: core.FriendRequestAccepted}, viewSender, false)
}

// Friends returns the public profiles of userID's friends
func (s *FriendService) Friends(ctx context.Context, userID string) ([]*core.PublicProfile, error) {
	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	friends, err := s.db.ListUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}

	out := make([]*core.PublicProfile, 0, len(friends))
	for _, f := range friends {
		out = append(out, core.ProfileOf(f, true))
	}
	return out, nil
}

type viewSide int

const (
	viewSender viewSide = iota
	viewRecipient
)

func (s *FriendService) list(ctx context.Context, f core.FriendRequestFilter, side viewSide, withLanguages bool) ([]*core.FriendRequestView, error) {
	reqs, err := s.db.ListFriendRequests(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}

	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if side == viewSender {
			ids = append(ids, r.SenderID)
		} else {
			ids = append(ids, r.RecipientID)
		}
	}
	users, err := s.db.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load request counterparts: %w", err)
	}
	byID := make(map[string]*core.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]*core.FriendRequestView, 0, len(reqs))
	for _, r := range reqs {
		v := &core.FriendRequestView{
			ID:        r.ID,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		if side == viewSender {
			if u, ok := byID[r.SenderID]; ok {
				v.Sender = core.ProfileOf(u, withLanguages)
			}
		} else {
			if u, ok := byID[r.RecipientID]; ok {
				v.Recipient = core.ProfileOf(u, withLanguages)
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// outcomeLabel is the metric outcome for err
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return core.ReasonOf(err)
}
