package services

import (
	"context"
	"log/slog"

	"github.com/lborres/linguachat/core"
	"github.com/lborres/linguachat/pkg/metrics"
)

// Chat sync call sites, used as the call_site metric label
const (
	CallSiteSignup     = "signup"
	CallSiteOnboarding = "onboarding"
)

// ChatService mirrors users to the chat provider and issues chat tokens
type ChatService struct {
	bridge  core.ChatBridge
	logger  *slog.Logger
	metrics *metrics.Collectors
}

var _ core.ChatTokenProvider = (*ChatService)(nil)

func NewChatService(bridge core.ChatBridge, logger *slog.Logger, m *metrics.Collectors) *ChatService {
	return &ChatService{bridge: bridge, logger: logger, metrics: m}
}

// SyncIdentity upserts u to the chat provider. When required is false a
// failure is logged and counted, and nil is returned.
func (cs *ChatService) SyncIdentity(ctx context.Context, u *core.User, callSite string, required bool) error {
	if cs.bridge == nil {
		return nil
	}

	err := cs.bridge.UpsertIdentity(ctx, core.ChatIdentity{
		ID:    u.ID,
		Name:  u.FullName,
		Image: u.ProfilePic,
	})
	cs.metrics.ChatSync(callSite, err == nil)
	if err == nil {
		return nil
	}

	if required {
		cs.logger.Error("chat identity sync failed", "call_site", callSite, "user_id", u.ID, "error", err)
		return core.ErrChatUpstream
	}
	cs.logger.Warn("chat identity sync failed, continuing", "call_site", callSite, "user_id", u.ID, "error", err)
	return nil
}

func (cs *ChatService) ChatToken(_ context.Context, userID string) (string, error) {
	if cs.bridge == nil {
		return "", core.ErrChatUnavailable
	}
	token, err := cs.bridge.IssueChatToken(userID)
	if err != nil {
		cs.logger.Error("chat token issue failed", "user_id", userID, "error", err)
		return "", core.ErrChatUpstream
	}
	return token, nil
}
