package core

import (
	"log/slog"

	"github.com/lborres/linguachat/pkg/crypto"
	"github.com/lborres/linguachat/pkg/metrics"
)

type Config struct {
	Secret string

	Storage Storage

	HTTP HTTPAdapter

	// Optional config
	ChatBridge     ChatBridge
	ChatSync       *ChatSyncPolicy
	SessionConfig  *SessionConfig
	PasswordHasher crypto.PasswordHandler
	Logger         *slog.Logger
	Metrics        *metrics.Collectors
	BasePath       string
}

// App is the assembled backend handed to the HTTP adapter
type App struct {
	Auth     AuthProvider
	Profiles ProfileProvider
	Friends  FriendGraph
	Chat     ChatTokenProvider

	Session  SessionConfig
	BasePath string
	Logger   *slog.Logger
	Metrics  *metrics.Collectors
}
