// Package linguachat assembles the backend of a language-exchange chat app:
// accounts and sessions, onboarding, recommendations and the friend-request
// workflow that gates chat.
package linguachat

import (
	"fmt"
	"strings"

	"github.com/lborres/linguachat/core"
	"github.com/lborres/linguachat/pkg/crypto"
	"github.com/lborres/linguachat/pkg/logging"
	"github.com/lborres/linguachat/services"
)

// interfaces
type (
	Storage     = core.Storage
	HTTPAdapter = core.HTTPAdapter
	ChatBridge  = core.ChatBridge

	AuthProvider      = core.AuthProvider
	ProfileProvider   = core.ProfileProvider
	FriendGraph       = core.FriendGraph
	ChatTokenProvider = core.ChatTokenProvider

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	App            = core.App
	Config         = core.Config
	SessionConfig  = core.SessionConfig
	ChatSyncPolicy = core.ChatSyncPolicy
	RequestContext = core.RequestContext
	Endpoint       = core.Endpoint
	ErrorResponse  = core.ErrorResponse
)

type (
	User              = core.User
	PublicProfile     = core.PublicProfile
	FriendRequest     = core.FriendRequest
	FriendRequestView = core.FriendRequestView
	AuthContext       = core.AuthContext
	SignUpInput       = core.SignUpInput
	SignInInput       = core.SignInInput
	OnboardInput      = core.OnboardInput

	ChangePasswordInput = core.ChangePasswordInput
)

const (
	defaultBasePath  = "/api"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2             = crypto.NewArgon2
	NewBcrypt             = crypto.NewBcrypt
	DefaultSessionConfig  = core.DefaultSessionConfig
	DefaultChatSyncPolicy = core.DefaultChatSyncPolicy
)

var (
	ErrValidation   = core.ErrValidation
	ErrConflict     = core.ErrConflict
	ErrUnauthorized = core.ErrUnauthorized
	ErrForbidden    = core.ErrForbidden
	ErrNotFound     = core.ErrNotFound
	ErrUpstream     = core.ErrUpstream
)

var (
	ErrStorageRequired     = core.ErrStorageRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

func New(config Config) (*App, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	sessionConfig := DefaultSessionConfig()
	if config.SessionConfig != nil {
		sessionConfig = *config.SessionConfig
		if sessionConfig.MaxAge <= 0 {
			sessionConfig.MaxAge = core.DefaultSessionMaxAge
		}
		if sessionConfig.CookieName == "" {
			sessionConfig.CookieName = core.DefaultSessionCookieName
		}
	}

	chatSync := DefaultChatSyncPolicy()
	if config.ChatSync != nil {
		chatSync = *config.ChatSync
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewBcrypt()
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	basePath := strings.TrimSuffix(config.BasePath, "/")
	if basePath == "" {
		basePath = defaultBasePath
	}

	tokens := services.NewTokenService(config.Secret, sessionConfig)
	credentials := services.NewCredentialStore(config.Storage, passwordHasher)
	chat := services.NewChatService(config.ChatBridge, logger, config.Metrics)

	app := &App{
		Auth:     services.NewAuthService(credentials, tokens, config.Storage, chat, chatSync),
		Profiles: services.NewProfileService(config.Storage, chat, chatSync),
		Friends:  services.NewFriendService(config.Storage, logger, config.Metrics),
		Chat:     chat,
		Session:  sessionConfig,
		BasePath: basePath,
		Logger:   logger,
		Metrics:  config.Metrics,
	}

	if err := config.HTTP.RegisterRoutes(app); err != nil {
		return nil, err
	}

	return app, nil
}
