// Package stream mirrors users to Stream Chat and mints client tokens,
// backed by the official stream-chat-go SDK.
package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	streamchat "github.com/GetStream/stream-chat-go/v6"

	"github.com/lborres/linguachat"
	"github.com/lborres/linguachat/core"
)

const (
	DefaultBaseURL = "https://chat.stream-io-api.com"
	defaultTimeout = 10 * time.Second
)

var (
	ErrMissingCredentials = errors.New("stream api key and secret are required")
	ErrMissingUserID      = errors.New("user id is required")
)

type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	// HTTPClient defaults to a client with a 10s timeout
	HTTPClient *http.Client
}

type Client struct {
	sdk *streamchat.Client
}

var _ linguachat.ChatBridge = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}

	sdk, err := streamchat.NewClient(cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create stream client: %w", err)
	}

	sdk.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if sdk.BaseURL == "" {
		sdk.BaseURL = DefaultBaseURL
	}
	sdk.HTTP = cfg.HTTPClient
	if sdk.HTTP == nil {
		sdk.HTTP = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{sdk: sdk}, nil
}

// UpsertIdentity creates or replaces the chat user with id's fields
func (c *Client) UpsertIdentity(ctx context.Context, id core.ChatIdentity) error {
	if id.ID == "" {
		return ErrMissingUserID
	}

	_, err := c.sdk.UpsertUser(ctx, &streamchat.User{
		ID:    id.ID,
		Name:  id.Name,
		Image: id.Image,
	})
	if err != nil {
		return fmt.Errorf("upsert chat user: %w", err)
	}
	return nil
}

// IssueChatToken signs a client token for userID. It never expires, as with
// the provider's other SDKs.
func (c *Client) IssueChatToken(userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}
	token, err := c.sdk.CreateToken(userID, time.Time{})
	if err != nil {
		return "", fmt.Errorf("create chat token: %w", err)
	}
	return token, nil
}
