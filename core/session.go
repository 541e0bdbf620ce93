package core

import "time"

const (
	DefaultSessionMaxAge     = 7 * 24 * time.Hour
	DefaultSessionCookieName = "token"
)

// SessionConfig controls token lifetime and the cookie that carries it.
// The cookie is always HTTP-only and SameSite=Strict.
type SessionConfig struct {
	MaxAge     time.Duration
	CookieName string
	Secure     bool
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge:     DefaultSessionMaxAge,
		CookieName: DefaultSessionCookieName,
	}
}
