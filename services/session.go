package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lborres/linguachat/core"
	"github.com/lborres/linguachat/pkg/crypto"
)

// SessionClaims is the signed payload of a session token
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens
type TokenService struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, config core.SessionConfig) *TokenService {
	maxAge := config.MaxAge
	if maxAge <= 0 {
		maxAge = core.DefaultSessionMaxAge
	}
	return &TokenService{secret: []byte(secret), maxAge: maxAge, now: time.Now}
}

// Issue signs a token for userID valid for the configured max age
func (ts *TokenService) Issue(userID string) (string, time.Time, error) {
	now := ts.now()
	expiresAt := now.Add(ts.maxAge)

	token, err := crypto.SignHS256(SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}, ts.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify returns the user id bound to token. Malformed, tampered and expired
// tokens all fail with core.ErrInvalidToken.
func (ts *TokenService) Verify(token string) (string, error) {
	if token == "" {
		return "", core.ErrInvalidToken
	}

	var claims SessionClaims
	err := crypto.ParseHS256(token, &claims, ts.secret,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil || claims.UserID == "" {
		return "", core.ErrInvalidToken
	}
	return claims.UserID, nil
}
