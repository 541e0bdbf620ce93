package crypto

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySigningKey = errors.New("signing key cannot be empty")
)

// SignHS256 signs claims with key using HMAC-SHA256
func SignHS256(claims jwt.Claims, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptySigningKey
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseHS256 verifies tokenString against key and decodes it into claims.
// Tokens signed with any other algorithm are rejected.
func ParseHS256(tokenString string, claims jwt.Claims, key []byte, opts ...jwt.ParserOption) error {
	if len(key) == 0 {
		return ErrEmptySigningKey
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, opts...)
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenSignatureInvalid
	}
	return nil
}
