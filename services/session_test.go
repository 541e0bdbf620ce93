package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lborres/linguachat/core"
	"github.com/lborres/linguachat/pkg/crypto"
)

const testSecret = "test-secret-that-is-32-chars-xx!"

func newTestTokenService(now time.Time) *TokenService {
	ts := NewTokenService(testSecret, core.DefaultSessionConfig())
	ts.now = func() time.Time { return now }
	return ts
}

// Requirement: a token issued for u verifies to u before its expiry.
func TestTokenService_IssueVerify(t *testing.T) {
	// Arrange
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ts := newTestTokenService(now)

	// Act
	token, expiresAt, err := ts.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	userID, err := ts.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Verify() = %q, want %q", userID, "user-1")
	}
	if want := now.Add(7 * 24 * time.Hour); !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, want)
	}
}

// Requirement: verification fails once the token has expired.
func TestTokenService_Verify_Expiry(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{name: "just issued", elapsed: 0, wantErr: false},
		{name: "six days later", elapsed: 6 * 24 * time.Hour, wantErr: false},
		{name: "eight days later", elapsed: 8 * 24 * time.Hour, wantErr: true},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			ts := newTestTokenService(issuedAt)
			token, _, _ := ts.Issue("user-1")
			ts.now = func() time.Time { return issuedAt.Add(test.elapsed) }

			// Act
			_, err := ts.Verify(token)

			// Assert
			if (err != nil) != test.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, test.wantErr)
			}
			if test.wantErr && !errors.Is(err, core.ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

// Requirement: a tampered signature, a foreign secret or garbage input all
// collapse to ErrInvalidToken.
func TestTokenService_Verify_Rejects(t *testing.T) {
	now := time.Now()
	ts := newTestTokenService(now)
	token, _, _ := ts.Issue("user-1")

	other := NewTokenService("another-secret-that-is-32-chars!", core.DefaultSessionConfig())
	foreign, _, _ := other.Issue("user-1")

	noUser, _ := crypto.SignHS256(SessionClaims{}, []byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{name: "tampered signature", token: flipSignatureBit(token)},
		{name: "tampered payload", token: tamperPayload(token)},
		{name: "signed with another secret", token: foreign},
		{name: "missing user id and expiry", token: noUser},
		{name: "garbage", token: "abc.def.ghi"},
		{name: "empty", token: ""},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			_, err := ts.Verify(test.token)
			if !errors.Is(err, core.ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

// flipSignatureBit changes one bit of a character in the middle of the
// signature segment, so the decoded signature always differs
func flipSignatureBit(token string) string {
	dot := strings.LastIndex(token, ".")
	b := []byte(token)
	i := dot + 1 + (len(token)-dot-1)/2
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func tamperPayload(token string) string {
	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	return strings.Join(parts, ".")
}
