package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnknownHasher = errors.New("unknown password hasher")

	// Verify errors shared by every hasher
	ErrMalformedHash   = errors.New("malformed password hash")
	ErrUnsupportedHash = errors.New("unsupported password hash")
)

type PasswordHandler interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// Ensure both hashers implement PasswordHandler
var (
	_ PasswordHandler = (*Argon2)(nil)
	_ PasswordHandler = (*Bcrypt)(nil)
)

// NewPasswordHandler returns the hasher registered under name ("bcrypt" or "argon2")
func NewPasswordHandler(name string) (PasswordHandler, error) {
	switch strings.ToLower(name) {
	case "", "bcrypt":
		return NewBcrypt(), nil
	case "argon2", "argon2id":
		return NewArgon2(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}

type Bcrypt struct {
	Cost int // Work factor, 2^Cost rounds
}

// NewBcrypt returns a bcrypt hasher with 10 work-factor rounds
func NewBcrypt() *Bcrypt {
	return &Bcrypt{Cost: 10}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if errors.Is(err, bcrypt.ErrHashTooShort) {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return false, fmt.Errorf("%w: %v", ErrUnsupportedHash, err)
}

// Argon2 hashes with argon2id and stores the result in PHC string format:
// $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>
type Argon2 struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32 // only used when hashing
	KeyLength   uint32
}

const argon2ID = "argon2id"

var b64 = base64.RawStdEncoding

// NewArgon2 returns the OWASP-recommended argon2id parameters
func NewArgon2() *Argon2 {
	return &Argon2{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (a *Argon2) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, a.Iterations, a.Memory, a.Parallelism, a.KeyLength)
}

func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, a.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID, argon2.Version, a.Memory, a.Iterations, a.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(a.key(password, salt))), nil
}

// Verify recomputes the key with the parameters encoded in hash, not a's
func (a *Argon2) Verify(password, hash string) (bool, error) {
	params, salt, want, err := parseArgon2(hash)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(want, params.key(password, salt)) == 1, nil
}

func parseArgon2(hash string) (*Argon2, []byte, []byte, error) {
	// leading "$" yields an empty first field
	fields := strings.Split(hash, "$")
	if len(fields) != 6 || fields[0] != "" {
		return nil, nil, nil, ErrMalformedHash
	}
	if fields[1] != argon2ID {
		return nil, nil, nil, fmt.Errorf("%w: algorithm %q", ErrUnsupportedHash, fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: version %q", ErrMalformedHash, fields[2])
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("%w: argon2 version %d", ErrUnsupportedHash, version)
	}

	params := &Argon2{}
	var threads uint32
	if n, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &threads); err != nil || n != 3 || threads == 0 || threads > 255 {
		return nil, nil, nil, fmt.Errorf("%w: parameters %q", ErrMalformedHash, fields[3])
	}
	params.Parallelism = uint8(threads)

	salt, err := b64.DecodeString(fields[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := b64.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	params.KeyLength = uint32(len(key))

	return params, salt, key, nil
}
