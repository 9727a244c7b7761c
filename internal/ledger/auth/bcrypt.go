package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gobank/internal/pkg/pkgerror"
	"golang.org/x/crypto/bcrypt"
)

// Verifier checks the banking official's secret.
type Verifier interface {
	Verify(ctx context.Context, secret string) error
}

var errIncorrect = pkgerror.NewUnauthorized("Incorrect password.")

type Bcrypt struct {
	hash []byte
}

// NewBcrypt builds a verifier from a stored bcrypt hash.
func NewBcrypt(hash string) (*Bcrypt, error) {
	if hash == "" {
		return nil, errors.New("empty password hash")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}

	return &Bcrypt{hash: []byte(hash)}, nil
}

// NewBcryptFromPlaintext hashes password once at startup. Used only when no
// hash is configured.
func NewBcryptFromPlaintext(password string, cost int) (*Bcrypt, error) {
	if password == "" {
		return nil, errors.New("empty password")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	return &Bcrypt{hash: hash}, nil
}

func (b *Bcrypt) Verify(ctx context.Context, secret string) error {
	err := bcrypt.CompareHashAndPassword(b.hash, []byte(secret))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		slog.WarnContext(ctx, "official login rejected")
		return errIncorrect
	}

	return pkgerror.NewServer(err)
}

// New picks the configured credential. hash wins over plaintext.
func New(hash, plaintext string) (*Bcrypt, error) {
	if hash != "" {
		return NewBcrypt(hash)
	}

	slog.Warn("official password configured in plaintext, set auth.official.password_hash instead")
	return NewBcryptFromPlaintext(plaintext, bcrypt.DefaultCost)
}
