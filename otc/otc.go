// Package otc issues and redeems the 6 digit codes used for password resets and
// for confirming a new admin's email.
package otc

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

type Purpose string

const (
	PurposeReset  Purpose = "reset"
	PurposeInvite Purpose = "invite"
)

var ErrInvalidCode = errors.New("invalid or expired verification code")

// MaxAttempts is how many wrong guesses a code survives. The code is dropped on
// the last one and a new one has to be issued.
const MaxAttempts = 5

type Store interface {
	// Issue creates a new code for email, replacing any earlier one.
	Issue(ctx context.Context, p Purpose, email string) (string, error)
	// Redeem consumes the code. A wrong code counts as an attempt; after
	// MaxAttempts misses the stored code is invalidated.
	Redeem(ctx context.Context, p Purpose, email, code string) error
	Close() error
}

func key(p Purpose, email string) string {
	return fmt.Sprintf("otc:%s:%s", p, strings.ToLower(strings.TrimSpace(email)))
}

func triesKey(p Purpose, email string) string {
	return key(p, email) + ":tries"
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func sameCode(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
