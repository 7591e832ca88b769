package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MinAccountIDLen = 2
	MaxAccountIDLen = 64
)

var (
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// Lowercase alphanumeric parts separated by '.', each part may contain single
// '-' or '_' separators.
var accountIDPattern = regexp.MustCompile(`^(([a-z\d]+[-_])*[a-z\d]+\.)*([a-z\d]+[-_])*[a-z\d]+$`)

// AccountID is a human readable account name such as "alice.near".
type AccountID string

// ParseAccountID validates s and returns it as an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	id := AccountID(s)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks length and character rules.
func (a AccountID) Validate() error {
	if len(a) < MinAccountIDLen || len(a) > MaxAccountIDLen {
		return fmt.Errorf("%w: %q has length %d", ErrInvalidAccountID, string(a), len(a))
	}
	if !accountIDPattern.MatchString(string(a)) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountID, string(a))
	}
	return nil
}

func (a AccountID) String() string {
	return string(a)
}

// IsSubAccountOf reports whether a is a direct child of parent,
// e.g. "app.alice.near" of "alice.near".
func (a AccountID) IsSubAccountOf(parent AccountID) bool {
	prefix, ok := strings.CutSuffix(string(a), "."+string(parent))
	return ok && prefix != "" && !strings.Contains(prefix, ".")
}

// IsTopLevel reports whether a has no parent.
func (a AccountID) IsTopLevel() bool {
	return !strings.Contains(string(a), ".")
}

// PublicKey is a curve-prefixed base58 key, e.g. "ed25519:6E8s...".
type PublicKey string

var publicKeyCurves = []string{"ed25519:", "secp256k1:"}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ParsePublicKey checks the curve prefix and the key body alphabet.
func ParsePublicKey(s string) (PublicKey, error) {
	for _, curve := range publicKeyCurves {
		body, ok := strings.CutPrefix(s, curve)
		if !ok {
			continue
		}
		if body == "" || strings.Trim(body, base58Alphabet) != "" {
			return "", fmt.Errorf("%w: bad key body in %q", ErrInvalidPublicKey, s)
		}
		return PublicKey(s), nil
	}
	return "", fmt.Errorf("%w: unknown curve in %q", ErrInvalidPublicKey, s)
}
