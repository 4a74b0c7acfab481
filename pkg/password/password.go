package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	EncodingBcrypt = "bcrypt"
	EncodingNoop   = "noop"
)

// Verifier compares a plaintext secret with a stored hash.
type Verifier interface {
	Matches(plain, hash string) bool
}

// BcryptVerifier verifies bcrypt hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Matches(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PlainVerifier compares the secret with a plaintext value in constant time.
// Only meant for fixtures and local development.
type PlainVerifier struct{}

func (PlainVerifier) Matches(plain, hash string) bool {
	a := sha256.Sum256([]byte(plain))
	b := sha256.Sum256([]byte(hash))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// DelegatingVerifier dispatches on the "{encoding}" prefix of the stored hash.
type DelegatingVerifier struct {
	verifiers map[string]Verifier
	fallback  Verifier
}

// NewDelegatingVerifier returns a verifier that understands {bcrypt} and
// {noop} prefixes and treats unprefixed hashes as bcrypt.
func NewDelegatingVerifier() *DelegatingVerifier {
	return &DelegatingVerifier{
		verifiers: map[string]Verifier{
			EncodingBcrypt: BcryptVerifier{},
			EncodingNoop:   PlainVerifier{},
		},
		fallback: BcryptVerifier{},
	}
}

func (d *DelegatingVerifier) Matches(plain, hash string) bool {
	encoding, encoded, ok := splitEncoding(hash)
	if !ok {
		return d.fallback.Matches(plain, hash)
	}
	v, found := d.verifiers[encoding]
	if !found {
		return false
	}
	return v.Matches(plain, encoded)
}

func splitEncoding(hash string) (encoding, encoded string, ok bool) {
	if !strings.HasPrefix(hash, "{") {
		return "", hash, false
	}
	end := strings.Index(hash, "}")
	if end < 0 {
		return "", hash, false
	}
	return hash[1:end], hash[end+1:], true
}

// Hash encodes plain with bcrypt at the given cost and prefixes the result.
// A cost of zero uses bcrypt.DefaultCost.
func Hash(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return "{" + EncodingBcrypt + "}" + string(hashed), nil
}
