package debugtoken

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// Generator produces a fresh local debug token. Generation is infallible.
type Generator interface {
	GenerateLocalDebugToken() string
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() string

// GenerateLocalDebugToken calls f.
func (f GeneratorFunc) GenerateLocalDebugToken() string {
	return f()
}

// UUIDGenerator generates upper-case random UUIDs, the format the mobile SDKs
// print for local debug tokens.
type UUIDGenerator struct{}

// GenerateLocalDebugToken returns a new random UUID.
func (UUIDGenerator) GenerateLocalDebugToken() string {
	return strings.ToUpper(uuid.NewString())
}

// RandomGenerator generates base64url tokens from crypto/rand.
type RandomGenerator struct {
	// Bytes is the number of random bytes in a token (default: 32).
	Bytes int
}

// GenerateLocalDebugToken returns a new random token. If the system random
// source fails it falls back to a UUID.
func (g RandomGenerator) GenerateLocalDebugToken() string {
	n := g.Bytes
	if n <= 0 {
		n = 32
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return UUIDGenerator{}.GenerateLocalDebugToken()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
