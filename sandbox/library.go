// Package sandbox provides an in-process attestation library for development
// and tests.
//
// Sandbox providers do not talk to Apple or to an App Check backend. They
// mint short-lived tokens whose claims are CBOR encoded and base64url
// wrapped, so the selected provider kind can be inspected end to end.
// Never use the sandbox in production.
package sandbox

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	appcheck "github.com/kacy/appcheck-provider"
)

// Config holds configuration for the sandbox library.
type Config struct {
	// TTL is how long minted tokens remain valid (default: 1 hour).
	TTL time.Duration

	// Clock returns the current time (default: time.Now).
	Clock func() time.Time
}

// Claims are the contents of a sandbox token.
type Claims struct {
	// Kind is the provider kind that minted the token.
	Kind appcheck.ProviderKind `cbor:"kind" json:"kind"`

	// Subject is the hex SHA-256 of the debug token for debug providers and
	// a per-provider device identifier otherwise.
	Subject string `cbor:"sub" json:"sub"`

	IssuedAt  int64  `cbor:"iat" json:"iat"`
	ExpiresAt int64  `cbor:"exp" json:"exp"`
	ID        string `cbor:"jti" json:"jti"`
}

// Errors returned by Decode.
var (
	ErrMalformedToken = errors.New("malformed sandbox token")
	ErrProviderClosed = errors.New("sandbox provider closed")
)

// Library is an appcheck.Library minting sandbox tokens.
type Library struct {
	ttl   time.Duration
	clock func() time.Time
}

var _ appcheck.Library = (*Library)(nil)

// NewLibrary creates a sandbox library.
func NewLibrary(cfg Config) *Library {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = time.Hour
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Library{ttl: ttl, clock: clock}
}

// DebugProvider returns a provider whose tokens are bound to debugToken.
func (l *Library) DebugProvider(debugToken string) appcheck.Provider {
	return l.newProvider(appcheck.KindDebug, DebugSubject(debugToken))
}

// DeviceCheckProvider returns a DeviceCheck provider.
func (l *Library) DeviceCheckProvider() appcheck.Provider {
	return l.newProvider(appcheck.KindDeviceCheck, uuid.NewString())
}

// AppAttestProvider returns an App Attest provider.
func (l *Library) AppAttestProvider() appcheck.Provider {
	return l.newProvider(appcheck.KindAppAttest, uuid.NewString())
}

func (l *Library) newProvider(kind appcheck.ProviderKind, subject string) *Provider {
	return &Provider{
		kind:    kind,
		subject: subject,
		ttl:     l.ttl,
		clock:   l.clock,
	}
}

// Provider mints sandbox tokens for one provider kind.
type Provider struct {
	kind    appcheck.ProviderKind
	subject string
	ttl     time.Duration
	clock   func() time.Time

	mu     sync.Mutex
	closed bool
}

// Kind returns the provider kind.
func (p *Provider) Kind() appcheck.ProviderKind {
	return p.kind
}

// GetToken mints a new token.
func (p *Provider) GetToken(ctx context.Context) (*appcheck.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrProviderClosed
	}

	now := p.clock()
	expires := now.Add(p.ttl)

	claims := Claims{
		Kind:      p.kind,
		Subject:   p.subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: expires.Unix(),
		ID:        uuid.NewString(),
	}

	data, err := cbor.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sandbox token: %w", err)
	}

	return &appcheck.Token{
		Value:     base64.RawURLEncoding.EncodeToString(data),
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}

// Close stops the provider from minting further tokens.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Decode parses a sandbox token value.
func Decode(value string) (*Claims, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var claims Claims
	if err := cbor.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !claims.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedToken, string(claims.Kind))
	}
	return &claims, nil
}

// DebugSubject returns the subject a debug provider uses for debugToken.
func DebugSubject(debugToken string) string {
	sum := sha256.Sum256([]byte(debugToken))
	return hex.EncodeToString(sum[:])
}
