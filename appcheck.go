package appcheck

import (
	"context"
	"errors"
	"time"

	"github.com/kacy/appcheck-provider/debugtoken"
)

// DefaultAppName is the app name used when none is configured.
const DefaultAppName = "[DEFAULT]"

// Common errors returned by the appcheck package.
var (
	ErrInvalidProviderKind        = errors.New("invalid provider kind")
	ErrUnsupportedPlatformVersion = errors.New("platform version does not support App Attest")
	ErrNotConfigured              = errors.New("app check provider not configured")
	ErrClosed                     = errors.New("app check facade is closed")
	ErrMissingLibrary             = errors.New("attestation library is required")
	ErrMissingOracle              = errors.New("platform oracle is required")
	ErrInvalidAppName             = errors.New("invalid app name")
)

// IsConfigError reports whether err is one of the errors ConfigureProvider
// returns for a bad request.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidProviderKind) || errors.Is(err, ErrUnsupportedPlatformVersion)
}

// Token is an App Check token minted by a provider.
type Token struct {
	// Value is the opaque token sent to the backend.
	Value string

	// ExpiresAt is when the backend stops accepting the token.
	ExpiresAt time.Time
}

// Provider mints App Check tokens. Providers that hold resources may also
// implement io.Closer; they are closed when replaced.
type Provider interface {
	GetToken(ctx context.Context) (*Token, error)
}

// Library is the attestation capability library that constructs the concrete
// providers. Construction is infallible; capability has already been checked
// by the time a constructor runs.
type Library interface {
	DebugProvider(debugToken string) Provider
	DeviceCheckProvider() Provider
	AppAttestProvider() Provider
}

// DebugTokenSink receives resolved debug tokens so operators can register
// them with the backend.
type DebugTokenSink interface {
	PublishDebugToken(app string, token debugtoken.Token) error
}

// Configuration is a single configuration request.
type Configuration struct {
	Kind               ProviderKind
	AutoRefreshEnabled bool

	// DebugToken is the explicit debug token. Empty means absent.
	DebugToken string
}

// ResolvedProvider is the outcome of a successful configuration.
type ResolvedProvider struct {
	// App is the app name the provider belongs to.
	App string

	// Requested is the kind passed by the caller.
	Requested ProviderKind

	// Kind is the effective kind after fallback.
	Kind ProviderKind

	// AutoRefreshEnabled mirrors the token auto refresh setting.
	AutoRefreshEnabled bool

	// DebugToken is set only when Kind is KindDebug.
	DebugToken *debugtoken.Token

	// Downgraded is true when a fallback request landed on DeviceCheck.
	Downgraded bool

	// ConfiguredAt is when the provider became active.
	ConfiguredAt time.Time

	// Provider is the constructed provider.
	Provider Provider
}
