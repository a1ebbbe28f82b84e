package appcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/kacy/appcheck-provider/debugtoken"
	"github.com/kacy/appcheck-provider/platform"
)

// Config holds configuration for a Facade.
type Config struct {
	// App is the app name the facade serves (default: DefaultAppName).
	App string

	// Library constructs the concrete providers (required).
	Library Library

	// Oracle answers platform capability questions (required).
	Oracle platform.Oracle

	// Environment is the debug token environment channel.
	// Default: debugtoken.EnvReader for debugtoken.DefaultEnvVar.
	// Use an empty debugtoken.Chain to disable the environment tier.
	Environment debugtoken.Reader

	// Generator produces local debug tokens (default: debugtoken.UUIDGenerator).
	Generator debugtoken.Generator

	// Sinks receive every resolved debug token in addition to the log.
	Sinks []DebugTokenSink

	// Logger is the operator-visible output channel (default: slog.Default()).
	Logger *slog.Logger

	// Clock returns the current time (default: time.Now).
	Clock func() time.Time

	// RefreshWindow is how long before expiry a cached token is refreshed
	// when auto refresh is enabled (default: 5 minutes).
	RefreshWindow time.Duration
}

// Facade is the single entry point for configuring the App Check provider of
// one app. It holds at most one active provider; every successful
// ConfigureProvider call replaces it wholesale.
//
// A Facade is safe for concurrent use.
type Facade struct {
	app           string
	policy        *FallbackPolicy
	registry      *Registry
	resolver      *debugtoken.Resolver
	sinks         []DebugTokenSink
	log           *slog.Logger
	now           func() time.Time
	refreshWindow time.Duration

	mu     sync.Mutex
	closed atomic.Bool
	active atomic.Pointer[handle]
}

// handle is the active provider. It is never modified after being stored.
type handle struct {
	resolved ResolvedProvider
	cache    *tokenCache
}

// New creates a new Facade.
//
// Example:
//
//	facade, err := appcheck.New(appcheck.Config{
//	    Library: lib,
//	    Oracle:  platform.Static(true),
//	})
func New(cfg Config) (*Facade, error) {
	if cfg.Library == nil {
		return nil, ErrMissingLibrary
	}
	if cfg.Oracle == nil {
		return nil, ErrMissingOracle
	}

	app := cfg.App
	if app == "" {
		app = DefaultAppName
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("app", app)

	env := cfg.Environment
	if env == nil {
		env = debugtoken.EnvReader{}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	window := cfg.RefreshWindow
	if window == 0 {
		window = 5 * time.Minute
	}

	return &Facade{
		app:           app,
		policy:        NewFallbackPolicy(cfg.Oracle, log),
		registry:      NewRegistry(cfg.Library),
		resolver:      debugtoken.NewResolver(env, cfg.Generator),
		sinks:         cfg.Sinks,
		log:           log,
		now:           clock,
		refreshWindow: window,
	}, nil
}

// App returns the app name the facade serves.
func (f *Facade) App() string {
	return f.app
}

// ConfigureProvider resolves kindID into a provider and makes it the active
// one. The last successful call always wins. On error the previously active
// provider is left untouched.
//
// When the effective kind is debug, the resolved debug token is logged and
// handed to every configured sink so it can be registered with the backend.
func (f *Facade) ConfigureProvider(kindID string, autoRefreshEnabled bool, debugToken string) (*ResolvedProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed.Load() {
		return nil, ErrClosed
	}

	kind, err := ParseProviderKind(kindID)
	if err != nil {
		return nil, err
	}

	effective, err := f.policy.Resolve(kind)
	if err != nil {
		return nil, err
	}

	cfg := Configuration{
		Kind:               kind,
		AutoRefreshEnabled: autoRefreshEnabled,
		DebugToken:         debugToken,
	}

	var token *debugtoken.Token
	if effective == KindDebug {
		t := f.resolver.Resolve(cfg.DebugToken)
		token = &t
	}

	resolved, err := f.registry.Build(effective, cfg, token)
	if err != nil {
		return nil, err
	}
	resolved.App = f.app
	resolved.ConfiguredAt = f.now()

	next := &handle{resolved: *resolved, cache: &tokenCache{}}
	prev := f.active.Swap(next)
	f.release(prev)

	f.log.Info("app check provider configured",
		"requested", kind,
		"effective", effective,
		"auto_refresh", autoRefreshEnabled,
	)
	if token != nil {
		f.announce(*token)
	}

	return next.snapshot(), nil
}

// Active returns a snapshot of the active provider.
func (f *Facade) Active() (*ResolvedProvider, bool) {
	h := f.active.Load()
	if h == nil {
		return nil, false
	}
	return h.snapshot(), true
}

// GetToken returns an App Check token from the active provider. A cached
// token is returned unless forceRefresh is set or the token is stale.
func (f *Facade) GetToken(ctx context.Context, forceRefresh bool) (*Token, error) {
	h := f.active.Load()
	if h == nil {
		if f.closed.Load() {
			return nil, ErrClosed
		}
		return nil, ErrNotConfigured
	}

	return h.cache.get(ctx, h.resolved.Provider, tokenPolicy{
		force:       forceRefresh,
		autoRefresh: h.resolved.AutoRefreshEnabled,
		window:      f.refreshWindow,
		now:         f.now(),
	})
}

// SetTokenAutoRefreshEnabled changes the auto refresh setting of the active
// provider. The provider and its cached token are kept.
func (f *Facade) SetTokenAutoRefreshEnabled(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed.Load() {
		return ErrClosed
	}

	h := f.active.Load()
	if h == nil {
		return ErrNotConfigured
	}

	next := &handle{resolved: h.resolved, cache: h.cache}
	next.resolved.AutoRefreshEnabled = enabled
	f.active.Store(next)

	f.log.Debug("app check token auto refresh changed", "auto_refresh", enabled)
	return nil
}

// Close drops the active provider. Further configuration fails with ErrClosed.
func (f *Facade) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed.Load() {
		return nil
	}
	f.closed.Store(true)

	f.release(f.active.Swap(nil))
	return nil
}

func (f *Facade) release(h *handle) {
	if h == nil {
		return
	}
	closer, ok := h.resolved.Provider.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		f.log.Warn("failed to close replaced provider", "kind", h.resolved.Kind, "error", err)
	}
}

func (f *Facade) announce(token debugtoken.Token) {
	f.log.Info("app check debug token",
		"token", token.Value,
		"source", token.Source.String(),
	)
	if token.Source == debugtoken.SourceGenerated {
		f.log.Info("register the generated debug token with the App Check backend before use")
	}

	for _, sink := range f.sinks {
		if err := sink.PublishDebugToken(f.app, token); err != nil {
			f.log.Warn("failed to publish debug token", "error", err)
		}
	}
}

func (h *handle) snapshot() *ResolvedProvider {
	out := h.resolved
	if h.resolved.DebugToken != nil {
		token := *h.resolved.DebugToken
		out.DebugToken = &token
	}
	return &out
}

type tokenPolicy struct {
	force       bool
	autoRefresh bool
	window      time.Duration
	now         time.Time
}

// tokenCache holds the last token minted by one provider.
type tokenCache struct {
	mu    sync.Mutex
	token *Token
}

func (c *tokenCache) get(ctx context.Context, p Provider, policy tokenPolicy) (*Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !policy.force && c.fresh(policy) {
		cached := *c.token
		return &cached, nil
	}

	token, err := p.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get app check token: %w", err)
	}
	if token == nil {
		return nil, errors.New("failed to get app check token: provider returned no token")
	}

	stored := *token
	c.token = &stored

	out := stored
	return &out, nil
}

func (c *tokenCache) fresh(policy tokenPolicy) bool {
	if c.token == nil || c.token.ExpiresAt.IsZero() {
		return false
	}

	deadline := c.token.ExpiresAt
	if policy.autoRefresh {
		deadline = deadline.Add(-policy.window)
	}
	return policy.now.Before(deadline)
}
