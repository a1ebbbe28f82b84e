// Package redis provides a Redis-backed debug token channel.
//
// A TokenStore is both a debugtoken.Reader, so a team can share one
// registered debug token across devices and CI runners, and an
// appcheck.DebugTokenSink, so resolved tokens are published where operators
// can pick them up for registration.
//
// This package requires a Redis client to be passed in, giving you full control
// over connection pooling, timeouts, and clustering configuration.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appcheck "github.com/kacy/appcheck-provider"
	"github.com/kacy/appcheck-provider/debugtoken"
)

// Cmdable is the subset of Redis commands the token store needs.
// Wrap github.com/redis/go-redis/v9 clients with a small adapter.
type Cmdable interface {
	Get(ctx context.Context, key string) StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) StatusCmd
}

// StringCmd is the interface for string command results.
type StringCmd interface {
	Result() (string, error)
}

// StatusCmd is the interface for status command results.
type StatusCmd interface {
	Err() error
}

// TokenStoreConfig holds configuration for the Redis token store.
type TokenStoreConfig struct {
	// Client is the Redis client (required).
	Client Cmdable

	// KeyPrefix is prepended to all Redis keys (default: "appcheck:debug-token:").
	KeyPrefix string

	// App is the app whose shared debug token is read (default: appcheck.DefaultAppName).
	App string

	// TTL is how long published tokens are kept (default: 0 = no expiration).
	TTL time.Duration

	// Timeout bounds each Redis call (default: 2 seconds).
	Timeout time.Duration
}

// TokenStore reads shared debug tokens from Redis and publishes resolved ones.
type TokenStore struct {
	client    Cmdable
	keyPrefix string
	app       string
	ttl       time.Duration
	timeout   time.Duration
}

var (
	_ debugtoken.Reader       = (*TokenStore)(nil)
	_ appcheck.DebugTokenSink = (*TokenStore)(nil)
)

// publishedToken is the JSON document written for each published token.
type publishedToken struct {
	Token       string    `json:"token"`
	Source      string    `json:"source"`
	App         string    `json:"app"`
	PublishedAt time.Time `json:"published_at"`
}

// NewTokenStore creates a new Redis-backed token store.
func NewTokenStore(cfg TokenStoreConfig) (*TokenStore, error) {
	if cfg.Client == nil {
		return nil, errors.New("redis client is required")
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "appcheck:debug-token:"
	}

	app := cfg.App
	if app == "" {
		app = appcheck.DefaultAppName
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}

	return &TokenStore{
		client:    cfg.Client,
		keyPrefix: keyPrefix,
		app:       app,
		ttl:       cfg.TTL,
		timeout:   timeout,
	}, nil
}

// SharedKey returns the key holding the shared debug token of the store's app.
func (s *TokenStore) SharedKey() string {
	return s.keyPrefix + "shared:" + s.app
}

// PublishedKey returns the key holding the last token published for app.
func (s *TokenStore) PublishedKey(app string) string {
	return s.keyPrefix + "registered:" + app
}

// ReadDebugToken returns the shared debug token. Missing keys and Redis
// errors both report no token so resolution falls through to generation.
func (s *TokenStore) ReadDebugToken() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	token, err := s.client.Get(ctx, s.SharedKey()).Result()
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Share stores token as the shared debug token of the store's app.
func (s *TokenStore) Share(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("debug token is empty")
	}
	if err := s.client.Set(ctx, s.SharedKey(), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to share debug token: %w", err)
	}
	return nil
}

// PublishDebugToken records a resolved token for operators.
func (s *TokenStore) PublishDebugToken(app string, token debugtoken.Token) error {
	data, err := json.Marshal(publishedToken{
		Token:       token.Value,
		Source:      token.Source.String(),
		App:         app,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal debug token: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.PublishedKey(app), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to publish debug token: %w", err)
	}
	return nil
}

// Published loads the last token published for app.
func (s *TokenStore) Published(ctx context.Context, app string) (*debugtoken.Token, time.Time, error) {
	raw, err := s.client.Get(ctx, s.PublishedKey(app)).Result()
	if err != nil {
		if isNil(err) {
			return nil, time.Time{}, fmt.Errorf("%w: no debug token published for %q", appcheck.ErrNotConfigured, app)
		}
		return nil, time.Time{}, fmt.Errorf("failed to load debug token: %w", err)
	}

	var doc publishedToken
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal debug token: %w", err)
	}

	return &debugtoken.Token{Value: doc.Token, Source: parseSource(doc.Source)}, doc.PublishedAt, nil
}

func parseSource(s string) debugtoken.Source {
	for _, src := range []debugtoken.Source{
		debugtoken.SourceExplicit,
		debugtoken.SourceEnvironment,
		debugtoken.SourceGenerated,
	} {
		if src.String() == s {
			return src
		}
	}
	return 0
}

// isNil checks if the error is a redis.Nil error.
// We check the error string to avoid importing go-redis directly.
func isNil(err error) bool {
	return err != nil && err.Error() == "redis: nil"
}
