package appcheck

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory keeps one Facade per app name, creating it on first configuration.
// All facades share the factory's Config apart from the app name.
type Factory struct {
	cfg Config

	mu      sync.RWMutex
	facades map[string]*Facade
	closed  bool
}

// NewFactory creates a factory. cfg.App is ignored.
func NewFactory(cfg Config) (*Factory, error) {
	if cfg.Library == nil {
		return nil, ErrMissingLibrary
	}
	if cfg.Oracle == nil {
		return nil, ErrMissingOracle
	}
	return &Factory{
		cfg:     cfg,
		facades: make(map[string]*Facade),
	}, nil
}

// Configure configures the provider of app. The app's facade is created by
// its first successful configuration; a failed first attempt leaves the app
// unconfigured.
func (f *Factory) Configure(app, kindID string, autoRefreshEnabled bool, debugToken string) (*ResolvedProvider, error) {
	if strings.TrimSpace(app) == "" {
		return nil, fmt.Errorf("%w: app name is empty", ErrInvalidAppName)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}

	facade, exists := f.facades[app]
	if !exists {
		cfg := f.cfg
		cfg.App = app

		var err error
		facade, err = New(cfg)
		if err != nil {
			return nil, err
		}
	}

	resolved, err := facade.ConfigureProvider(kindID, autoRefreshEnabled, debugToken)
	if err != nil {
		if !exists {
			facade.Close()
		}
		return nil, err
	}

	if !exists {
		f.facades[app] = facade
	}
	return resolved, nil
}

// Facade returns the facade of an app that has been configured before.
func (f *Factory) Facade(app string) (*Facade, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, ErrClosed
	}

	facade, ok := f.facades[app]
	if !ok {
		return nil, fmt.Errorf("%w: app %q", ErrNotConfigured, app)
	}
	return facade, nil
}

// Apps returns the names of all apps with a facade, sorted.
func (f *Factory) Apps() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	apps := make([]string, 0, len(f.facades))
	for app := range f.facades {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	return apps
}

// Close closes every facade.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	for _, facade := range f.facades {
		if err := facade.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
