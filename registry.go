package appcheck

import (
	"fmt"

	"github.com/kacy/appcheck-provider/debugtoken"
)

type constructor func(cfg Configuration, token *debugtoken.Token) Provider

// Registry constructs providers for effective kinds through a Library. It
// performs no capability checks of its own.
type Registry struct {
	constructors map[ProviderKind]constructor
}

// NewRegistry creates a registry for lib.
func NewRegistry(lib Library) *Registry {
	return &Registry{
		constructors: map[ProviderKind]constructor{
			KindDebug: func(_ Configuration, token *debugtoken.Token) Provider {
				return lib.DebugProvider(token.Value)
			},
			KindDeviceCheck: func(Configuration, *debugtoken.Token) Provider {
				return lib.DeviceCheckProvider()
			},
			KindAppAttest: func(Configuration, *debugtoken.Token) Provider {
				return lib.AppAttestProvider()
			},
		},
	}
}

// Build constructs the provider for the effective kind. token must be set for
// KindDebug and is ignored otherwise.
func (r *Registry) Build(kind ProviderKind, cfg Configuration, token *debugtoken.Token) (*ResolvedProvider, error) {
	build, ok := r.constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a buildable kind", ErrInvalidProviderKind, string(kind))
	}

	resolved := &ResolvedProvider{
		Requested:          cfg.Kind,
		Kind:               kind,
		AutoRefreshEnabled: cfg.AutoRefreshEnabled,
	}

	if kind == KindDebug {
		if token == nil || token.Value == "" {
			return nil, fmt.Errorf("%w: debug provider requires a debug token", ErrInvalidProviderKind)
		}
		tokenCopy := *token
		resolved.DebugToken = &tokenCopy
	}

	resolved.Downgraded = cfg.Kind == KindAppAttestWithDeviceCheckFallback && kind == KindDeviceCheck
	resolved.Provider = build(cfg, resolved.DebugToken)
	return resolved, nil
}
