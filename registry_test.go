package appcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kacy/appcheck-provider/debugtoken"
)

func TestRegistry_Build(t *testing.T) {
	lib := &fakeLibrary{}
	registry := NewRegistry(lib)

	token := &debugtoken.Token{Value: "dbg", Source: debugtoken.SourceExplicit}

	tests := []struct {
		name      string
		kind      ProviderKind
		requested ProviderKind
		token     *debugtoken.Token
		downgrade bool
	}{
		{name: "debug", kind: KindDebug, requested: KindDebug, token: token},
		{name: "device check", kind: KindDeviceCheck, requested: KindDeviceCheck},
		{name: "app attest", kind: KindAppAttest, requested: KindAppAttest},
		{name: "fallback to app attest", kind: KindAppAttest, requested: KindAppAttestWithDeviceCheckFallback},
		{name: "fallback downgraded", kind: KindDeviceCheck, requested: KindAppAttestWithDeviceCheckFallback, downgrade: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := registry.Build(tt.kind, Configuration{Kind: tt.requested, AutoRefreshEnabled: true}, tt.token)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, resolved.Kind)
			assert.Equal(t, tt.requested, resolved.Requested)
			assert.True(t, resolved.AutoRefreshEnabled)
			assert.Equal(t, tt.downgrade, resolved.Downgraded)

			p, ok := resolved.Provider.(*fakeProvider)
			require.True(t, ok)
			assert.Equal(t, tt.kind, p.kind)

			if tt.kind == KindDebug {
				require.NotNil(t, resolved.DebugToken)
				assert.Equal(t, "dbg", resolved.DebugToken.Value)
				assert.Equal(t, "dbg", p.debugToken)
			} else {
				assert.Nil(t, resolved.DebugToken)
			}
		})
	}
}

func TestRegistry_DebugTokenIsCopied(t *testing.T) {
	registry := NewRegistry(&fakeLibrary{})
	token := &debugtoken.Token{Value: "dbg", Source: debugtoken.SourceExplicit}

	resolved, err := registry.Build(KindDebug, Configuration{Kind: KindDebug}, token)
	require.NoError(t, err)

	token.Value = "changed"
	assert.Equal(t, "dbg", resolved.DebugToken.Value)
}

func TestRegistry_RejectsNonEffectiveKinds(t *testing.T) {
	registry := NewRegistry(&fakeLibrary{})

	_, err := registry.Build(KindAppAttestWithDeviceCheckFallback, Configuration{}, nil)
	assert.ErrorIs(t, err, ErrInvalidProviderKind)

	_, err = registry.Build("bogus", Configuration{}, nil)
	assert.ErrorIs(t, err, ErrInvalidProviderKind)

	_, err = registry.Build(KindDebug, Configuration{Kind: KindDebug}, nil)
	assert.ErrorIs(t, err, ErrInvalidProviderKind)

	_, err = registry.Build(KindDebug, Configuration{Kind: KindDebug}, &debugtoken.Token{})
	assert.ErrorIs(t, err, ErrInvalidProviderKind)
}
