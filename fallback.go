package appcheck

import (
	"fmt"
	"log/slog"

	"github.com/kacy/appcheck-provider/platform"
)

// FallbackPolicy maps a requested kind to the kind that will actually be
// built on this platform.
//
// Strict App Attest fails on platforms without App Attest, while the fallback
// variant quietly becomes DeviceCheck. The downgrade is logged so it stays
// visible to operators.
type FallbackPolicy struct {
	oracle platform.Oracle
	log    *slog.Logger
}

// NewFallbackPolicy creates a policy backed by oracle.
func NewFallbackPolicy(oracle platform.Oracle, log *slog.Logger) *FallbackPolicy {
	if log == nil {
		log = slog.Default()
	}
	return &FallbackPolicy{oracle: oracle, log: log}
}

// Resolve returns the effective kind for kind. The oracle is queried at most
// once and only for App Attest kinds.
func (p *FallbackPolicy) Resolve(kind ProviderKind) (ProviderKind, error) {
	switch kind {
	case KindDebug, KindDeviceCheck:
		return kind, nil

	case KindAppAttest:
		if !p.oracle.SupportsAppAttest() {
			return "", fmt.Errorf("%w: %s requested", ErrUnsupportedPlatformVersion, kind)
		}
		return KindAppAttest, nil

	case KindAppAttestWithDeviceCheckFallback:
		if p.oracle.SupportsAppAttest() {
			return KindAppAttest, nil
		}
		p.log.Warn("App Attest unavailable, falling back to DeviceCheck",
			"requested", kind,
			"effective", KindDeviceCheck,
		)
		return KindDeviceCheck, nil

	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidProviderKind, string(kind))
	}
}
