package appcheck

import "fmt"

// ProviderKind identifies an attestation provider strategy.
type ProviderKind string

// Provider kinds accepted by ConfigureProvider.
const (
	KindDebug                            ProviderKind = "debug"
	KindDeviceCheck                      ProviderKind = "deviceCheck"
	KindAppAttest                        ProviderKind = "appAttest"
	KindAppAttestWithDeviceCheckFallback ProviderKind = "appAttestWithDeviceCheckFallback"
)

var kinds = []ProviderKind{
	KindDebug,
	KindDeviceCheck,
	KindAppAttest,
	KindAppAttestWithDeviceCheckFallback,
}

// Kinds returns every valid provider kind.
func Kinds() []ProviderKind {
	out := make([]ProviderKind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseProviderKind validates a provider identifier. Matching is exact.
func ParseProviderKind(id string) (ProviderKind, error) {
	for _, k := range kinds {
		if string(k) == id {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProviderKind, id)
}

// Valid reports whether k is one of the known kinds.
func (k ProviderKind) Valid() bool {
	_, err := ParseProviderKind(string(k))
	return err == nil
}

// AppAttestFamily reports whether k needs a platform capability check.
func (k ProviderKind) AppAttestFamily() bool {
	return k == KindAppAttest || k == KindAppAttestWithDeviceCheckFallback
}

func (k ProviderKind) String() string {
	return string(k)
}
