// Package platform reports which attestation mechanisms the current device
// platform supports.
//
// App Attest is only available from iOS 14 onward; DeviceCheck and the debug
// provider are available everywhere. The real capability query lives in the
// host platform, so this package only defines the Oracle contract and a few
// adapters for feeding host answers into it.
package platform

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
)

// DefaultMinAppAttestVersion is the first OS version shipping App Attest.
const DefaultMinAppAttestVersion = "14.0"

// Oracle answers capability questions about the running platform.
type Oracle interface {
	// SupportsAppAttest reports whether App Attest can be used.
	SupportsAppAttest() bool
}

// Static is an Oracle with a fixed answer.
type Static bool

// SupportsAppAttest returns the fixed answer.
func (s Static) SupportsAppAttest() bool {
	return bool(s)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func() bool

// SupportsAppAttest calls f.
func (f OracleFunc) SupportsAppAttest() bool {
	return f()
}

// ErrInvalidVersion is returned for OS or minimum versions that do not parse.
var ErrInvalidVersion = errors.New("invalid platform version")

// VersionOracle decides App Attest support by comparing the OS version
// reported by the host against a minimum version.
type VersionOracle struct {
	os      *version.Version
	minimum *version.Version
}

// NewVersionOracle creates a VersionOracle. An empty minimum means
// DefaultMinAppAttestVersion.
func NewVersionOracle(osVersion, minimum string) (*VersionOracle, error) {
	if minimum == "" {
		minimum = DefaultMinAppAttestVersion
	}

	osv, err := version.NewVersion(osVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: os version %q: %v", ErrInvalidVersion, osVersion, err)
	}
	minv, err := version.NewVersion(minimum)
	if err != nil {
		return nil, fmt.Errorf("%w: minimum version %q: %v", ErrInvalidVersion, minimum, err)
	}

	return &VersionOracle{os: osv, minimum: minv}, nil
}

// SupportsAppAttest reports whether the OS version is at least the minimum.
func (o *VersionOracle) SupportsAppAttest() bool {
	return o.os.GreaterThanOrEqual(o.minimum)
}

// OSVersion returns the normalized OS version.
func (o *VersionOracle) OSVersion() string {
	return o.os.String()
}
