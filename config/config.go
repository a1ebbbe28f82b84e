// Package config loads App Check provider settings from a TOML file.
//
// Example file:
//
//	app = "[DEFAULT]"
//	provider = "appAttestWithDeviceCheckFallback"
//	auto_refresh = true
//
//	[platform]
//	os_version = "17.2"
//
//	[debug_token_channel]
//	env = "FIREBASE_APP_CHECK_DEBUG_TOKEN"
//	dotenv = ".env"
//
//	[sandbox]
//	ttl = "1h"
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	appcheck "github.com/kacy/appcheck-provider"
	"github.com/kacy/appcheck-provider/debugtoken"
	"github.com/kacy/appcheck-provider/platform"
)

// ErrInvalidConfig is returned when a configuration file fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// File is the on-disk configuration.
type File struct {
	App         string `toml:"app"`
	Provider    string `toml:"provider"`
	AutoRefresh *bool  `toml:"auto_refresh"`
	DebugToken  string `toml:"debug_token"`

	Platform          Platform          `toml:"platform"`
	DebugTokenChannel DebugTokenChannel `toml:"debug_token_channel"`
	Sandbox           Sandbox           `toml:"sandbox"`
}

// Platform describes the device platform the provider runs on.
type Platform struct {
	// OSVersion is the host OS version. Empty means App Attest is assumed
	// to be available.
	OSVersion string `toml:"os_version"`

	// MinAppAttestVersion defaults to platform.DefaultMinAppAttestVersion.
	MinAppAttestVersion string `toml:"min_app_attest_version"`
}

// DebugTokenChannel names where a debug token may be picked up from.
type DebugTokenChannel struct {
	Env    string `toml:"env"`
	Dotenv string `toml:"dotenv"`
}

// Sandbox configures the development attestation library.
type Sandbox struct {
	TTL string `toml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		App:      appcheck.DefaultAppName,
		Provider: string(appcheck.KindAppAttestWithDeviceCheckFallback),
		DebugTokenChannel: DebugTokenChannel{
			Env: debugtoken.DefaultEnvVar,
		},
		Sandbox: Sandbox{TTL: "1h"},
	}
}

// Load reads and validates the TOML file at path. Keys missing from the
// file keep their Default values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates TOML data.
func Parse(data []byte) (*File, error) {
	f := Default()
	if err := toml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the provider id and the platform and sandbox settings.
func (f *File) Validate() error {
	if strings.TrimSpace(f.App) == "" {
		return fmt.Errorf("%w: app name is empty", ErrInvalidConfig)
	}
	if _, err := appcheck.ParseProviderKind(f.Provider); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := f.Oracle(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := f.SandboxTTL(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// AutoRefreshEnabled resolves the auto refresh setting. An explicit override
// wins over the file, and auto refresh is on when neither sets it.
func (f *File) AutoRefreshEnabled(override *bool) bool {
	if override != nil {
		return *override
	}
	if f.AutoRefresh != nil {
		return *f.AutoRefresh
	}
	return true
}

// DebugTokenReader returns the environment channel: the process environment
// first, then the .env file when one is configured.
func (f *File) DebugTokenReader() debugtoken.Reader {
	name := f.DebugTokenChannel.Env
	chain := debugtoken.Chain{debugtoken.EnvReader{Name: name}}
	if f.DebugTokenChannel.Dotenv != "" {
		chain = append(chain, debugtoken.DotenvReader{Path: f.DebugTokenChannel.Dotenv, Name: name})
	}
	return chain
}

// Oracle returns the capability oracle for the configured platform.
func (f *File) Oracle() (platform.Oracle, error) {
	if f.Platform.OSVersion == "" {
		return platform.Static(true), nil
	}
	return platform.NewVersionOracle(f.Platform.OSVersion, f.Platform.MinAppAttestVersion)
}

// SandboxTTL returns the sandbox token lifetime. Zero means the sandbox default.
func (f *File) SandboxTTL() (time.Duration, error) {
	if f.Sandbox.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(f.Sandbox.TTL)
	if err != nil {
		return 0, fmt.Errorf("sandbox ttl %q: %w", f.Sandbox.TTL, err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("sandbox ttl %q is negative", f.Sandbox.TTL)
	}
	return ttl, nil
}
