// Package appcheck selects, builds and activates an App Check attestation
// provider at runtime.
//
// Host applications usually wire their attestation provider at build time.
// This package lets the provider be chosen while the app is running and
// switched again later without recompiling.
//
// # Provider kinds
//
//   - debug: development provider backed by a debug token that must be
//     registered with the App Check backend
//   - deviceCheck: DeviceCheck, available on every supported platform
//   - appAttest: App Attest only; fails on platforms without App Attest
//   - appAttestWithDeviceCheckFallback: App Attest where available,
//     DeviceCheck otherwise
//
// # Debug tokens
//
// The debug provider takes its token from the explicit argument, then from the
// configured environment channel, and finally from a freshly generated local
// token. The resolved token and its source are logged so it can be registered
// out of band. See the debugtoken subpackage.
//
// # Basic Usage
//
//	facade, err := appcheck.New(appcheck.Config{
//	    Library: sandbox.NewLibrary(sandbox.Config{}),
//	    Oracle:  platform.Static(true),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resolved, err := facade.ConfigureProvider("appAttestWithDeviceCheckFallback", true, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := facade.GetToken(ctx, false)
//
// # Subpackages
//
//   - debugtoken: debug token precedence, environment channels and generators
//   - platform: capability oracle contract and version-based oracle
//   - sandbox: in-process development attestation library
//   - redis: Redis-backed debug token channel and publish sink
//   - config: TOML configuration file
package appcheck
