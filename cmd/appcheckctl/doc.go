// Package main (cmd/appcheckctl) configures an App Check provider from the
// command line and mints tokens with the sandbox attestation library.
//
// Commands:
//
//	kinds      - List the provider ids accepted by --provider
//	configure  - Resolve the provider for an app and print the result
//	token      - Configure the provider and print a freshly minted token
//
// Settings come from an optional TOML file (--config); flags override it.
// The debug token is taken from --debug-token, then from the configured
// environment channel, and is generated locally when neither has one.
//
// Example:
//
//	appcheckctl configure --provider=appAttestWithDeviceCheckFallback --os-version=13.4
//	appcheckctl token --provider=debug --log-json
//
// Results are printed as JSON on stdout. Logs, including resolved debug
// tokens, go to stderr.
package main
