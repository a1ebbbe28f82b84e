// Package debugtoken resolves the debug token used by the App Check debug
// provider.
//
// A token is taken from the first of three sources that yields a non-empty
// value:
//
//  1. the token passed explicitly by the host application
//  2. an environment channel (process environment, .env file, Redis, ...)
//  3. a locally generated token
//
// Generation never fails, so resolution always produces a usable token. The
// resolved value must be registered with the App Check backend before tokens
// minted with it are accepted.
package debugtoken

// DefaultEnvVar is the environment variable the host SDKs read debug tokens from.
const DefaultEnvVar = "FIREBASE_APP_CHECK_DEBUG_TOKEN"

// Source identifies where a debug token came from.
type Source int

// Token sources, in precedence order.
const (
	SourceExplicit Source = iota + 1
	SourceEnvironment
	SourceGenerated
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceEnvironment:
		return "environment"
	case SourceGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// Token is a resolved debug token together with its source.
type Token struct {
	// Value is the debug token. Never empty for a resolved token.
	Value string

	// Source records which precedence tier produced Value.
	Source Source
}
