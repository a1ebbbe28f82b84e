package debugtoken

import (
	"os"

	"github.com/joho/godotenv"
)

// Reader is an environment channel that may hold a debug token.
// Implementations report ok=false when no token is available.
type Reader interface {
	ReadDebugToken() (token string, ok bool)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func() (string, bool)

// ReadDebugToken calls f.
func (f ReaderFunc) ReadDebugToken() (string, bool) {
	return f()
}

// EnvReader reads the debug token from a process environment variable.
type EnvReader struct {
	// Name is the variable name (default: DefaultEnvVar).
	Name string

	// Lookup replaces os.LookupEnv, mostly for tests.
	Lookup func(key string) (string, bool)
}

// ReadDebugToken looks up the configured variable.
func (r EnvReader) ReadDebugToken() (string, bool) {
	name := r.Name
	if name == "" {
		name = DefaultEnvVar
	}
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	v, ok := lookup(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// DotenvReader reads the debug token from a .env file without touching the
// process environment. A missing or malformed file yields no token.
type DotenvReader struct {
	// Path is the .env file path (default: ".env").
	Path string

	// Name is the variable name (default: DefaultEnvVar).
	Name string
}

// ReadDebugToken parses the file and returns the configured variable.
func (r DotenvReader) ReadDebugToken() (string, bool) {
	path := r.Path
	if path == "" {
		path = ".env"
	}
	name := r.Name
	if name == "" {
		name = DefaultEnvVar
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return "", false
	}

	v := values[name]
	if v == "" {
		return "", false
	}
	return v, true
}

// Chain consults readers in order and returns the first non-empty token.
type Chain []Reader

// ReadDebugToken implements Reader.
func (c Chain) ReadDebugToken() (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := r.ReadDebugToken(); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
