package debugtoken

// Resolver picks a debug token according to the fixed precedence
// explicit > environment > generated.
type Resolver struct {
	environment Reader
	generator   Generator
}

// NewResolver creates a resolver. A nil reader disables the environment tier;
// a nil generator falls back to UUIDGenerator.
func NewResolver(environment Reader, generator Generator) *Resolver {
	if generator == nil {
		generator = UUIDGenerator{}
	}
	return &Resolver{
		environment: environment,
		generator:   generator,
	}
}

// Resolve returns the debug token to use. An empty explicit token is treated
// as absent.
func (r *Resolver) Resolve(explicit string) Token {
	if explicit != "" {
		return Token{Value: explicit, Source: SourceExplicit}
	}

	if r.environment != nil {
		if v, ok := r.environment.ReadDebugToken(); ok && v != "" {
			return Token{Value: v, Source: SourceEnvironment}
		}
	}

	v := r.generator.GenerateLocalDebugToken()
	if v == "" {
		// A generator must never leave the debug provider without a token.
		v = UUIDGenerator{}.GenerateLocalDebugToken()
	}
	return Token{Value: v, Source: SourceGenerated}
}
