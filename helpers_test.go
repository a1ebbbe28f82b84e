package appcheck

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kacy/appcheck-provider/debugtoken"
)

// fakeProvider is a Provider that records calls and mints numbered tokens.
type fakeProvider struct {
	kind       ProviderKind
	debugToken string
	ttl        time.Duration
	now        func() time.Time
	err        error

	mu     sync.Mutex
	calls  int
	closed bool
}

func (p *fakeProvider) GetToken(ctx context.Context) (*Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}
	p.calls++

	now := time.Now()
	if p.now != nil {
		now = p.now()
	}
	ttl := p.ttl
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Token{
		Value:     string(p.kind) + "-" + string(rune('0'+p.calls)),
		ExpiresAt: now.Add(ttl),
	}, nil
}

func (p *fakeProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakeProvider) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// fakeLibrary records every provider it builds.
type fakeLibrary struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	built []*fakeProvider
}

func (l *fakeLibrary) build(kind ProviderKind, debugToken string) Provider {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := &fakeProvider{kind: kind, debugToken: debugToken, ttl: l.ttl, now: l.now}
	l.built = append(l.built, p)
	return p
}

func (l *fakeLibrary) DebugProvider(debugToken string) Provider {
	return l.build(KindDebug, debugToken)
}

func (l *fakeLibrary) DeviceCheckProvider() Provider {
	return l.build(KindDeviceCheck, "")
}

func (l *fakeLibrary) AppAttestProvider() Provider {
	return l.build(KindAppAttest, "")
}

func (l *fakeLibrary) Built() []*fakeProvider {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*fakeProvider, len(l.built))
	copy(out, l.built)
	return out
}

// countingOracle is a platform.Oracle with a fixed answer that counts queries.
type countingOracle struct {
	mu        sync.Mutex
	supported bool
	queries   int
}

func (o *countingOracle) SupportsAppAttest() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queries++
	return o.supported
}

func (o *countingOracle) Queries() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queries
}

// recordingSink captures published debug tokens.
type recordingSink struct {
	mu     sync.Mutex
	err    error
	tokens []debugtoken.Token
	apps   []string
}

func (s *recordingSink) PublishDebugToken(app string, token debugtoken.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps = append(s.apps, app)
	s.tokens = append(s.tokens, token)
	return s.err
}

var errSinkDown = errors.New("sink down")

// safeBuffer is a bytes.Buffer usable as a concurrent slog output.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *safeBuffer) {
	buf := &safeBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func noEnvironment() debugtoken.Reader {
	return debugtoken.Chain{}
}

func envToken(v string) debugtoken.Reader {
	return debugtoken.ReaderFunc(func() (string, bool) { return v, v != "" })
}

func fixedGenerator(v string) debugtoken.Generator {
	return debugtoken.GeneratorFunc(func() string { return v })
}
