package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/roshda/galaxy-o-meter/internal/catalog"
	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/roshda/galaxy-o-meter/internal/platform/correlation"
)

// DecodeFunc turns the raw artifact into a catalog.
type DecodeFunc func(data []byte) (*domain.Catalog, error)

// LoadRecorder observes load outcomes. Implemented by the metrics adapter.
type LoadRecorder interface {
	ObserveLoad(state domain.LoadState, entities int, duration time.Duration)
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithLoadRecorder attaches a recorder for load outcomes.
func WithLoadRecorder(r LoadRecorder) LoaderOption {
	return func(l *Loader) { l.recorder = r }
}

// WithDecoder replaces catalog.Decode.
func WithDecoder(decode DecodeFunc) LoaderOption {
	return func(l *Loader) { l.decode = decode }
}

// Loader performs the single read of the sentiment artifact and publishes the
// resulting catalog. It never re-fetches, polls or retries.
type Loader struct {
	source   domain.CatalogSource
	decode   DecodeFunc
	sink     domain.DiagnosticSink
	clock    clockwork.Clock
	recorder LoadRecorder

	startOnce sync.Once
	cancel    context.CancelFunc
	ready     chan struct{}
	done      chan struct{}

	mu       sync.RWMutex
	state    domain.LoadState
	catalog  *domain.Catalog
	loadedAt time.Time
	stopped  bool
}

func NewLoader(source domain.CatalogSource, sink domain.DiagnosticSink, clock clockwork.Clock, opts ...LoaderOption) *Loader {
	l := &Loader{
		source: source,
		decode: catalog.Decode,
		sink:   sink,
		clock:  clock,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
		state:  domain.LoadIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start issues the read on its own goroutine. Only the first call has any effect.
// The read is bound to ctx and to Stop, whichever ends first.
func (l *Loader) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		l.mu.Lock()
		if l.stopped {
			l.mu.Unlock()
			close(l.done)
			return
		}
		l.state = domain.LoadLoading
		loadCtx, cancel := context.WithCancel(correlation.WithID(ctx, correlation.NewID()))
		l.cancel = cancel
		l.mu.Unlock()

		go l.run(loadCtx)
	})
}

// Stop cancels an in-flight read and waits for it to finish. A completion that
// arrives after Stop is discarded.
func (l *Loader) Stop() {
	l.mu.Lock()
	l.stopped = true
	cancel := l.cancel
	l.mu.Unlock()

	if cancel == nil {
		// Never started: make sure Start stays a no-op and Done is closed.
		l.startOnce.Do(func() { close(l.done) })
		return
	}
	cancel()
	<-l.done
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)
	defer l.cancel()

	start := l.clock.Now()
	slog.InfoContext(ctx, "Loading sentiment data", "source", l.source.String())

	cat, err := l.load(ctx)

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		slog.DebugContext(ctx, "Discarding sentiment load result after stop", "error", err)
		return
	}
	if err != nil {
		l.state = domain.LoadFailed
		l.mu.Unlock()

		l.observe(domain.LoadFailed, 0, start)
		l.sink.Report(ctx, err)
		return
	}
	l.catalog = cat
	l.state = domain.LoadLoaded
	l.loadedAt = l.clock.Now()
	close(l.ready)
	l.mu.Unlock()

	l.observe(domain.LoadLoaded, cat.Len(), start)
	slog.InfoContext(ctx, "Sentiment data loaded", "entities", cat.Len(), "duration", l.clock.Since(start))

	if missing := catalog.MissingMeta(cat); len(missing) > 0 {
		slog.WarnContext(ctx, "Catalog entities have no static metadata, showing placeholder subtitle", "entities", missing)
	}
}

func (l *Loader) load(ctx context.Context) (*domain.Catalog, error) {
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch sentiment data: %w", err)
	}
	cat, err := l.decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode sentiment data: %w", err)
	}
	return cat, nil
}

func (l *Loader) observe(state domain.LoadState, entities int, start time.Time) {
	if l.recorder != nil {
		l.recorder.ObserveLoad(state, entities, l.clock.Since(start))
	}
}

// Catalog returns the loaded catalog, or false while loading or after a failure.
func (l *Loader) Catalog() (*domain.Catalog, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog, l.catalog != nil
}

// State returns the current load state.
func (l *Loader) State() domain.LoadState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// LoadedAt returns when the catalog was published, or the zero time.
func (l *Loader) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}

// Ready is closed once a catalog has been published. It stays open on failure.
func (l *Loader) Ready() <-chan struct{} {
	return l.ready
}

// Done is closed when the read has finished, successfully or not.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// CheckReady reports an error unless the catalog is loaded. Used as a health check.
func (l *Loader) CheckReady(_ context.Context) error {
	if state := l.State(); state != domain.LoadLoaded {
		return fmt.Errorf("%w: state %s", domain.ErrCatalogNotLoaded, state)
	}
	return nil
}
