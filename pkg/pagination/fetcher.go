package pagination

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for page loading.
var (
	pageLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_page_loads_total",
		Help: "Total page load attempts by endpoint and result",
	}, []string{"endpoint", "result"})

	staleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_stale_page_responses_total",
		Help: "Page responses discarded because the query changed mid-flight",
	}, []string{"endpoint"})
)

// Listener receives a snapshot of the collection state after a mutation.
type Listener[T any] func(PageState[T])

// Fetcher owns one live server-backed collection. All methods are safe for
// concurrent use, but the collection itself behaves as a single logical
// consumer would expect: one request in flight at a time, pages applied in
// order, and state mutations delivered to subscribers as immutable
// snapshots.
type Fetcher[T any] struct {
	mu       sync.Mutex
	source   Source[T]
	pageSize int

	spec     QuerySpec
	state    PageState[T]
	inFlight bool

	// generation is bumped whenever the query identity backing the state
	// changes (parameter change, reset). A response carrying an older
	// generation is discarded instead of applied.
	generation uint64

	subs    map[int]Listener[T]
	nextSub int

	logger zerolog.Logger
}

// NewFetcher creates a fetcher for the given collection identity.
func NewFetcher[T any](source Source[T], spec QuerySpec, pageSize int) *Fetcher[T] {
	if source == nil {
		panic("page source cannot be nil")
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	return &Fetcher[T]{
		source:   source,
		pageSize: pageSize,
		spec:     spec.Clone(),
		state:    emptyState[T](),
		subs:     make(map[int]Listener[T]),
		logger:   log.With().Str("component", "pagination").Str("endpoint", spec.Endpoint).Logger(),
	}
}

// Snapshot returns a copy of the current collection state.
func (f *Fetcher[T]) Snapshot() PageState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.snapshot()
}

// Spec returns a copy of the query identity backing the current state.
func (f *Fetcher[T]) Spec() QuerySpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spec.Clone()
}

// Subscribe registers a listener invoked with the full current state after
// every mutation. The returned handle removes the subscription.
func (f *Fetcher[T]) Subscribe(listener Listener[T]) func() {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = listener
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// LoadFirstPage loads page 1, replacing any previously accumulated items on
// success. A call while a load is already in flight is a silent no-op. On
// failure the previous items stay visible and the error lands in the
// snapshot's LastError.
func (f *Fetcher[T]) LoadFirstPage(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		f.logger.Debug().Msg("Load already in flight, ignoring")
		return nil
	}
	f.inFlight = true
	f.state.IsLoading = true
	f.state.LastError = nil
	gen := f.generation
	spec := f.spec.Clone()
	f.mu.Unlock()
	f.notify()

	env, err := f.source.FetchPage(ctx, spec, 1, f.pageSize)
	return f.apply(gen, 1, env, err, true)
}

// LoadNextPage loads the page after the current one and appends its items.
// It is a silent no-op when there are no more pages or a load is already in
// flight; both are normal races with UI state, not errors.
func (f *Fetcher[T]) LoadNextPage(ctx context.Context) error {
	f.mu.Lock()
	if f.inFlight || !f.state.HasMore {
		f.mu.Unlock()
		return nil
	}
	target := f.state.CurrentPage + 1
	f.inFlight = true
	f.state.IsLoading = true
	f.state.LastError = nil
	gen := f.generation
	spec := f.spec.Clone()
	f.mu.Unlock()
	f.notify()

	env, err := f.source.FetchPage(ctx, spec, target, f.pageSize)
	return f.apply(gen, target, env, err, false)
}

// UpdateParams merges patch into the query parameters. When the effective
// identity changes and the collection has data or a load in progress, the
// state resets and page 1 reloads under the new identity; an empty, idle
// collection just adopts the new parameters.
func (f *Fetcher[T]) UpdateParams(ctx context.Context, patch map[string]string) error {
	f.mu.Lock()
	return f.adoptSpecLocked(ctx, f.spec.WithParams(patch))
}

// SetParams replaces the parameter set wholesale, with the same reset and
// reload behavior as UpdateParams. Use this when the caller owns the full
// filter state rather than a delta.
func (f *Fetcher[T]) SetParams(ctx context.Context, params map[string]string) error {
	f.mu.Lock()
	return f.adoptSpecLocked(ctx, NewQuerySpec(f.spec.Endpoint, params))
}

// adoptSpecLocked installs a new query identity. Called with f.mu held;
// releases it.
func (f *Fetcher[T]) adoptSpecLocked(ctx context.Context, next QuerySpec) error {
	if next.Equal(f.spec) {
		f.mu.Unlock()
		return nil
	}
	f.spec = next

	hasProgress := len(f.state.Items) > 0 || f.state.CurrentPage > 0 || f.inFlight
	if !hasProgress {
		f.mu.Unlock()
		return nil
	}

	f.generation++
	f.inFlight = false
	f.state = emptyState[T]()
	f.mu.Unlock()

	f.logger.Debug().Msg("Query parameters changed, resetting collection")
	f.notify()
	return f.LoadFirstPage(ctx)
}

// Reset clears the collection to its initial empty state. Any in-flight
// response is discarded on arrival.
func (f *Fetcher[T]) Reset() {
	f.mu.Lock()
	f.generation++
	f.inFlight = false
	f.state = emptyState[T]()
	f.mu.Unlock()
	f.notify()
}

// apply folds a page response into the state, unless the collection
// identity changed while the request was in flight.
func (f *Fetcher[T]) apply(gen uint64, target int, env Envelope[T], fetchErr error, replace bool) error {
	f.mu.Lock()

	if gen != f.generation {
		f.mu.Unlock()
		staleResponsesTotal.WithLabelValues(f.spec.Endpoint).Inc()
		f.logger.Debug().Int("page", target).Msg("Discarding stale page response")
		return nil
	}

	f.inFlight = false
	f.state.IsLoading = false

	if fetchErr != nil {
		f.state.LastError = fetchErr
		f.mu.Unlock()
		pageLoadsTotal.WithLabelValues(f.spec.Endpoint, "error").Inc()
		f.logger.Warn().Err(fetchErr).Int("page", target).Msg("Page load failed")
		f.notify()
		return fetchErr
	}

	if !replace && target <= f.state.CurrentPage {
		// A racing load already advanced past this page; appending would
		// duplicate items.
		f.mu.Unlock()
		staleResponsesTotal.WithLabelValues(f.spec.Endpoint).Inc()
		f.logger.Debug().Int("page", target).Msg("Discarding out-of-order page response")
		f.notify()
		return nil
	}

	if replace {
		f.state.Items = append([]T(nil), env.Data...)
	} else {
		f.state.Items = append(f.state.Items, env.Data...)
	}

	f.state.CurrentPage = target
	if env.PageNo > 0 {
		f.state.CurrentPage = env.PageNo
	}
	f.state.TotalPages = env.TotalPages
	if f.state.TotalPages < 1 {
		f.state.TotalPages = 1
	}
	f.state.TotalRecords = env.TotalRecords
	f.state.LastError = nil
	f.state.recomputeHasMore()

	endpoint := f.spec.Endpoint
	items := len(f.state.Items)
	page := f.state.CurrentPage
	f.mu.Unlock()

	pageLoadsTotal.WithLabelValues(endpoint, "success").Inc()
	f.logger.Debug().
		Int("page", page).
		Int("items", items).
		Msg("Page loaded")
	f.notify()
	return nil
}

// notify delivers the current snapshot to all subscribers.
func (f *Fetcher[T]) notify() {
	f.mu.Lock()
	snap := f.state.snapshot()
	listeners := make([]Listener[T], 0, len(f.subs))
	for _, listener := range f.subs {
		listeners = append(listeners, listener)
	}
	f.mu.Unlock()

	for _, listener := range listeners {
		listener(snap)
	}
}
