package catalog

import (
	"context"
	"sync"
	"time"

	"sweet-treats/internal/feed"
	"sweet-treats/internal/fingerprint"

	"go.uber.org/zap"
)

// Outcome classifies what a load attempt did.
type Outcome int

const (
	// OutcomeLoaded means a new snapshot was applied.
	OutcomeLoaded Outcome = iota
	// OutcomeUnchanged means the feed fingerprint matched the current
	// snapshot and the parse/replace was skipped.
	OutcomeUnchanged
	// OutcomeStale means the fetch failed but an older snapshot is still
	// being served.
	OutcomeStale
	// OutcomeUnavailable means the fetch failed and there is no snapshot
	// to fall back to.
	OutcomeUnavailable
	// OutcomeSuperseded means a load requested later than this one already
	// applied its snapshot, so this response was discarded.
	OutcomeSuperseded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeStale:
		return "stale"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// LoadResult reports one load attempt. Err is advisory; the loader never
// lets a failure escape as anything other than a stale or unavailable
// outcome.
type LoadResult struct {
	Outcome  Outcome
	Snapshot *Snapshot
	Err      error
}

// Fetcher is the slice of feed.Fetcher the loader needs.
type Fetcher interface {
	Fetch(ctx context.Context) (body string, fingerprint uint64, err error)
}

// Loader drives catalog refreshes: fetch, fingerprint check, parse, swap.
// Overlapping loads resolve by "last requested wins": every attempt takes a
// sequence number at request time, and a response is dropped if an attempt
// requested after it has already been applied.
type Loader struct {
	fetcher   Fetcher
	store     *Store
	scheme    feed.ColumnScheme
	cache     *fingerprint.Store
	logger    *zap.Logger
	onReplace func(*Snapshot)
	now       func() time.Time

	mu         sync.Mutex
	nextSeq    uint64
	appliedSeq uint64
}

// NewLoader wires a Loader. cache may be nil to disable fingerprint
// persistence; onReplace may be nil.
func NewLoader(fetcher Fetcher, store *Store, scheme feed.ColumnScheme, cache *fingerprint.Store, logger *zap.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		store:   store,
		scheme:  scheme,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// OnReplace registers a callback invoked after each applied snapshot, with
// the new snapshot. Cart reconciliation hangs off this. Must be called
// before the first Load.
func (l *Loader) OnReplace(fn func(*Snapshot)) {
	l.onReplace = fn
}

// Load runs one refresh cycle. force skips the unchanged-fingerprint short
// circuit. All failures are absorbed into the returned result.
func (l *Loader) Load(ctx context.Context, force bool) LoadResult {
	seq := l.takeSeq()

	body, fp, err := l.fetcher.Fetch(ctx)
	if err != nil {
		current := l.store.Current()
		if current == nil {
			l.logger.Warn("Catalog unavailable, no snapshot to fall back to", zap.Error(err))
			return LoadResult{Outcome: OutcomeUnavailable, Err: err}
		}
		l.logger.Warn("Feed fetch failed, serving stale catalog",
			zap.Error(err),
			zap.Time("loaded_at", current.LoadedAt),
		)
		return LoadResult{Outcome: OutcomeStale, Snapshot: current, Err: err}
	}

	if !force {
		if current := l.store.Current(); current != nil && current.Fingerprint == fp {
			// An unchanged response still confirms the feed as of its
			// request time. Record the sequence so a slower response
			// requested earlier cannot overwrite the snapshot it vouches
			// for.
			l.mu.Lock()
			if seq > l.appliedSeq {
				l.appliedSeq = seq
			}
			l.mu.Unlock()
			return LoadResult{Outcome: OutcomeUnchanged, Snapshot: current}
		}
	}

	snap := NewSnapshot(feed.ParseCatalog(body, l.scheme), fp, l.now())

	l.mu.Lock()
	if seq < l.appliedSeq {
		l.mu.Unlock()
		l.logger.Debug("Discarding superseded feed response", zap.Uint64("seq", seq))
		return LoadResult{Outcome: OutcomeSuperseded, Snapshot: l.store.Current()}
	}
	l.appliedSeq = seq
	l.store.replace(snap)
	l.mu.Unlock()

	if l.cache != nil {
		if err := l.cache.Save(fp); err != nil {
			l.logger.Warn("Failed to persist feed fingerprint", zap.Error(err))
		}
	}

	l.logger.Info("Catalog loaded",
		zap.Int("products", len(snap.Products)),
		zap.Uint64("fingerprint", fp),
	)

	if l.onReplace != nil {
		l.onReplace(snap)
	}
	return LoadResult{Outcome: OutcomeLoaded, Snapshot: snap}
}

func (l *Loader) takeSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextSeq++
	return l.nextSeq
}
