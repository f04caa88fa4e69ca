package danmaku

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status is the phase of the most recent load.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the loader's current status. Err is set only when Failed.
type State struct {
	Status Status
	Err    error
}

// Toggle reports whether loading is switched on.
type Toggle interface {
	Enabled() bool
}

// Loader fetches from every provider concurrently and merges the results
// with per-provider overrides chosen by the user.
type Loader struct {
	providers []Provider
	toggle    Toggle
	log       *slog.Logger

	mu            sync.Mutex
	state         State
	gen           uint64
	current       key
	original      []FetchResult // nil until a load succeeds
	overrides     map[ProviderID][]FetchResult
	overrideOrder []ProviderID
}

// NewLoader creates a loader. A nil toggle means always enabled.
func NewLoader(providers []Provider, toggle Toggle, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		providers: providers,
		toggle:    toggle,
		log:       log,
		overrides: make(map[ProviderID][]FetchResult),
	}
}

// State returns the status of the latest load.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches comments for req and returns the merged results.
// Switching to a different subject or episode drops all overrides.
// Failing providers are logged and skipped; an error is returned only when
// every provider fails or ctx is canceled.
func (l *Loader) Load(ctx context.Context, req Request) ([]FetchResult, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if k := req.key(); k != l.current {
		l.current = k
		l.clearOverridesLocked()
	}
	l.original = nil

	if l.toggle != nil && !l.toggle.Enabled() {
		l.state = State{Status: StatusIdle}
		l.mu.Unlock()
		l.log.Debug("danmaku disabled, skipping load", "subject", req.SubjectID, "episode", req.EpisodeID)
		return nil, nil
	}
	l.state = State{Status: StatusLoading}
	l.mu.Unlock()

	results, err := l.fetchAll(ctx, req)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// A newer load started; its state wins.
		if err != nil {
			return nil, err
		}
		return results, nil
	}

	switch {
	case ctx.Err() != nil:
		l.state = State{Status: StatusIdle}
		return nil, ctx.Err()
	case err != nil:
		l.state = State{Status: StatusFailed, Err: err}
		return nil, err
	}

	l.original = results
	l.state = State{Status: StatusSuccess}
	return l.resultsLocked(), nil
}

func (l *Loader) fetchAll(ctx context.Context, req Request) ([]FetchResult, error) {
	results := make([][]FetchResult, len(l.providers))
	errs := make([]error, len(l.providers))

	// Providers fail independently; one error must not cancel the rest.
	var g errgroup.Group
	for i, p := range l.providers {
		g.Go(func() error {
			res, err := p.Fetch(ctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("provider %s: %w", p.ID(), err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for i, err := range errs {
		if err != nil {
			failed++
			l.log.Warn("danmaku provider failed", "provider", l.providers[i].ID(), "error", err)
		}
	}
	if failed > 0 && failed == len(l.providers) {
		return nil, errors.Join(errs...)
	}

	return slices.Concat(results...), nil
}

// Override replaces the results of one provider, e.g. after the user picks
// a different match by hand. It lasts until the episode changes.
func (l *Loader) Override(provider ProviderID, results []FetchResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.overrides[provider]; !ok {
		l.overrideOrder = append(l.overrideOrder, provider)
	}
	l.overrides[provider] = results
}

// Results returns the loaded results grouped by provider in first-seen
// order. Overrides replace a provider's group in place; overrides for
// providers absent from the load are appended. Before a load completes
// only the overrides are returned.
func (l *Loader) Results() []FetchResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resultsLocked()
}

func (l *Loader) resultsLocked() []FetchResult {
	var order []ProviderID
	groups := make(map[ProviderID][]FetchResult)
	for _, r := range l.original {
		if _, ok := groups[r.ProviderID]; !ok {
			order = append(order, r.ProviderID)
		}
		groups[r.ProviderID] = append(groups[r.ProviderID], r)
	}
	for _, id := range l.overrideOrder {
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = l.overrides[id]
	}

	var out []FetchResult
	for _, id := range order {
		out = append(out, groups[id]...)
	}
	return out
}

// Clear forgets the current episode, its results and overrides.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.current = key{}
	l.original = nil
	l.clearOverridesLocked()
	l.state = State{Status: StatusIdle}
}

func (l *Loader) clearOverridesLocked() {
	clear(l.overrides)
	l.overrideOrder = nil
}
