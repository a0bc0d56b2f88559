// Package screen tracks the request lifecycle of one mounted view: a single
// outbound fetch that moves the view from pending to success or failed.
//
// Every Mount starts a new generation. A fetch result is applied only while
// its generation is current and the screen is still mounted, so a response
// that lands after Unmount (or after a remount) is dropped.
package screen

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// State of a screen's request.
type State int

const (
	StatePending State = iota
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen before a remount.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// FetchFunc performs the screen's single outbound request.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Screen holds the request state of one view instance. The zero value is not
// usable; call New.
type Screen[T any] struct {
	name   string
	logger *zap.Logger

	generation *atomic.Uint64
	mounted    *atomic.Bool
	discarded  *atomic.Uint64

	mu      sync.RWMutex
	state   State
	payload T
	err     error
	done    chan struct{}
}

// New creates a screen in the pending state.
func New[T any](name string, logger *zap.Logger) *Screen[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Screen[T]{
		name:       name,
		logger:     logger.With(zap.String("screen", name)),
		generation: atomic.NewUint64(0),
		mounted:    atomic.NewBool(false),
		discarded:  atomic.NewUint64(0),
		state:      StatePending,
		done:       make(chan struct{}),
	}
}

// Mount starts a new generation, resets the screen to pending and issues
// fetch exactly once in its own goroutine. It returns the generation token.
func (s *Screen[T]) Mount(ctx context.Context, fetch FetchFunc[T]) uint64 {
	s.mu.Lock()
	gen := s.generation.Inc()
	var zero T
	s.state = StatePending
	s.payload = zero
	s.err = nil
	s.done = make(chan struct{})
	s.mounted.Store(true)
	s.mu.Unlock()

	s.logger.Debug("Screen mounted", zap.Uint64("generation", gen))

	go func() {
		payload, err := fetch(ctx)
		s.resolve(gen, payload, err)
	}()

	return gen
}

// Unmount ends the current mount. A fetch still in flight keeps running
// until its context ends, but its result will not be applied.
func (s *Screen[T]) Unmount() {
	if s.mounted.CompareAndSwap(true, false) {
		s.logger.Debug("Screen unmounted", zap.Uint64("generation", s.generation.Load()))
	}
}

// Mounted reports whether the screen is currently mounted.
func (s *Screen[T]) Mounted() bool {
	return s.mounted.Load()
}

// Generation returns the current mount generation.
func (s *Screen[T]) Generation() uint64 {
	return s.generation.Load()
}

// Discarded counts fetch results dropped as stale.
func (s *Screen[T]) Discarded() uint64 {
	return s.discarded.Load()
}

// Wait blocks until the current generation reaches a terminal state or ctx
// is done, and returns the state observed.
func (s *Screen[T]) Wait(ctx context.Context) State {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()

	select {
	case <-done:
	case <-ctx.Done():
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the state with its payload or error.
func (s *Screen[T]) Snapshot() (State, T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.payload, s.err
}

func (s *Screen[T]) resolve(gen uint64, payload T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation.Load() || !s.mounted.Load() || s.state.Terminal() {
		s.discarded.Inc()
		s.logger.Debug("Discarding stale response",
			zap.Uint64("generation", gen),
			zap.Uint64("current_generation", s.generation.Load()),
			zap.Bool("mounted", s.mounted.Load()),
			zap.NamedError("fetch_error", err),
		)
		return
	}

	if err != nil {
		s.state = StateFailed
		s.err = err
	} else {
		s.state = StateSuccess
		s.payload = payload
	}
	close(s.done)

	s.logger.Debug("Screen resolved",
		zap.Uint64("generation", gen),
		zap.Stringer("state", s.state),
	)
}
