// Package breaker implements a rolling-window circuit breaker for calls
// to downstream services. "Open" is reported as an explicit ErrOpen
// result so callers can tell a short-circuited call apart from a call
// the downstream itself rejected.
package breaker

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Config struct {
	// WindowSize is the number of most recent call outcomes considered
	// for the failure ratio. The breaker only opens once a full window
	// has been observed.
	WindowSize int
	// FailureRate opens the breaker when failures/window reaches it.
	FailureRate float64
	// OpenTimeout is the cool-down before an open breaker lets trial
	// calls through again.
	OpenTimeout time.Duration
	// HalfOpenCalls is the number of trial calls admitted while
	// half-open. Any trial failure re-opens; that many successes close.
	HalfOpenCalls int
	// IsFailure classifies a call result for the window. Defaults to
	// err != nil.
	IsFailure func(err error) bool
	// OnStateChange is invoked on every transition while the breaker's
	// lock is held; it must not call back into the breaker.
	OnStateChange func(name string, from, to State)
}

func (c Config) withDefaults() Config {
	if c.WindowSize <= 0 {
		c.WindowSize = 10
	}
	if c.FailureRate <= 0 || c.FailureRate > 1 {
		c.FailureRate = 0.5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	if c.HalfOpenCalls <= 0 {
		c.HalfOpenCalls = 1
	}
	if c.IsFailure == nil {
		c.IsFailure = func(err error) bool { return err != nil }
	}
	return c
}

// Breaker is safe for concurrent use; the rolling window and the state
// machine are guarded by a single mutex.
type Breaker struct {
	name string
	cfg  Config

	mu                sync.Mutex
	state             State
	window            []bool // true = failure
	idx               int
	count             int
	failures          int
	openedAt          time.Time
	halfOpenAdmitted  int
	halfOpenSuccesses int

	now func() time.Time
}

func New(name string, cfg Config) *Breaker {
	cfg = cfg.withDefaults()
	return &Breaker{
		name:   name,
		cfg:    cfg,
		state:  StateClosed,
		window: make([]bool, cfg.WindowSize),
		now:    time.Now,
	}
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Do runs fn unless calls are currently short-circuited, in which case
// ErrOpen is returned and fn is never invoked. fn's own error is passed
// through unchanged; whether it counts against the window is decided by
// Config.IsFailure.
func (b *Breaker) Do(fn func() error) error {
	if err := b.acquire(); err != nil {
		return err
	}
	err := fn()
	b.record(!b.cfg.IsFailure(err))
	return err
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.halfOpenAdmitted = 1
		return nil
	case StateHalfOpen:
		if b.halfOpenAdmitted >= b.cfg.HalfOpenCalls {
			return ErrOpen
		}
		b.halfOpenAdmitted++
		return nil
	}
	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.push(!success)
		if b.count == b.cfg.WindowSize &&
			float64(b.failures)/float64(b.count) >= b.cfg.FailureRate {
			b.open()
		}
	case StateHalfOpen:
		if !success {
			b.open()
			return
		}
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.cfg.HalfOpenCalls {
			b.reset()
			b.transition(StateClosed)
		}
	case StateOpen:
		// A call admitted before the breaker opened finished late;
		// its outcome no longer matters.
	}
}

func (b *Breaker) push(failure bool) {
	if b.count == b.cfg.WindowSize {
		if b.window[b.idx] {
			b.failures--
		}
	} else {
		b.count++
	}
	b.window[b.idx] = failure
	if failure {
		b.failures++
	}
	b.idx = (b.idx + 1) % b.cfg.WindowSize
}

func (b *Breaker) open() {
	b.reset()
	b.openedAt = b.now()
	b.transition(StateOpen)
}

func (b *Breaker) reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.idx, b.count, b.failures = 0, 0, 0
	b.halfOpenAdmitted, b.halfOpenSuccesses = 0, 0
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	slog.Info("circuit breaker state changed",
		"breaker", b.name, "from", from.String(), "to", to.String())
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.name, from, to)
	}
}
