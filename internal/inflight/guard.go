// Package inflight enforces at most one outstanding request per user action.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when the action already has a request in flight.
var ErrBusy = eris.New("inflight: action already in progress")

// Guard tracks one slot per named action. A second call for a busy action is
// rejected immediately; it is never queued.
type Guard struct {
	mu    sync.Mutex
	slots map[string]*actionSlot
}

type actionSlot struct {
	sem  *semaphore.Weighted
	held atomic.Bool
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{slots: make(map[string]*actionSlot)}
}

func (g *Guard) slot(action string) *actionSlot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.slots[action]
	if !ok {
		s = &actionSlot{sem: semaphore.NewWeighted(1)}
		g.slots[action] = s
	}
	return s
}

// Busy reports whether action currently has a request in flight. It never
// takes the slot itself.
func (g *Guard) Busy(action string) bool {
	return g.slot(action).held.Load()
}

// Do runs fn while holding the slot for action, or returns ErrBusy.
func (g *Guard) Do(ctx context.Context, action string, fn func(ctx context.Context) error) error {
	s := g.slot(action)
	if !s.sem.TryAcquire(1) {
		return eris.Wrapf(ErrBusy, "action %q", action)
	}
	s.held.Store(true)
	defer func() {
		s.held.Store(false)
		s.sem.Release(1)
	}()
	return fn(ctx)
}
