// Package feedback holds short-lived "copied" presentation state for copy
// actions. None of it is persisted or consulted by business logic.
package feedback

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// CopiedLabel replaces a control's label while its copy feedback is live.
const CopiedLabel = "Copied ✓"

// WriteFunc places text on the clipboard.
type WriteFunc func(text string) error

// Option configures a Copier.
type Option func(*Copier)

// WithWriter replaces the system clipboard writer.
func WithWriter(w WriteFunc) Option {
	return func(c *Copier) {
		c.write = w
	}
}

// Exclusive makes a new copy clear every other key's feedback, so at most one
// key reads as copied at a time.
func Exclusive() Option {
	return func(c *Copier) {
		c.exclusive = true
	}
}

// Copier copies text and remembers, for a bounded time, which keys were
// copied.
type Copier struct {
	write     WriteFunc
	ttl       time.Duration
	exclusive bool

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewCopier creates a copier whose feedback expires after ttl.
func NewCopier(ttl time.Duration, opts ...Option) *Copier {
	c := &Copier{
		write:  clipboard.WriteAll,
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Copy writes text to the clipboard and reports whether it succeeded. A
// failed copy never returns an error; it clears the key's feedback instead.
func (c *Copier) Copy(key, text string) bool {
	if err := c.write(text); err != nil {
		zap.L().Debug("feedback: copy failed", zap.String("key", key), zap.Error(err))
		c.clear(key)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exclusive {
		for k, t := range c.timers {
			t.Stop()
			delete(c.timers, k)
		}
	}
	if t, ok := c.timers[key]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(c.ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.timers[key] == t {
			delete(c.timers, key)
		}
	})
	c.timers[key] = t
	return true
}

// Copied reports whether key's feedback is still live.
func (c *Copier) Copied(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.timers[key]
	return ok
}

// Label returns CopiedLabel while key's feedback is live, otherwise normal.
func (c *Copier) Label(key, normal string) string {
	if c.Copied(key) {
		return CopiedLabel
	}
	return normal
}

// Stop cancels every pending expiry and clears all feedback.
func (c *Copier) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, t := range c.timers {
		t.Stop()
		delete(c.timers, k)
	}
}

func (c *Copier) clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[key]; ok {
		t.Stop()
		delete(c.timers, key)
	}
}
