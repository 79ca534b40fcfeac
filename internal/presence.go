package internal

import (
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// TypingSignal records the last moment an author was seen composing a
// message. At most one signal exists per author.
type TypingSignal struct {
	Author     string    `json:"author"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// PresenceRegistry tracks who is currently typing. Two windows govern it:
// signals younger than the active window count as "typing right now", and
// signals older than the reap window are physically removed by a periodic
// sweep. Reap is longer than active on purpose, so the visible threshold can
// tighten without changing the memory bound.
type PresenceRegistry struct {
	mu      sync.Mutex
	signals map[string]TypingSignal

	activeWindow time.Duration
	reapWindow   time.Duration

	now       func() time.Time
	sweeper   *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// NewPresenceRegistry starts the registry together with its sweep goroutine.
// Call Close to stop sweeping.
func NewPresenceRegistry(activeWindow, reapWindow, sweepInterval time.Duration) *PresenceRegistry {
	registry := &PresenceRegistry{
		signals:      make(map[string]TypingSignal),
		activeWindow: activeWindow,
		reapWindow:   reapWindow,
		now:          time.Now,
		sweeper:      time.NewTicker(sweepInterval),
		done:         make(chan struct{}),
	}
	go registry.sweepLoop()
	return registry
}

// Touch creates or refreshes the signal for author. It is safe to call at
// arbitrarily high frequency; repeated touches collapse into one entry.
func (p *PresenceRegistry) Touch(author string) (TypingSignal, error) {
	if strings.TrimSpace(author) == "" {
		return TypingSignal{}, newValidationError("author must not be empty")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	signal := TypingSignal{Author: author, LastSeenAt: p.now()}
	p.signals[author] = signal
	return signal, nil
}

// ActiveAuthors returns every author whose signal is younger than the active
// window, excluding the given author so users never see their own indicator.
// Order is unspecified.
func (p *PresenceRegistry) ActiveAuthors(excluding string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := p.now().Add(-p.activeWindow)
	fresh := lo.PickBy(p.signals, func(author string, signal TypingSignal) bool {
		return signal.LastSeenAt.After(cutoff)
	})
	authors := lo.Keys(fresh)
	if excluding != "" {
		authors = lo.Without(authors, excluding)
	}
	return authors
}

// Close stops the sweep goroutine. Idempotent.
func (p *PresenceRegistry) Close() {
	p.closeOnce.Do(func() {
		p.sweeper.Stop()
		close(p.done)
	})
}

func (p *PresenceRegistry) sweepLoop() {
	for {
		select {
		case <-p.sweeper.C:
			p.sweep()
		case <-p.done:
			return
		}
	}
}

// sweep runs one reap tick. A panic from a single tick must never kill the
// loop, so the whole pass is recovered.
func (p *PresenceRegistry) sweep() {
	defer func() {
		_ = recover()
	}()
	p.reap(p.now())
}

// reap drops every signal older than the reap window. Ages are read under
// the same lock Touch takes, so a touch landing during a sweep is never
// lost: the sweep always sees the freshest LastSeenAt.
func (p *PresenceRegistry) reap(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := now.Add(-p.reapWindow)
	for author, signal := range p.signals {
		if signal.LastSeenAt.Before(cutoff) {
			delete(p.signals, author)
		}
	}
}

// contains reports whether an entry is physically present, regardless of age.
func (p *PresenceRegistry) contains(author string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.signals[author]
	return ok
}
