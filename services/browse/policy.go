package browse

import (
	"sync"
	"time"
)

// QueryPolicy decides when a changed search term turns into a fetch.
type QueryPolicy interface {
	// Schedule arranges for fire(query) to be called for the latest query.
	Schedule(query string, fire func(query string))
	// Stop drops anything still pending.
	Stop()
}

// Immediate fires a fetch synchronously for every change.
func Immediate() QueryPolicy {
	return immediatePolicy{}
}

type immediatePolicy struct{}

func (immediatePolicy) Schedule(query string, fire func(string)) { fire(query) }
func (immediatePolicy) Stop()                                    {}

// Debounce fires only after d has passed without another change. A zero or
// negative d behaves like Immediate.
func Debounce(d time.Duration) QueryPolicy {
	if d <= 0 {
		return Immediate()
	}
	return &debouncePolicy{delay: d}
}

type debouncePolicy struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func (p *debouncePolicy) Schedule(query string, fire func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, func() {
		fire(query)
	})
}

func (p *debouncePolicy) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
