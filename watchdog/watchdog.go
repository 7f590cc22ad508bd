// Package watchdog detects stalled shard loops. Each loop reports a
// heartbeat per tick; a shard whose heartbeat goes quiet longer than the
// configured limit trips the fault function.
package watchdog

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// A Watchdog tracks per-shard heartbeats. A zero max-stuck time disables
// checking; Beat stays cheap either way.
type Watchdog struct {
	maxStuck time.Duration
	interval time.Duration
	fault    func(name string, quiet time.Duration)
	log      *zap.Logger

	mu    sync.Mutex
	beats map[string]time.Time

	stop chan struct{}
	done chan struct{}
}

// New creates a watchdog. The default fault function panics naming the
// stalled shard.
func New(maxStuck time.Duration, log *zap.Logger) *Watchdog {
	w := &Watchdog{
		maxStuck: maxStuck,
		interval: maxStuck / 4,
		log:      log,
		beats:    make(map[string]time.Time),
	}

	if w.interval < time.Millisecond {
		w.interval = time.Millisecond
	}

	w.fault = func(name string, quiet time.Duration) {
		w.log.Panic("shard stalled",
			zap.String("shard", name), zap.Duration("quiet", quiet))
	}

	return w
}

// WithFaultFunc replaces the fault function.
func (w *Watchdog) WithFaultFunc(
	f func(name string, quiet time.Duration),
) *Watchdog {
	w.fault = f
	return w
}

// Enabled reports whether stall checking is configured at all.
func (w *Watchdog) Enabled() bool {
	return w.maxStuck > 0
}

// Beat records a heartbeat for a shard. Safe from any goroutine.
func (w *Watchdog) Beat(name string) {
	w.mu.Lock()
	w.beats[name] = time.Now()
	w.mu.Unlock()
}

// Start launches the checker goroutine. It does nothing when the watchdog
// is disabled.
func (w *Watchdog) Start() {
	if !w.Enabled() || w.stop != nil {
		return
	}

	w.stop = make(chan struct{})
	w.done = make(chan struct{})

	go w.run()

	w.log.Info("watchdog armed", zap.Duration("max_stuck", w.maxStuck))
}

// Stop terminates the checker goroutine and waits for it.
func (w *Watchdog) Stop() {
	if w.stop == nil {
		return
	}

	close(w.stop)
	<-w.done
	w.stop = nil
}

func (w *Watchdog) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watchdog) check() {
	now := time.Now()

	w.mu.Lock()
	type stalled struct {
		name  string
		quiet time.Duration
	}
	var tripped []stalled
	for name, last := range w.beats {
		if quiet := now.Sub(last); quiet > w.maxStuck {
			tripped = append(tripped, stalled{name: name, quiet: quiet})
		}
	}
	w.mu.Unlock()

	// Fault outside the lock; the default fault panics.
	for _, t := range tripped {
		w.fault(t.name, t.quiet)
	}
}
