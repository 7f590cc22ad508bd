package world

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/event"
)

// UptimeSink receives the periodic uptime records the world produces.
type UptimeSink interface {
	RecordUptime(runID string, uptime time.Duration, sessions int) error
}

// Config holds the world parameters the daemon reads from its environment.
type Config struct {
	RealmID        int
	Shards         int
	TickInterval   time.Duration
	SessionTimeout time.Duration
	UptimePeriod   time.Duration
}

// A World is the collection of running shards plus the session registry.
// Shard zero carries the world's own bookkeeping units.
type World struct {
	cfg   Config
	runID string
	sink  UptimeSink
	log   *zap.Logger

	shards []*Shard

	mu       sync.Mutex
	sessions map[string]*Session

	started time.Time
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a stopped world. beat, if non-nil, is handed to every shard as
// its per-tick heartbeat.
func New(cfg Config, sink UptimeSink, beat func(name string), log *zap.Logger) *World {
	if cfg.Shards < 1 {
		cfg.Shards = 1
	}

	w := &World{
		cfg:      cfg,
		runID:    xid.New().String(),
		sink:     sink,
		log:      log,
		sessions: make(map[string]*Session),
	}

	for i := 0; i < cfg.Shards; i++ {
		name := fmt.Sprintf("shard-%02d", i)

		var setup func(*event.Scheduler)
		if i == 0 {
			setup = w.seedBookkeeping
		}

		w.shards = append(w.shards,
			NewShard(name, cfg.TickInterval, setup, beat, log))
	}

	return w
}

// seedBookkeeping runs on shard zero's goroutine before its first tick.
func (w *World) seedBookkeeping(s *event.Scheduler) {
	if w.sink != nil {
		u := newUptimeUnit(w, w.sink, s, w.cfg.UptimePeriod)
		s.Schedule(u, s.TimeFromNow(u.period))
	}

	if w.cfg.SessionTimeout > 0 {
		u := newSessionSweepUnit(w, s, w.cfg.SessionTimeout)
		s.Schedule(u, s.TimeFromNow(u.period))
	}
}

// RunID identifies this world run in persisted records.
func (w *World) RunID() string {
	return w.runID
}

// RealmID returns the realm this world serves.
func (w *World) RealmID() int {
	return w.cfg.RealmID
}

// Shards returns the world's shards.
func (w *World) Shards() []*Shard {
	return w.shards
}

// Uptime returns how long the world has been running.
func (w *World) Uptime() time.Duration {
	if w.started.IsZero() {
		return 0
	}
	return time.Since(w.started)
}

// Start launches every shard loop.
func (w *World) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.started = time.Now()

	for _, s := range w.shards {
		w.wg.Add(1)
		go func(s *Shard) {
			defer w.wg.Done()
			s.Run(ctx)
		}(s)
	}

	w.log.Info("world started",
		zap.String("run_id", w.runID),
		zap.Int("realm_id", w.cfg.RealmID),
		zap.Int("shards", len(w.shards)))
}

// Stop cancels every shard loop and waits for the schedulers to drain.
func (w *World) Stop() {
	if w.cancel == nil {
		return
	}

	w.cancel()
	w.wg.Wait()
	w.log.Info("world stopped", zap.String("run_id", w.runID))
}

// AddSession registers a session for an account and returns it.
func (w *World) AddSession(account string) *Session {
	s := newSession(account)

	w.mu.Lock()
	w.sessions[s.ID] = s
	w.mu.Unlock()

	w.log.Info("session opened",
		zap.String("session", s.ID), zap.String("account", account))

	return s
}

// RemoveSession drops a session. It reports whether the session existed.
func (w *World) RemoveSession(id string) bool {
	w.mu.Lock()
	_, ok := w.sessions[id]
	delete(w.sessions, id)
	w.mu.Unlock()

	if ok {
		w.log.Info("session closed", zap.String("session", id))
	}

	return ok
}

// Session returns a session by ID, or nil.
func (w *World) Session(id string) *Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessions[id]
}

// SessionCount returns the number of live sessions.
func (w *World) SessionCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}

// SessionIDs returns the IDs of every live session.
func (w *World) SessionIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]string, 0, len(w.sessions))
	for id := range w.sessions {
		ids = append(ids, id)
	}
	return ids
}

// expireIdleSessions drops every session idle longer than timeout and
// returns how many were dropped.
func (w *World) expireIdleSessions(timeout time.Duration) int {
	cutoff := time.Now().Add(-timeout)

	w.mu.Lock()
	var expired []string
	for id, s := range w.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(w.sessions, id)
	}
	w.mu.Unlock()

	for _, id := range expired {
		w.log.Info("session expired", zap.String("session", id))
	}

	return len(expired)
}
