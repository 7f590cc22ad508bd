package world

import (
	"sync/atomic"
	"time"

	"github.com/rs/xid"
)

// A Session is one connected account. The last-seen stamp is atomic so any
// goroutine can touch a session without entering a shard loop.
type Session struct {
	ID      string
	Account string

	opened   time.Time
	lastSeen atomic.Int64
}

func newSession(account string) *Session {
	s := &Session{
		ID:      xid.New().String(),
		Account: account,
		opened:  time.Now(),
	}
	s.lastSeen.Store(s.opened.UnixNano())
	return s
}

// Touch marks the session as active now.
func (s *Session) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen returns the time of the last Touch.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Opened returns when the session was created.
func (s *Session) Opened() time.Time {
	return s.opened
}
