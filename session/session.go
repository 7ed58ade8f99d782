// Package session keeps one agent and one conversation memory per conversation.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/bububa/lifelog-agent/components"
)

// Agent answers one query
type Agent interface {
	ProcessQuery(ctx context.Context, query string) (string, error)
}

// Factory builds the agent of a new conversation
type Factory func(ctx context.Context, id string) (Agent, error)

// Session is the state owned by one conversation
type Session struct {
	ID       string
	Agent    Agent
	Memory   *components.Memory
	mu       sync.Mutex
	lastSeen *atomic.Time
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	return s.lastSeen.Load()
}

type Options struct {
	maxTurns int
	logger   zerolog.Logger
	now      func() time.Time
}

type Option func(*Options)

// WithMaxTurns bounds each conversation memory to n user+assistant pairs
func WithMaxTurns(n int) Option {
	return func(o *Options) {
		o.maxTurns = n
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// WithClock overrides the clock used for idle tracking
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.now = now
	}
}

// Store maps conversation ids to sessions, creating them on first use
type Store struct {
	Options
	factory  Factory
	mu       sync.Mutex
	sessions map[string]*Session
	created  *atomic.Int64
	evicted  *atomic.Int64
}

func NewStore(factory Factory, opts ...Option) *Store {
	ret := &Store{
		Options: Options{
			maxTurns: 10,
			logger:   zerolog.Nop(),
			now:      time.Now,
		},
		factory:  factory,
		sessions: make(map[string]*Session),
		created:  atomic.NewInt64(0),
		evicted:  atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// Get returns the session of id, creating it when missing
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen.Store(s.now())
		return sess, nil
	}
	agent, err := s.factory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("create agent for %s: %w", id, err)
	}
	sess := &Session{
		ID:       id,
		Agent:    agent,
		Memory:   components.NewConversationMemory(s.maxTurns),
		lastSeen: atomic.NewTime(s.now()),
	}
	s.sessions[id] = sess
	s.created.Inc()
	s.logger.Debug().Str("session", id).Msg("session created")
	return sess, nil
}

// Do runs fn with the session of id, calls for the same id never overlap
func (s *Store) Do(ctx context.Context, id string, fn func(*Session) error) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	defer sess.lastSeen.Store(s.now())
	return fn(sess)
}

// Evict drops sessions idle for longer than ttl and returns how many were dropped.
// Sessions in use are kept.
func (s *Store) Evict(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline := s.now().Add(-ttl)
	var n int
	for id, sess := range s.sessions {
		if !sess.LastSeen().Before(deadline) {
			continue
		}
		if !sess.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		sess.mu.Unlock()
		n++
		s.logger.Debug().Str("session", id).Msg("session evicted")
	}
	s.evicted.Add(int64(n))
	return n
}

// Janitor evicts idle sessions every interval until ctx is done
func (s *Store) Janitor(ctx context.Context, interval time.Duration, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict(ttl)
		}
	}
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stats returns how many sessions were created and evicted so far
func (s *Store) Stats() (created int64, evicted int64) {
	return s.created.Load(), s.evicted.Load()
}
