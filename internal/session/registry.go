package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GuardFactory builds a fresh guard bound to its own identity service
// instance. One guard exists per active admin session; guards are never
// shared across sessions.
type GuardFactory func() *Guard

// Registry owns the running guards, keyed by opaque session id. Sessions
// idle past the TTL are reaped.
type Registry struct {
	factory GuardFactory
	ttl     time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

type registryEntry struct {
	guard    *Guard
	lastSeen time.Time
}

// NewRegistry constructs an empty registry.
func NewRegistry(factory GuardFactory, ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		factory:  factory,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*registryEntry),
	}
}

// Open creates and starts a guard for a new session, returning its id.
func (r *Registry) Open(ctx context.Context) (string, *Guard) {
	guard := r.factory()
	guard.Start(ctx)

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &registryEntry{guard: guard, lastSeen: time.Now()}
	r.mu.Unlock()
	return id, guard
}

// Lookup resolves a session id to its guard and refreshes its idle timer.
func (r *Registry) Lookup(id string) (*Guard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.guard, true
}

// Close tears down one session.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if ok {
		entry.guard.Close()
	}
}

// CloseAll tears down every session, for shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := make([]*registryEntry, 0, len(r.sessions))
	for id, entry := range r.sessions {
		entries = append(entries, entry)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	for _, entry := range entries {
		entry.guard.Close()
	}
}

// StartReaper closes idle sessions in the background until ctx is done.
func (r *Registry) StartReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.reapIdle()
			}
		}
	}()
}

func (r *Registry) reapIdle() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*registryEntry
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, entry := range stale {
		entry.guard.Close()
	}
	if len(stale) > 0 {
		r.logger.Info("reaped idle admin sessions", zap.Int("count", len(stale)))
	}
}
