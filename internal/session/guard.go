package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/domain"
)

// Identity is the transient copy of an authenticated user the guard holds
// for the lifetime of a session.
type Identity struct {
	ID    string
	Email string
}

// Session is what the identity service reports for the current sign-in, or
// nil when anonymous.
type Session struct {
	User *Identity
}

// Event classifies session change notifications.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

// Handler receives session change notifications. Handlers may be invoked
// while the identity service holds its own internal lock, so they must not
// call back into the service before returning.
type Handler func(event Event, session *Session)

// UserUpdate carries mutable fields for the signed-in user.
type UserUpdate struct {
	Password *string
}

// IdentityService is the auth capability the guard consumes.
type IdentityService interface {
	CurrentSession(ctx context.Context) (*Session, error)
	OnSessionChange(handler Handler) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	UpdateCurrentUser(ctx context.Context, update UserUpdate) error
}

// RoleChecker answers whether an identity holds a role. Errors are treated
// as "no" by the guard.
type RoleChecker interface {
	HasRole(ctx context.Context, userID string, role domain.Role) (bool, error)
}

// Snapshot is a consistent view of the guard state. IsAdmin is never true
// while User is nil. Loading is true until the pending role check (or the
// initial session fetch) settles.
type Snapshot struct {
	User    *Identity
	IsAdmin bool
	Loading bool
}

// Guard tracks who is signed in on one admin session and whether that
// identity holds the admin role. Identity updates from the notification
// channel are applied synchronously in delivery order; the role lookup for
// each identity runs on its own goroutine strictly after the notification
// handler returns, and its result is discarded if a newer identity has
// superseded it or the guard has been closed.
type Guard struct {
	identity IdentityService
	roles    RoleChecker
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	user    *Identity
	isAdmin bool
	loading bool
	readyCh chan struct{}
	gen     uint64
	closed  bool
	unsub   func()

	inflight sync.WaitGroup
}

// NewGuard builds a guard in the Initializing state.
func NewGuard(identity IdentityService, roles RoleChecker, logger *zap.Logger) *Guard {
	return &Guard{
		identity: identity,
		roles:    roles,
		logger:   logger,
		loading:  true,
		readyCh:  make(chan struct{}),
	}
}

// Start subscribes to session notifications and kicks off the initial
// session fetch. The given context bounds all background work; cancelling it
// has the same effect as Close for in-flight lookups.
func (g *Guard) Start(ctx context.Context) {
	g.ctx, g.cancel = context.WithCancel(ctx)
	g.unsub = g.identity.OnSessionChange(g.handleSessionChange)

	g.inflight.Add(1)
	go g.bootstrap()
}

// Close tears the guard down. Any lookup still in flight becomes a no-op.
func (g *Guard) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	unsub := g.unsub
	g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	if unsub != nil {
		unsub()
	}
}

// Snapshot returns the current state.
func (g *Guard) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// AwaitSnapshot blocks until the guard has settled (loading false) or the
// context expires, then returns the state.
func (g *Guard) AwaitSnapshot(ctx context.Context) (Snapshot, error) {
	for {
		g.mu.Lock()
		if !g.loading {
			snap := g.snapshotLocked()
			g.mu.Unlock()
			return snap, nil
		}
		ready := g.readyCh
		g.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}
}

// Login verifies credentials with the identity service. It sets no local
// state; the resulting signed-in notification drives the state transition.
// Credential errors are returned to the caller untouched.
func (g *Guard) Login(ctx context.Context, email, password string) error {
	return g.identity.SignInWithPassword(ctx, email, password)
}

// Logout clears the local identity and admin flag synchronously, then signs
// out remotely on a best-effort basis. The caller observes the anonymous
// state immediately regardless of network latency.
func (g *Guard) Logout() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.gen++
	g.user = nil
	g.isAdmin = false
	g.setLoadingLocked(false)
	ctx := g.ctx
	g.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		if err := g.identity.SignOut(ctx); err != nil {
			g.logger.Debug("sign out failed", zap.Error(err))
		}
	}()
}

// ChangePassword updates the signed-in user's password. Errors propagate to
// the caller.
func (g *Guard) ChangePassword(ctx context.Context, newPassword string) error {
	return g.identity.UpdateCurrentUser(ctx, UserUpdate{Password: &newPassword})
}

// handleSessionChange applies the delivered identity synchronously and
// schedules the admin-role lookup. It must never call back into the identity
// service: the notification may be delivered while the service holds its own
// lock.
func (g *Guard) handleSessionChange(_ Event, sess *Session) {
	var user *Identity
	if sess != nil {
		user = sess.User
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.gen++
	gen := g.gen
	g.user = user
	g.isAdmin = false
	if user == nil {
		g.setLoadingLocked(false)
		g.mu.Unlock()
		return
	}
	g.setLoadingLocked(true)
	userID := user.ID
	g.mu.Unlock()

	g.inflight.Add(1)
	go g.checkAdmin(gen, userID)
}

// bootstrap resolves the pre-existing session, if any. A fetch error leaves
// the guard anonymous with loading settled (fail closed). The result is
// dropped when a notification has already applied a newer identity.
func (g *Guard) bootstrap() {
	defer g.inflight.Done()

	g.mu.Lock()
	startGen := g.gen
	g.mu.Unlock()

	sess, err := g.identity.CurrentSession(g.ctx)

	g.mu.Lock()
	if g.closed || g.gen != startGen {
		g.mu.Unlock()
		return
	}
	if err != nil || sess == nil || sess.User == nil {
		if err != nil {
			g.logger.Debug("initial session fetch failed", zap.Error(err))
		}
		g.user = nil
		g.isAdmin = false
		g.setLoadingLocked(false)
		g.mu.Unlock()
		return
	}
	g.gen++
	gen := g.gen
	g.user = sess.User
	g.isAdmin = false
	g.setLoadingLocked(true)
	userID := sess.User.ID
	g.mu.Unlock()

	g.inflight.Add(1)
	go g.checkAdmin(gen, userID)
}

// checkAdmin resolves the role lookup issued for one specific identity
// generation. Lookup errors fail closed to non-admin. Results for a
// superseded generation or a closed guard are discarded without touching
// state; the superseding flow owns the loading flag.
func (g *Guard) checkAdmin(gen uint64, userID string) {
	defer g.inflight.Done()

	isAdmin, err := g.roles.HasRole(g.ctx, userID, domain.RoleAdmin)
	if err != nil {
		g.logger.Debug("role check failed; treating as non-admin",
			zap.String("user_id", userID), zap.Error(err))
		isAdmin = false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || gen != g.gen {
		return
	}
	g.isAdmin = isAdmin
	g.setLoadingLocked(false)
}

func (g *Guard) snapshotLocked() Snapshot {
	snap := Snapshot{IsAdmin: g.isAdmin, Loading: g.loading}
	if g.user != nil {
		copied := *g.user
		snap.User = &copied
	}
	return snap
}

func (g *Guard) setLoadingLocked(loading bool) {
	if g.loading == loading {
		return
	}
	g.loading = loading
	if loading {
		g.readyCh = make(chan struct{})
	} else {
		close(g.readyCh)
	}
}
