package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/auth"
	"github.com/simplificateurs/advisory-api/internal/repository"
	"github.com/simplificateurs/advisory-api/internal/session"
)

// ErrNoActiveSession is returned by operations that require a signed-in user.
var ErrNoActiveSession = errors.New("no active session")

// Provider implements session.IdentityService over the users repository for
// a single admin session. Subscribed handlers run while the provider lock is
// held; they must not call back into the provider before returning.
type Provider struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger

	mu       sync.Mutex
	current  *session.Session
	handlers map[int]session.Handler
	nextID   int
}

// NewProvider builds an anonymous provider.
func NewProvider(users repository.UserRepository, bcryptCost int, logger *zap.Logger) *Provider {
	return &Provider{
		users:      users,
		bcryptCost: bcryptCost,
		logger:     logger,
		handlers:   make(map[int]session.Handler),
	}
}

// CurrentSession reports the session established on this provider, or nil.
func (p *Provider) CurrentSession(_ context.Context) (*session.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copySession(p.current), nil
}

// OnSessionChange registers a handler for subsequent session transitions.
func (p *Provider) OnSessionChange(handler session.Handler) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.handlers, id)
		p.mu.Unlock()
	}
}

// SignInWithPassword verifies credentials and, on success, establishes the
// session and notifies subscribers. Credential failures are indistinct
// between unknown email and wrong password.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) error {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errors.New("invalid credentials")
		}
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return errors.New("invalid credentials")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = &session.Session{User: &session.Identity{ID: user.ID, Email: user.Email}}
	p.notifyLocked(session.EventSignedIn)
	return nil
}

// SignOut clears the session and notifies subscribers.
func (p *Provider) SignOut(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	p.current = nil
	p.notifyLocked(session.EventSignedOut)
	return nil
}

// UpdateCurrentUser applies mutable fields to the signed-in user.
func (p *Provider) UpdateCurrentUser(ctx context.Context, update session.UserUpdate) error {
	p.mu.Lock()
	current := copySession(p.current)
	p.mu.Unlock()

	if current == nil || current.User == nil {
		return ErrNoActiveSession
	}

	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password, p.bcryptCost)
		if err != nil {
			return err
		}
		if err := p.users.UpdatePassword(ctx, current.User.ID, hash); err != nil {
			return err
		}
		p.logger.Info("password updated", zap.String("user_id", current.User.ID))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.notifyLocked(session.EventUserUpdated)
	}
	return nil
}

// notifyLocked invokes every handler with the current session. Callers hold
// p.mu, which is exactly the reentrancy hazard guard handlers are written
// around: a handler that called back into the provider would deadlock here.
func (p *Provider) notifyLocked(event session.Event) {
	sess := copySession(p.current)
	for _, handler := range p.handlers {
		handler(event, sess)
	}
}

func copySession(sess *session.Session) *session.Session {
	if sess == nil {
		return nil
	}
	copied := session.Session{}
	if sess.User != nil {
		user := *sess.User
		copied.User = &user
	}
	return &copied
}
