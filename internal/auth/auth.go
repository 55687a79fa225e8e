// Package auth is the simulated sign-in of a device. Credentials are only
// checked for shape; nothing is verified and no password is stored.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/joshua-takyi/localinsights/internal/models"
)

const MinPasswordLength = 6

// SessionStore persists the signed-in user of one device.
type SessionStore interface {
	LoadSession(ctx context.Context) (*models.User, error)
	SaveSession(ctx context.Context, user models.User) error
	ClearSession(ctx context.Context) error
}

type Option func(*Store)

// WithClock replaces time.Now for user creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the uuid generator for user ids.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Store drives the session state machine for one device and keeps the
// persisted session in step with it.
type Store struct {
	mu      sync.Mutex
	state   State
	session SessionStore
	users   models.UserDirectory
	now     func() time.Time
	newID   func() string
}

func New(session SessionStore, users models.UserDirectory, opts ...Option) *Store {
	s := &Store{
		session: session,
		users:   users,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Restore rehydrates the session saved for this device. A record that can
// not be decoded is removed and the device stays anonymous.
func (s *Store) Restore(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.session.LoadSession(ctx)
	if errors.Is(err, models.ErrCorruptRecord) {
		if clearErr := s.session.ClearSession(ctx); clearErr != nil {
			return s.state, fmt.Errorf("failed to clear corrupt session: %w", clearErr)
		}
		s.state = State{}
		return s.state, nil
	}
	if err != nil {
		return s.state, fmt.Errorf("failed to load session: %w", err)
	}
	if user == nil {
		s.state = State{}
		return s.state, nil
	}
	s.state = Reduce(s.state, LoginSuccess{User: *user})
	return s.state, nil
}

// Login accepts any non-empty email with a long enough password. A
// registered user with that email is reused; otherwise one is made up from
// the email and not added to the directory.
func (s *Store) Login(ctx context.Context, email, password string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transition(ctx, LoginStart{}); err != nil {
		return s.state, err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return s.fail(ctx, ErrMissingFields)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return s.fail(ctx, ErrPasswordTooShort)
	}

	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("failed to look up user: %w", err))
	}

	var user models.User
	if existing != nil {
		user = *existing
	} else {
		name := localPart(email)
		user = models.User{
			ID:        s.newID(),
			Name:      name,
			Email:     email,
			Avatar:    models.AvatarFor(name),
			CreatedAt: s.now().UTC(),
		}
	}

	if err := s.transition(ctx, LoginSuccess{User: user}); err != nil {
		return s.state, err
	}
	return s.state, nil
}

// Register adds a user to the directory and signs the device in as them.
func (s *Store) Register(ctx context.Context, name, email, password string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transition(ctx, LoginStart{}); err != nil {
		return s.state, err
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return s.fail(ctx, ErrMissingFields)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return s.fail(ctx, ErrPasswordTooShort)
	}

	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("failed to look up user: %w", err))
	}
	if existing != nil {
		return s.fail(ctx, ErrEmailTaken)
	}

	user := models.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Avatar:    models.AvatarFor(name),
		CreatedAt: s.now().UTC(),
	}
	// another device may have taken the email since the lookup
	if err := s.users.AddUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			return s.fail(ctx, ErrEmailTaken)
		}
		return s.fail(ctx, fmt.Errorf("failed to save user: %w", err))
	}

	if err := s.transition(ctx, RegisterSuccess{User: user}); err != nil {
		return s.state, err
	}
	return s.state, nil
}

func (s *Store) Logout(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transition(ctx, Logout{}); err != nil {
		return s.state, err
	}
	return s.state, nil
}

// fail settles the state as anonymous and returns cause.
func (s *Store) fail(ctx context.Context, cause error) (State, error) {
	if err := s.transition(ctx, LoginFailure{}); err != nil {
		return s.state, errors.Join(cause, err)
	}
	return s.state, cause
}

// transition applies a and writes the session through when the user changed.
func (s *Store) transition(ctx context.Context, a Action) error {
	prev := s.state.User
	s.state = Reduce(s.state, a)
	if sameUser(prev, s.state.User) {
		return nil
	}
	if s.state.User != nil {
		if err := s.session.SaveSession(ctx, *s.state.User); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	}
	if err := s.session.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
