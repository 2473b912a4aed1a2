// Package memory provides an in-memory store implementation for testing.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aloks98/devconnector/store"
)

var errClosed = errors.New("memory store is closed")

// Store is an in-memory implementation of the store.Store interface.
// It is intended for testing and development purposes.
type Store struct {
	mu sync.RWMutex

	users    map[string]*store.User
	emails   map[string]string
	profiles map[string]*store.Profile

	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[string]*store.User),
		emails:   make(map[string]string),
		profiles: make(map[string]*store.Profile),
	}
}

// Close marks the store as closed. Subsequent operations fail with
// store.ErrStoreUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping checks if the store is available.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check()
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

func (s *Store) check() error {
	if s.closed {
		return store.Unavailable(errClosed)
	}
	return nil
}

// CreateUser saves a new user, indexing it by email.
func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.emails[user.Email]; ok {
		return store.ErrDuplicateEmail
	}
	s.users[user.ID] = user.Clone()
	s.emails[user.Email] = user.ID
	return nil
}

// FindUserByEmail retrieves a user by email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	id, ok := s.emails[email]
	if !ok {
		return nil, nil
	}
	return s.users[id].Clone(), nil
}

// FindUserByID retrieves a user by id.
func (s *Store) FindUserByID(ctx context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.users[id].Clone(), nil
}

// DeleteUser removes a user and its email index entry.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if user, ok := s.users[id]; ok {
		delete(s.emails, user.Email)
		delete(s.users, id)
	}
	return nil
}

// FindProfileByOwner retrieves the profile owned by a user.
func (s *Store) FindProfileByOwner(ctx context.Context, ownerID string) (*store.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.profiles[ownerID].Clone(), nil
}

// ListProfiles returns copies of every profile, oldest first.
func (s *Store) ListProfiles(ctx context.Context) ([]*store.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	result := make([]*store.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p.Clone())
	}
	store.SortProfiles(result)
	return result, nil
}

// UpsertProfile replaces the owner's profile.
func (s *Store) UpsertProfile(ctx context.Context, profile *store.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	if _, ok := s.users[profile.UserID]; !ok {
		return store.ErrOwnerNotFound
	}
	s.profiles[profile.UserID] = profile.Clone()
	return nil
}

// DeleteProfile removes the owner's profile.
func (s *Store) DeleteProfile(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	delete(s.profiles, ownerID)
	return nil
}

var _ store.Store = (*Store)(nil)
