// Package store defines the document persistence contract for users and profiles.
package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail indicates a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrOwnerNotFound indicates a profile write names a user that does not exist.
	ErrOwnerNotFound = errors.New("profile owner does not exist")

	// ErrStoreUnavailable indicates the backing store could not serve the request.
	ErrStoreUnavailable = errors.New("store is unavailable")
)

// Unavailable wraps a backend failure so it matches ErrStoreUnavailable.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Store defines the interface for document persistence.
// All methods should be safe for concurrent use. Lookups of absent
// documents return (nil, nil).
type Store interface {
	// Lifecycle methods

	// Close releases any resources held by the store.
	Close() error

	// Ping verifies the store connection is alive.
	Ping(ctx context.Context) error

	// Migrate creates or updates the storage schema.
	Migrate(ctx context.Context) error

	UserStore
	ProfileStore
}

// UserStore persists user credentials keyed by id and by email.
type UserStore interface {
	// CreateUser persists a new user. It returns ErrDuplicateEmail when
	// the email is taken.
	CreateUser(ctx context.Context, user *User) error

	// FindUserByEmail retrieves a user by email.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// FindUserByID retrieves a user by id.
	FindUserByID(ctx context.Context, id string) (*User, error)

	// DeleteUser removes a user and its email index. Removing an absent
	// user is not an error.
	DeleteUser(ctx context.Context, id string) error
}

// ProfileStore persists one profile document per owner.
type ProfileStore interface {
	// FindProfileByOwner retrieves the profile owned by a user.
	FindProfileByOwner(ctx context.Context, ownerID string) (*Profile, error)

	// ListProfiles returns every profile ordered by creation date, then owner.
	ListProfiles(ctx context.Context) ([]*Profile, error)

	// UpsertProfile replaces the owner's profile document, creating it if
	// needed. It returns ErrOwnerNotFound when the owner is not a stored user.
	UpsertProfile(ctx context.Context, profile *Profile) error

	// DeleteProfile removes the owner's profile. Removing an absent
	// profile is not an error.
	DeleteProfile(ctx context.Context, ownerID string) error
}
