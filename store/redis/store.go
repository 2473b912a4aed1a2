// Package redis provides Redis storage for user and profile documents.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aloks98/devconnector/store"
)

// Key prefixes for Redis storage.
const (
	prefixUser       = "devconnector:user:"
	prefixUserEmail  = "devconnector:user_email:"
	prefixProfile    = "devconnector:profile:"
	keyProfileOwners = "devconnector:profile_owners"
)

// Store implements store.Store using Redis.
type Store struct {
	client redis.UniversalClient
}

// Config holds Redis store configuration.
type Config struct {
	// Client is an existing Redis client.
	// If provided, other options are ignored.
	Client redis.UniversalClient

	// Addr is the Redis server address (host:port).
	Addr string

	// Password is the Redis password.
	Password string

	// DB is the Redis database number.
	DB int

	// PoolSize is the maximum number of connections.
	PoolSize int
}

// New creates a new Redis store.
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("redis store: config is required")
	}

	var client redis.UniversalClient

	if cfg.Client != nil {
		client = cfg.Client
	} else {
		if cfg.Addr == "" {
			return nil, errors.New("redis store: address is required")
		}
		opts := &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
		if cfg.PoolSize > 0 {
			opts.PoolSize = cfg.PoolSize
		}
		client = redis.NewClient(opts)
	}

	return &Store{client: client}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return store.Unavailable(err)
	}
	return nil
}

// Migrate is a no-op for Redis as it doesn't require schema migration.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

// CreateUser claims the email index with SETNX, then writes the user document.
func (s *Store) CreateUser(ctx context.Context, user *store.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("redis store: encode user: %w", err)
	}

	claimed, err := s.client.SetNX(ctx, prefixUserEmail+user.Email, user.ID, 0).Result()
	if err != nil {
		return store.Unavailable(err)
	}
	if !claimed {
		return store.ErrDuplicateEmail
	}

	if err := s.client.Set(ctx, prefixUser+user.ID, data, 0).Err(); err != nil {
		// Release the email so a retry can succeed.
		s.client.Del(ctx, prefixUserEmail+user.Email)
		return store.Unavailable(err)
	}
	return nil
}

// FindUserByEmail resolves the email index, then loads the user.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*store.User, error) {
	id, err := s.client.Get(ctx, prefixUserEmail+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, store.Unavailable(err)
	}
	return s.FindUserByID(ctx, id)
}

// FindUserByID retrieves a user by id.
func (s *Store) FindUserByID(ctx context.Context, id string) (*store.User, error) {
	var user store.User
	found, err := s.getJSON(ctx, prefixUser+id, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the user document and its email index.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	user, err := s.FindUserByID(ctx, id)
	if err != nil || user == nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, prefixUser+id)
	pipe.Del(ctx, prefixUserEmail+user.Email)
	if _, err := pipe.Exec(ctx); err != nil {
		return store.Unavailable(err)
	}
	return nil
}

// FindProfileByOwner retrieves the profile owned by a user.
func (s *Store) FindProfileByOwner(ctx context.Context, ownerID string) (*store.Profile, error) {
	var profile store.Profile
	found, err := s.getJSON(ctx, prefixProfile+ownerID, &profile)
	if err != nil || !found {
		return nil, err
	}
	return &profile, nil
}

// ListProfiles loads every profile in the owner set.
func (s *Store) ListProfiles(ctx context.Context) ([]*store.Profile, error) {
	owners, err := s.client.SMembers(ctx, keyProfileOwners).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}
	if len(owners) == 0 {
		return []*store.Profile{}, nil
	}

	keys := make([]string, len(owners))
	for i, owner := range owners {
		keys[i] = prefixProfile + owner
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}

	profiles := make([]*store.Profile, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Deleted between SMEMBERS and MGET.
			continue
		}
		var p store.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("redis store: decode profile: %w", err)
		}
		profiles = append(profiles, &p)
	}

	store.SortProfiles(profiles)
	return profiles, nil
}

// UpsertProfile writes the profile document and registers its owner. The
// owner's user key is watched so a concurrent DeleteUser aborts the write.
func (s *Store) UpsertProfile(ctx context.Context, profile *store.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("redis store: encode profile: %w", err)
	}

	userKey := prefixUser + profile.UserID
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, userKey).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrOwnerNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, prefixProfile+profile.UserID, data, 0)
			pipe.SAdd(ctx, keyProfileOwners, profile.UserID)
			return nil
		})
		return err
	}, userKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrOwnerNotFound), errors.Is(err, redis.TxFailedErr):
		// User keys are only ever written again by DeleteUser.
		return store.ErrOwnerNotFound
	default:
		return store.Unavailable(err)
	}
}

// DeleteProfile removes the profile document and its owner registration.
func (s *Store) DeleteProfile(ctx context.Context, ownerID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, prefixProfile+ownerID)
	pipe.SRem(ctx, keyProfileOwners, ownerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return store.Unavailable(err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, store.Unavailable(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("redis store: decode %s: %w", key, err)
	}
	return true, nil
}

var _ store.Store = (*Store)(nil)
