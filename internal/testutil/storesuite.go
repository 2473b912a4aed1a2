package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloks98/devconnector/store"
)

// RunStoreSuite exercises the store.Store contract against a backend.
// newStore must return an empty, migrated store.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("PingAndMigrate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Ping(ctx))
		require.NoError(t, s.Migrate(ctx))
	})

	t.Run("CreateAndFindUser", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		user := NewUser("u-1", "ana@x.io")

		require.NoError(t, s.CreateUser(ctx, user))

		byEmail, err := s.FindUserByEmail(ctx, "ana@x.io")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, user.PasswordHash, byEmail.PasswordHash)
		assert.True(t, user.Date.Equal(byEmail.Date))

		byID, err := s.FindUserByID(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "ana@x.io", byID.Email)
	})

	t.Run("AbsentDocumentsAreNil", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u, err := s.FindUserByEmail(ctx, "nobody@x.io")
		require.NoError(t, err)
		assert.Nil(t, u)

		u, err = s.FindUserByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, u)

		p, err := s.FindProfileByOwner(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, p)

		profiles, err := s.ListProfiles(ctx)
		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.CreateUser(ctx, NewUser("u-1", "ana@x.io")))
		err := s.CreateUser(ctx, NewUser("u-2", "ana@x.io"))
		require.ErrorIs(t, err, store.ErrDuplicateEmail)

		u, err := s.FindUserByEmail(ctx, "ana@x.io")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
	})

	t.Run("DeleteUserFreesEmail", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.CreateUser(ctx, NewUser("u-1", "ana@x.io")))
		require.NoError(t, s.DeleteUser(ctx, "u-1"))
		require.NoError(t, s.DeleteUser(ctx, "u-1"))

		u, err := s.FindUserByID(ctx, "u-1")
		require.NoError(t, err)
		assert.Nil(t, u)

		require.NoError(t, s.CreateUser(ctx, NewUser("u-2", "ana@x.io")))
	})

	t.Run("UpsertProfileReplacesDocument", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateUser(ctx, NewUser("u-1", "ana@x.io")))

		p := NewProfile("u-1", time.Now())
		p.Experience = []store.ExperienceEntry{{ID: "e1", Title: "Dev", Company: "Acme", From: "2020-01-01"}}
		require.NoError(t, s.UpsertProfile(ctx, p))

		p.Status = "Lead"
		p.Skills = []string{"go", "go"}
		p.Social = store.Social{Twitter: "@ana"}
		require.NoError(t, s.UpsertProfile(ctx, p))

		got, err := s.FindProfileByOwner(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Lead", got.Status)
		assert.Equal(t, []string{"go", "go"}, got.Skills)
		assert.Equal(t, "@ana", got.Social.Twitter)
		require.Len(t, got.Experience, 1)
		assert.Equal(t, "e1", got.Experience[0].ID)
	})

	t.Run("UpsertProfileRequiresOwner", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.UpsertProfile(ctx, NewProfile("ghost", time.Now()))
		require.ErrorIs(t, err, store.ErrOwnerNotFound)
		assert.NotErrorIs(t, err, store.ErrStoreUnavailable)

		require.NoError(t, s.CreateUser(ctx, NewUser("u-1", "ana@x.io")))
		require.NoError(t, s.UpsertProfile(ctx, NewProfile("u-1", time.Now())))
		require.NoError(t, s.DeleteProfile(ctx, "u-1"))
		require.NoError(t, s.DeleteUser(ctx, "u-1"))

		err = s.UpsertProfile(ctx, NewProfile("u-1", time.Now()))
		require.ErrorIs(t, err, store.ErrOwnerNotFound)

		profiles, err := s.ListProfiles(ctx)
		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("ListProfilesOrderedByDate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		for i, id := range []string{"u-3", "u-1", "u-2"} {
			require.NoError(t, s.CreateUser(ctx, NewUser(id, id+"@x.io")))
			require.NoError(t, s.UpsertProfile(ctx, NewProfile(id, base.Add(time.Duration(i)*time.Minute))))
		}

		profiles, err := s.ListProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 3)
		assert.Equal(t, "u-3", profiles[0].UserID)
		assert.Equal(t, "u-1", profiles[1].UserID)
		assert.Equal(t, "u-2", profiles[2].UserID)
	})

	t.Run("DeleteProfile", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateUser(ctx, NewUser("u-1", "ana@x.io")))
		require.NoError(t, s.UpsertProfile(ctx, NewProfile("u-1", time.Now())))

		require.NoError(t, s.DeleteProfile(ctx, "u-1"))
		require.NoError(t, s.DeleteProfile(ctx, "u-1"))

		p, err := s.FindProfileByOwner(ctx, "u-1")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("ReturnedDocumentsAreCopies", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateUser(ctx, NewUser("u-1", "ana@x.io")))
		require.NoError(t, s.UpsertProfile(ctx, NewProfile("u-1", time.Now())))

		got, err := s.FindProfileByOwner(ctx, "u-1")
		require.NoError(t, err)
		got.Skills[0] = "cobol"

		again, err := s.FindProfileByOwner(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "go", again.Skills[0])
	})

	t.Run("Concurrent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("u-%d", i)
				assert.NoError(t, s.CreateUser(ctx, NewUser(id, id+"@x.io")))
				assert.NoError(t, s.UpsertProfile(ctx, NewProfile(id, time.Now())))
				_, err := s.FindProfileByOwner(ctx, id)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		profiles, err := s.ListProfiles(ctx)
		require.NoError(t, err)
		assert.Len(t, profiles, 10)
	})
}

// NewUser returns a user fixture with the given id and email.
func NewUser(id, email string) *store.User {
	return &store.User{
		ID:           id,
		Name:         "User " + id,
		Email:        email,
		Avatar:       "//www.gravatar.com/avatar/" + id,
		PasswordHash: "$2a$10$fixturefixturefixturefixturefixturefixturefixturefixt",
		Date:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// NewProfile returns a profile fixture owned by ownerID.
func NewProfile(ownerID string, date time.Time) *store.Profile {
	return &store.Profile{
		UserID: ownerID,
		Status: "Developer",
		Skills: []string{"go", "sql"},
		Date:   date.UTC().Truncate(time.Millisecond),
	}
}
