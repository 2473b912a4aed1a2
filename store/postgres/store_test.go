package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aloks98/devconnector/store"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/db?sslmode=disable", "pgx5://u:p@localhost:5432/db?sslmode=disable"},
		{"postgresql://u@db/app", "pgx5://u@db/app"},
		{"pgx5://u@db/app", "pgx5://u@db/app"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, migrateURL(tt.in))
	}
}

func TestMigrationsFS_PairsUpAndDown(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestNew_RequiresDSN(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)

	_, err = New(context.Background(), &Config{})
	assert.Error(t, err)

	_, err = New(context.Background(), &Config{DSN: "::not a dsn"})
	assert.Error(t, err)
}

func TestStore_UnreachableIsUnavailable(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, &Config{DSN: "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1"})
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.Ping(ctx), store.ErrStoreUnavailable)

	_, err = s.FindUserByID(ctx, "u-1")
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}
