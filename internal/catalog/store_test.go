package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/anirange/internal/migrations"
)

func TestStore_MigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Migrate(ctx))

	all, err := migrations.All()
	require.NoError(t, err)

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, all[len(all)-1].Version, version)
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	store, err := Open(ctx, path, testLogger())
	require.NoError(t, err)
	r := parsed("[A] Show - 01 [1080p]")
	require.NoError(t, store.AddRelease(ctx, r))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetRelease(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Show", got.Title)
}

func TestMapSQLiteError(t *testing.T) {
	other := errors.New("disk I/O error")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), ErrNotFound},
		{"unique", errors.New("constraint failed: UNIQUE constraint failed: releases.info_hash (2067)"), ErrDuplicate},
		{"foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), ErrConstraint},
		{"check", errors.New("constraint failed: CHECK constraint failed: title != '' (275)"), ErrConstraint},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapSQLiteError(tt.err))
		})
	}
}

func TestErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrDuplicate, ErrConstraint, ErrInvalidRange}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}
