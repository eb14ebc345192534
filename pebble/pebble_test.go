// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.CacheSize = 1024 * 1024
	cfg.Sync = false
	db, err := New(t.TempDir(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)
	has, err := db.Has([]byte("missing"))
	require.NoError(err)
	require.False(has)

	require.NoError(db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)

	require.NoError(db.Delete([]byte("k")))
	_, err = db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Close())
	require.ErrorIs(db.Close(), database.ErrClosed)
	_, err = db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrClosed)
}

func TestBatch(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	defer db.Close()

	require.NoError(db.Put([]byte("old"), []byte{1}))

	batch := db.NewBatch()
	require.NoError(batch.Put([]byte("a"), []byte{2}))
	require.NoError(batch.Delete([]byte("old")))

	// Nothing is visible before the batch is written.
	_, err := db.Get([]byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(batch.Write())
	v, err := db.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	_, err = db.Get([]byte("old"))
	require.ErrorIs(err, database.ErrNotFound)
}
