// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"io"

	"github.com/ava-labs/avalanchego/database"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persistent store backing the ledger. avalanchego's memdb
// and the pebble package both satisfy it.
type Database interface {
	database.KeyValueReaderWriterDeleter
	database.Batcher
	io.Closer
}

var _ Immutable = (*ReadOnly)(nil)

// ReadOnly exposes a [Database] as [Immutable] state.
type ReadOnly struct {
	db database.KeyValueReader
}

func NewReadOnly(db database.KeyValueReader) *ReadOnly {
	return &ReadOnly{db: db}
}

func (r *ReadOnly) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.db.Get(key)
}
