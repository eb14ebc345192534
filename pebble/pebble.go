// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"
)

var _ database.KeyValueReaderWriterDeleter = (*Database)(nil)

type Config struct {
	CacheSize                   int64
	BytesPerSync                int
	WALBytesPerSync             int
	MemTableStopWritesThreshold int
	MaxOpenFiles                int
	ConcurrentCompactions       int
	Sync                        bool
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   512 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       runtime.NumCPU(),
		Sync:                        true,
	}
}

// Database is a key-value store backed by pebble.
type Database struct {
	db      *pebble.DB
	sync    *pebble.WriteOptions
	metrics *metrics

	closed    atomic.Bool
	closing   chan struct{}
	closeOnce sync.Once
}

func New(file string, cfg Config, registerer prometheus.Registerer) (*Database, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	d := &Database{
		sync:    pebble.NoSync,
		metrics: m,
		closing: make(chan struct{}),
	}
	if cfg.Sync {
		d.sync = pebble.Sync
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, err
	}
	d.db = db
	go d.collectMetrics()
	return d, nil
}

func (db *Database) Close() error {
	if db.closed.Swap(true) {
		return database.ErrClosed
	}
	db.closeOnce.Do(func() { close(db.closing) })
	return db.db.Close()
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (db *Database) Get(key []byte) ([]byte, error) {
	if db.closed.Load() {
		return nil, database.ErrClosed
	}
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// [data] is only valid until [closer] is closed.
	value := slices.Clone(data)
	return value, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	if db.closed.Load() {
		return database.ErrClosed
	}
	return db.db.Set(key, value, db.sync)
}

func (db *Database) Delete(key []byte) error {
	if db.closed.Load() {
		return database.ErrClosed
	}
	return db.db.Delete(key, db.sync)
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

var _ database.Batch = (*batch)(nil)

// batch buffers operations until [Write] commits them atomically.
type batch struct {
	database.BatchOps

	db *Database
}

func (b *batch) Write() error {
	if b.db.closed.Load() {
		return database.ErrClosed
	}
	pb := b.db.db.NewBatch()
	for _, op := range b.Ops {
		var err error
		if op.Delete {
			err = pb.Delete(op.Key, nil)
		} else {
			err = pb.Set(op.Key, op.Value, nil)
		}
		if err != nil {
			_ = pb.Close()
			return err
		}
	}
	return pb.Commit(b.db.sync)
}

func (b *batch) Inner() database.Batch {
	return b
}
