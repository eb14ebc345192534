// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"

	"github.com/dumbly-labs/taxvm/heap"
)

const maxPrealloc = 4_096

type Item interface {
	ID() ids.ID
	Expiry() int64
	Payer() string
	Size() int
}

// Mempool holds admitted items in arrival order. Items are handed to the
// block builder first-in first-out and dropped once their expiry passes.
type Mempool[T Item] struct {
	tracer trace.Tracer

	mu sync.RWMutex

	maxSize      int
	maxPayerSize int

	pending *queue[T]
	lookup  map[ids.ID]*element[T]
	expiry  *heap.Deadlines[*element[T]]
	owned   map[string]int
	size    int
}

// New creates a [Mempool] holding at most [maxSize] items, of which at most
// [maxPayerSize] may share a payer.
func New[T Item](tracer trace.Tracer, maxSize int, maxPayerSize int) *Mempool[T] {
	return &Mempool[T]{
		tracer:       tracer,
		maxSize:      maxSize,
		maxPayerSize: maxPayerSize,
		pending:      &queue[T]{},
		lookup:       map[ids.ID]*element[T]{},
		expiry:       heap.New[*element[T]](min(maxSize, maxPrealloc)),
		owned:        map[string]int{},
	}
}

func (m *Mempool[T]) Has(ctx context.Context, id ids.ID) bool {
	_, span := m.tracer.Start(ctx, "Mempool.Has")
	defer span.End()

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.lookup[id]
	return ok
}

// Add appends [item] to the back of the queue.
func (m *Mempool[T]) Add(ctx context.Context, item T) error {
	_, span := m.tracer.Start(ctx, "Mempool.Add")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	id := item.ID()
	if _, ok := m.lookup[id]; ok {
		return ErrDuplicateItem
	}
	if len(m.lookup) >= m.maxSize {
		return ErrMempoolFull
	}
	payer := item.Payer()
	if m.owned[payer] >= m.maxPayerSize {
		return ErrPayerLimit
	}
	m.track(m.pending.pushBack(item))
	return nil
}

func (m *Mempool[T]) track(e *element[T]) {
	item := e.item
	m.lookup[item.ID()] = e
	m.expiry.Push(item.ID(), e, item.Expiry())
	m.owned[item.Payer()]++
	m.size += item.Size()
}

func (m *Mempool[T]) untrack(e *element[T]) T {
	item := m.pending.remove(e)
	id := item.ID()
	delete(m.lookup, id)
	m.expiry.Remove(id)
	payer := item.Payer()
	m.owned[payer]--
	if m.owned[payer] <= 0 {
		delete(m.owned, payer)
	}
	m.size -= item.Size()
	return item
}

// PopNext removes and returns the oldest item.
func (m *Mempool[T]) PopNext(ctx context.Context) (T, bool) {
	_, span := m.tracer.Start(ctx, "Mempool.PopNext")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.pending.first()
	if e == nil {
		return *new(T), false
	}
	return m.untrack(e), true
}

// Restore puts [item] back at the front of the queue, bypassing the size
// limits it already passed once.
func (m *Mempool[T]) Restore(ctx context.Context, item T) {
	_, span := m.tracer.Start(ctx, "Mempool.Restore")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup[item.ID()]; ok {
		return
	}
	m.track(m.pending.pushFront(item))
}

// Len returns the number of items in m.
func (m *Mempool[T]) Len(ctx context.Context) int {
	_, span := m.tracer.Start(ctx, "Mempool.Len")
	defer span.End()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lookup)
}

// Size returns the sum of the sizes of all items in m.
func (m *Mempool[T]) Size(ctx context.Context) int {
	_, span := m.tracer.Start(ctx, "Mempool.Size")
	defer span.End()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// SetMinTimestamp removes and returns every item whose expiry is before [t].
func (m *Mempool[T]) SetMinTimestamp(ctx context.Context, t int64) []T {
	_, span := m.tracer.Start(ctx, "Mempool.SetMinTimestamp")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	expired := m.expiry.PopExpired(t)
	removed := make([]T, 0, len(expired))
	for _, e := range expired {
		removed = append(removed, m.untrack(e))
	}
	return removed
}
