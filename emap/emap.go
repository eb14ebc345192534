// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package emap

import (
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/heap"
)

// Expiries are grouped into one second buckets.
func bucketOf(t int64) int64 {
	return t - t%consts.MillisecondsPerSecond
}

type bucket struct {
	t   int64
	ids []ids.ID
}

// Item is anything with an id that stops being relevant after its expiry.
type Item interface {
	ID() ids.ID
	Expiry() int64
}

// EMap tracks the ids of items until their expiry passes. The ledger uses it
// to detect resubmitted groups without touching disk.
type EMap[T Item] struct {
	mu sync.RWMutex

	bh    *heap.Deadlines[*bucket]
	seen  set.Set[ids.ID]
	times map[int64]*bucket
}

func NewEMap[T Item]() *EMap[T] {
	return &EMap[T]{
		seen:  set.Set[ids.ID]{},
		times: make(map[int64]*bucket),
		bh:    heap.New[*bucket](120),
	}
}

// Add records [items]. Items already present are ignored.
func (e *EMap[T]) Add(items []T) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, item := range items {
		e.add(item.ID(), bucketOf(item.Expiry()))
	}
}

func (e *EMap[T]) add(id ids.ID, t int64) {
	if e.seen.Contains(id) {
		return
	}
	e.seen.Add(id)

	if b, ok := e.times[t]; ok {
		b.ids = append(b.ids, id)
		return
	}
	b := &bucket{
		t:   t,
		ids: []ids.ID{id},
	}
	e.times[t] = b
	// Buckets are keyed in the heap by the first id they hold.
	e.bh.Push(id, b, t)
}

// SetMin evicts every id whose expiry is before [t] and returns them.
func (e *EMap[T]) SetMin(t int64) []ids.ID {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := []ids.ID{}
	for _, b := range e.bh.PopExpired(t) {
		for _, id := range b.ids {
			e.seen.Remove(id)
			evicted = append(evicted, id)
		}
		delete(e.times, b.t)
	}
	return evicted
}

// Has reports whether [id] is tracked.
func (e *EMap[T]) Has(id ids.ID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.seen.Contains(id)
}

// Any returns true if any of [items] is tracked.
func (e *EMap[T]) Any(items []T) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, item := range items {
		if e.seen.Contains(item.ID()) {
			return true
		}
	}
	return false
}

func (e *EMap[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.seen.Len()
}
