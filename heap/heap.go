// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package heap tracks items by the time after which they are no longer
// valid.
package heap

import (
	"container/heap"

	"github.com/ava-labs/avalanchego/ids"
)

// Deadlines orders items of [T] by their deadline, earliest first.
//
// Deadlines does not perform any synchronization.
type Deadlines[T any] struct {
	h *deadlineHeap[T]
}

func New[T any](size int) *Deadlines[T] {
	return &Deadlines[T]{
		h: &deadlineHeap[T]{
			entries: make([]*entry[T], 0, size),
			lookup:  make(map[ids.ID]*entry[T], size),
		},
	}
}

func (d *Deadlines[T]) Len() int { return len(d.h.entries) }

func (d *Deadlines[T]) Has(id ids.ID) bool {
	_, ok := d.h.lookup[id]
	return ok
}

// Push tracks [item] under [id] until [deadline]. It returns false and
// leaves d unchanged if [id] is already tracked.
func (d *Deadlines[T]) Push(id ids.ID, item T, deadline int64) bool {
	if d.Has(id) {
		return false
	}
	heap.Push(d.h, &entry[T]{id: id, item: item, deadline: deadline})
	return true
}

// Remove stops tracking [id].
func (d *Deadlines[T]) Remove(id ids.ID) (T, bool) {
	e, ok := d.h.lookup[id]
	if !ok {
		return *new(T), false
	}
	heap.Remove(d.h, e.index)
	return e.item, true
}

// Earliest returns the item with the smallest deadline.
func (d *Deadlines[T]) Earliest() (T, int64, bool) {
	if len(d.h.entries) == 0 {
		return *new(T), 0, false
	}
	e := d.h.entries[0]
	return e.item, e.deadline, true
}

// PopExpired removes and returns every item whose deadline is strictly
// before [t], earliest first.
func (d *Deadlines[T]) PopExpired(t int64) []T {
	var expired []T
	for len(d.h.entries) > 0 && d.h.entries[0].deadline < t {
		e := heap.Pop(d.h).(*entry[T])
		expired = append(expired, e.item)
	}
	return expired
}

type entry[T any] struct {
	id       ids.ID
	item     T
	deadline int64
	index    int
}

var _ heap.Interface = (*deadlineHeap[int])(nil)

type deadlineHeap[T any] struct {
	entries []*entry[T]
	lookup  map[ids.ID]*entry[T]
}

func (h *deadlineHeap[T]) Len() int { return len(h.entries) }

func (h *deadlineHeap[T]) Less(i, j int) bool {
	return h.entries[i].deadline < h.entries[j].deadline
}

func (h *deadlineHeap[T]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].index = i
	h.entries[j].index = j
}

func (h *deadlineHeap[T]) Push(x any) {
	e := x.(*entry[T])
	e.index = len(h.entries)
	h.entries = append(h.entries, e)
	h.lookup[e.id] = e
}

func (h *deadlineHeap[T]) Pop() any {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries[n-1] = nil
	h.entries = h.entries[:n-1]
	delete(h.lookup, e.id)
	return e
}
