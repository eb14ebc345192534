// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

// queue is a doubly linked list that supports removal from the middle, which
// a FIFO pool needs when groups expire or are evicted out of order.
type queue[T Item] struct {
	root element[T]
	size int
}

type element[T Item] struct {
	prev, next *element[T]
	owner      *queue[T]

	item T
}

func (q *queue[T]) lazyInit() {
	if q.root.next == nil {
		q.root.next = &q.root
		q.root.prev = &q.root
	}
}

func (q *queue[T]) first() *element[T] {
	if q.size == 0 {
		return nil
	}
	return q.root.next
}

func (e *element[T]) following() *element[T] {
	if e.owner == nil || e.next == &e.owner.root {
		return nil
	}
	return e.next
}

func (q *queue[T]) pushBack(item T) *element[T] {
	q.lazyInit()
	at := q.root.prev
	e := &element[T]{item: item, prev: at, next: at.next, owner: q}
	at.next = e
	e.next.prev = e
	q.size++
	return e
}

// pushFront is used to put a group back at the head after a failed build.
func (q *queue[T]) pushFront(item T) *element[T] {
	q.lazyInit()
	at := &q.root
	e := &element[T]{item: item, prev: at, next: at.next, owner: q}
	at.next = e
	e.next.prev = e
	q.size++
	return e
}

func (q *queue[T]) remove(e *element[T]) T {
	if e.owner != q {
		return e.item
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next, e.owner = nil, nil, nil
	q.size--
	return e.item
}
