// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"
	"sort"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Mutable = (*SimpleMutable)(nil)

	ErrParentNotMutable = errors.New("parent state is not mutable")
)

type change struct {
	value  []byte
	delete bool
}

// SimpleMutable buffers writes on top of a parent state. Nothing reaches
// the parent until [Commit] or [Write] is called, so discarding a
// SimpleMutable discards every change made through it.
type SimpleMutable struct {
	parent Immutable

	changes map[string]*change
}

func NewSimpleMutable(parent Immutable) *SimpleMutable {
	return &SimpleMutable{parent, make(map[string]*change)}
}

func (s *SimpleMutable) GetValue(ctx context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.delete {
			return nil, database.ErrNotFound
		}
		return v.value, nil
	}
	return s.parent.GetValue(ctx, k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = &change{value: v}
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = &change{delete: true}
	return nil
}

// Len is the number of keys modified.
func (s *SimpleMutable) Len() int {
	return len(s.changes)
}

// keys returns the modified keys in sorted order so commits are
// deterministic.
func (s *SimpleMutable) keys() []string {
	keys := make([]string, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Commit applies the buffered changes to the parent, which must be
// [Mutable].
func (s *SimpleMutable) Commit(ctx context.Context) error {
	parent, ok := s.parent.(Mutable)
	if !ok {
		return ErrParentNotMutable
	}
	for _, k := range s.keys() {
		c := s.changes[k]
		var err error
		if c.delete {
			err = parent.Remove(ctx, []byte(k))
		} else {
			err = parent.Insert(ctx, []byte(k), c.value)
		}
		if err != nil {
			return err
		}
	}
	clear(s.changes)
	return nil
}

// Write adds the buffered changes to [batch].
func (s *SimpleMutable) Write(batch database.KeyValueWriterDeleter) error {
	for _, k := range s.keys() {
		c := s.changes[k]
		var err error
		if c.delete {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), c.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
