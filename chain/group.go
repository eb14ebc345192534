// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

var groupIDPrefix = []byte("TG")

// Group is an ordered set of operations that is accepted or rejected as a
// single unit.
type Group struct {
	ID  ids.ID       `json:"id"`
	Ops []*Operation `json:"operations"`
}

func checkGroupSize(n int) error {
	switch {
	case n == 0:
		return ErrEmptyGroup
	case n > consts.MaxGroupSize:
		return fmt.Errorf("%w: %d > %d", ErrTooManyOperations, n, consts.MaxGroupSize)
	default:
		return nil
	}
}

// ComputeGroupID returns sha256("TG" || count || hash(op_0) || ... ).
// Operation hashes ignore the group field, so the result does not depend on
// whether [ops] are already bound.
func ComputeGroupID(ops []*Operation) (ids.ID, error) {
	if err := checkGroupSize(len(ops)); err != nil {
		return ids.Empty, err
	}
	size := len(groupIDPrefix) + consts.IntLen + len(ops)*consts.IDLen
	p := codec.NewWriter(size, size)
	p.PackFixedBytes(groupIDPrefix)
	p.PackInt(len(ops))
	for _, op := range ops {
		h, err := op.Hash()
		if err != nil {
			return ids.Empty, err
		}
		p.PackID(h)
	}
	if err := p.Err(); err != nil {
		return ids.Empty, err
	}
	return ids.ID(hashing.ComputeHash256Array(p.Bytes())), nil
}

// NewGroup computes the group id of [ops] and binds a copy of every
// operation to it.
func NewGroup(ops ...*Operation) (*Group, error) {
	id, err := ComputeGroupID(ops)
	if err != nil {
		return nil, err
	}
	bound := make([]*Operation, len(ops))
	for i, op := range ops {
		bound[i] = op.WithGroup(id)
	}
	return &Group{ID: id, Ops: bound}, nil
}

// Verify checks that every member embeds the id computed over all members.
func (g *Group) Verify() error {
	id, err := ComputeGroupID(g.Ops)
	if err != nil {
		return err
	}
	if id != g.ID {
		return fmt.Errorf("%w: expected %s but got %s", ErrGroupIDMismatch, id, g.ID)
	}
	for i, op := range g.Ops {
		if op.Group != id {
			return fmt.Errorf("%w: operation %d", ErrGroupIDMismatch, i)
		}
	}
	return nil
}

// Expiry is the latest expiry of any member. The group cannot be included
// after it.
func (g *Group) Expiry() int64 {
	var expiry int64
	for _, op := range g.Ops {
		if op.Base.Timestamp > expiry {
			expiry = op.Base.Timestamp
		}
	}
	return expiry
}
