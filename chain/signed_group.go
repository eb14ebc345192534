// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

var _ interface {
	ID() ids.ID
	Expiry() int64
	Payer() string
} = (*SignedGroup)(nil)

// SignedOperation pairs an operation with the authorization of its sender.
type SignedOperation struct {
	Op   *Operation `json:"operation"`
	Auth Auth       `json:"auth"`
}

// SignedGroup is a group ready for submission.
type SignedGroup struct {
	Ops []*SignedOperation `json:"operations"`

	group *Group
	bytes []byte
}

// NewSignedGroup assembles [ops] and checks that they form a bound group.
// Signatures are not verified.
func NewSignedGroup(ops []*SignedOperation) (*SignedGroup, error) {
	sg := &SignedGroup{Ops: ops}
	if err := sg.init(); err != nil {
		return nil, err
	}
	return sg, nil
}

func (sg *SignedGroup) init() error {
	if err := checkGroupSize(len(sg.Ops)); err != nil {
		return err
	}
	ops := make([]*Operation, len(sg.Ops))
	for i, sop := range sg.Ops {
		ops[i] = sop.Op
	}
	group := &Group{ID: sg.Ops[0].Op.Group, Ops: ops}
	if err := group.Verify(); err != nil {
		return err
	}
	sg.group = group

	p := codec.NewWriter(sg.Size(), consts.NetworkSizeLimit)
	sg.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	sg.bytes = p.Bytes()
	return nil
}

func (sg *SignedGroup) ID() ids.ID { return sg.group.ID }

func (sg *SignedGroup) Expiry() int64 { return sg.group.Expiry() }

// Payer is the sender of the first operation. Mempool quotas are charged to
// it.
func (sg *SignedGroup) Payer() string { return string(sg.Ops[0].Op.Sender[:]) }

// Group returns the unsigned operations of sg.
func (sg *SignedGroup) Group() *Group { return sg.group }

func (sg *SignedGroup) Bytes() []byte { return sg.bytes }

func (sg *SignedGroup) Size() int {
	size := consts.IntLen
	for _, sop := range sg.Ops {
		size += sop.Op.Size() + consts.ByteLen + sop.Auth.Size()
	}
	return size
}

func (sg *SignedGroup) Marshal(p *codec.Packer) {
	p.PackInt(len(sg.Ops))
	for _, sop := range sg.Ops {
		sop.Op.Marshal(p)
		p.PackByte(sop.Auth.GetTypeID())
		sop.Auth.Marshal(p)
	}
}

// Verify checks that every operation is authorized by its sender.
func (sg *SignedGroup) Verify(ctx context.Context) error {
	for i, sop := range sg.Ops {
		if sop.Auth.Actor() != sop.Op.Sender {
			return fmt.Errorf("%w: operation %d signed by %s but sent by %s", ErrSignerMismatch, i, sop.Auth.Actor(), sop.Op.Sender)
		}
		msg, err := sop.Op.Bytes()
		if err != nil {
			return err
		}
		if err := sop.Auth.Verify(ctx, msg); err != nil {
			return fmt.Errorf("%w: operation %d: %w", ErrInvalidSignature, i, err)
		}
	}
	return nil
}

func UnmarshalSignedGroup(p *codec.Packer, authRegistry *AuthRegistry) (*SignedGroup, error) {
	count := p.UnpackInt(true)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}
	if err := checkGroupSize(count); err != nil {
		return nil, err
	}
	ops := make([]*SignedOperation, count)
	for i := range ops {
		op, err := UnmarshalOperation(p)
		if err != nil {
			return nil, fmt.Errorf("%w: could not unmarshal operation %d: %w", ErrInvalidObject, i, err)
		}
		typeID := p.UnpackByte()
		unmarshalAuth, ok := authRegistry.LookupIndex(typeID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownAuth, typeID)
		}
		auth, err := unmarshalAuth(p)
		if err != nil {
			return nil, fmt.Errorf("%w: could not unmarshal auth %d: %w", ErrInvalidObject, i, err)
		}
		ops[i] = &SignedOperation{Op: op, Auth: auth}
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return NewSignedGroup(ops)
}

// ParseSignedGroup decodes a complete signed group from [b].
func ParseSignedGroup(b []byte, authRegistry *AuthRegistry) (*SignedGroup, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	sg, err := UnmarshalSignedGroup(p, authRegistry)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, ErrTrailingBytes
	}
	return sg, nil
}
