// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

// operationHashPrefix domain separates operation hashes from group ids.
var operationHashPrefix = []byte("TX")

// Operation is a single member of a group. Values are never mutated after
// construction: binding a group id returns a copy.
type Operation struct {
	Base   *Base         `json:"base"`
	Sender codec.Address `json:"sender"`
	Group  ids.ID        `json:"group"`
	Action Action        `json:"action"`
}

func NewOperation(base *Base, sender codec.Address, action Action) *Operation {
	return &Operation{
		Base:   base,
		Sender: sender,
		Action: action,
	}
}

// WithGroup returns a copy of o bound to [group].
func (o *Operation) WithGroup(group ids.ID) *Operation {
	return &Operation{
		Base:   o.Base,
		Sender: o.Sender,
		Group:  group,
		Action: o.Action,
	}
}

func (o *Operation) Size() int {
	return o.Base.Size() + codec.AddressLen + consts.IDLen + consts.ByteLen + o.Action.Size()
}

func (o *Operation) marshal(p *codec.Packer, withGroup bool) {
	o.Base.Marshal(p)
	p.PackAddress(o.Sender)
	if withGroup {
		p.PackID(o.Group)
	}
	marshalAction(p, o.Action)
}

func (o *Operation) Marshal(p *codec.Packer) {
	o.marshal(p, true)
}

// Bytes returns the canonical encoding of o including its group id. This is
// the message signed by the sender.
func (o *Operation) Bytes() ([]byte, error) {
	p := codec.NewWriter(o.Size(), MaxOperationSize)
	o.marshal(p, true)
	return p.Bytes(), p.Err()
}

// Hash commits to o without its group field.
func (o *Operation) Hash() (ids.ID, error) {
	p := codec.NewWriter(len(operationHashPrefix)+o.Size(), len(operationHashPrefix)+MaxOperationSize)
	p.PackFixedBytes(operationHashPrefix)
	o.marshal(p, false)
	if err := p.Err(); err != nil {
		return ids.Empty, err
	}
	return ids.ID(hashing.ComputeHash256Array(p.Bytes())), nil
}

// Transfer returns the action of o if it is an asset transfer.
func (o *Operation) Transfer() (*AssetTransfer, bool) {
	t, ok := o.Action.(*AssetTransfer)
	return t, ok
}

// Call returns the action of o if it is a contract call.
func (o *Operation) Call() (*ContractCall, bool) {
	c, ok := o.Action.(*ContractCall)
	return c, ok
}

func UnmarshalOperation(p *codec.Packer) (*Operation, error) {
	base, err := UnmarshalBase(p)
	if err != nil {
		return nil, err
	}
	var op Operation
	op.Base = base
	p.UnpackAddress(&op.Sender)
	p.UnpackID(false, &op.Group)
	action, err := unmarshalAction(p)
	if err != nil {
		return nil, err
	}
	op.Action = action
	return &op, p.Err()
}
