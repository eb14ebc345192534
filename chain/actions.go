// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

// Action is the typed payload of an operation.
type Action interface {
	// GetTypeID uniquely identifies the action on the wire.
	GetTypeID() uint8
	Size() int
	Marshal(p *codec.Packer)
}

// Args are the typed, versioned arguments of a contract call.
type Args interface {
	GetTypeID() uint8
	// Count is the number of arguments carried on the wire.
	Count() int
	Size() int
	Marshal(p *codec.Packer)
}

var (
	_ Action = (*AssetTransfer)(nil)
	_ Action = (*ContractCall)(nil)
	_ Args   = (*CreateArgs)(nil)
	_ Args   = (*TaxArgs)(nil)

	actionParser = codec.NewTypeParser[Action]()
	argsParser   = codec.NewTypeParser[Args]()
)

func init() {
	errs := &wrappers.Errs{}
	errs.Add(
		actionParser.Register(&AssetTransfer{}, AssetTransferID, UnmarshalAssetTransfer),
		actionParser.Register(&ContractCall{}, ContractCallID, UnmarshalContractCall),

		argsParser.Register(&CreateArgs{}, CreateArgsID, UnmarshalCreateArgs),
		argsParser.Register(&TaxArgs{}, TaxArgsID, UnmarshalTaxArgs),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}

// AssetTransfer moves [Amount] units of [Asset] from the operation sender to
// [Receiver]. A zero amount sent to oneself opts the sender into [Asset].
type AssetTransfer struct {
	Receiver codec.Address `json:"receiver"`
	Asset    uint64        `json:"asset"`
	Amount   uint64        `json:"amount"`
}

func (*AssetTransfer) GetTypeID() uint8 {
	return AssetTransferID
}

func (*AssetTransfer) Size() int {
	return codec.AddressLen + consts.Uint64Len*2
}

func (t *AssetTransfer) Marshal(p *codec.Packer) {
	p.PackAddress(t.Receiver)
	p.PackUint64(t.Asset)
	p.PackUint64(t.Amount)
}

func UnmarshalAssetTransfer(p *codec.Packer) (Action, error) {
	var transfer AssetTransfer
	p.UnpackAddress(&transfer.Receiver)
	transfer.Asset = p.UnpackUint64(false)
	transfer.Amount = p.UnpackUint64(false)
	return &transfer, p.Err()
}

// ContractCall invokes the tax program. Calling [CreateContract] deploys a
// new instance.
type ContractCall struct {
	Contract   uint64     `json:"contract"`
	OnComplete OnComplete `json:"onComplete"`
	Args       Args       `json:"args,omitempty"`
}

func (*ContractCall) GetTypeID() uint8 {
	return ContractCallID
}

func (c *ContractCall) Size() int {
	size := consts.Uint64Len + consts.ByteLen + consts.BoolLen
	if c.Args != nil {
		size += consts.ByteLen + c.Args.Size()
	}
	return size
}

func (c *ContractCall) Marshal(p *codec.Packer) {
	p.PackUint64(c.Contract)
	p.PackByte(byte(c.OnComplete))
	p.PackBool(c.Args != nil)
	if c.Args != nil {
		p.PackByte(c.Args.GetTypeID())
		c.Args.Marshal(p)
	}
}

func UnmarshalContractCall(p *codec.Packer) (Action, error) {
	var call ContractCall
	call.Contract = p.UnpackUint64(false)
	call.OnComplete = OnComplete(p.UnpackByte())
	if call.OnComplete != NoOp && call.OnComplete != ClearState {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOnComplete, call.OnComplete)
	}
	if p.UnpackBool() {
		typeID := p.UnpackByte()
		unmarshal, ok := argsParser.LookupIndex(typeID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownArgs, typeID)
		}
		args, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		call.Args = args
	}
	return &call, p.Err()
}

// CreateArgs are the two arguments of a creation call.
type CreateArgs struct {
	Admin    codec.Address `json:"admin"`
	Treasury codec.Address `json:"treasury"`
}

func (*CreateArgs) GetTypeID() uint8 {
	return CreateArgsID
}

func (*CreateArgs) Count() int {
	return CreateArgsCount
}

func (*CreateArgs) Size() int {
	return consts.IntLen + codec.AddressLen*CreateArgsCount
}

func (a *CreateArgs) Marshal(p *codec.Packer) {
	p.PackInt(CreateArgsCount)
	p.PackAddress(a.Admin)
	p.PackAddress(a.Treasury)
}

func UnmarshalCreateArgs(p *codec.Packer) (Args, error) {
	count := p.UnpackInt(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if count != CreateArgsCount {
		return nil, fmt.Errorf("%w: create expects %d but got %d", ErrArgumentCount, CreateArgsCount, count)
	}
	var args CreateArgs
	p.UnpackAddress(&args.Admin)
	p.UnpackAddress(&args.Treasury)
	return &args, p.Err()
}

// TaxArgs marks a NoOp call that asks the program to check the tax of its
// group. It carries no arguments.
type TaxArgs struct{}

func (*TaxArgs) GetTypeID() uint8 {
	return TaxArgsID
}

func (*TaxArgs) Count() int {
	return 0
}

func (*TaxArgs) Size() int {
	return consts.IntLen
}

func (*TaxArgs) Marshal(p *codec.Packer) {
	p.PackInt(0)
}

func UnmarshalTaxArgs(p *codec.Packer) (Args, error) {
	count := p.UnpackInt(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if count != 0 {
		return nil, fmt.Errorf("%w: tax check expects no arguments but got %d", ErrArgumentCount, count)
	}
	return &TaxArgs{}, nil
}

func marshalAction(p *codec.Packer, action Action) {
	p.PackByte(action.GetTypeID())
	action.Marshal(p)
}

func unmarshalAction(p *codec.Packer) (Action, error) {
	typeID := p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, err
	}
	unmarshal, ok := actionParser.LookupIndex(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, typeID)
	}
	return unmarshal(p)
}
