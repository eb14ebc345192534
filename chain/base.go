// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

const BaseSize = consts.Uint64Len*2 + consts.IDLen

// Base holds the network parameters every operation commits to.
type Base struct {
	// Timestamp is the expiry of the operation (inclusive). Once this time
	// passes and the group was not included, it is safe to rebuild it.
	Timestamp int64 `json:"timestamp"`

	// ChainID protects against replay on a different ledger.
	ChainID ids.ID `json:"chainId"`

	// Fee is charged to the sender in the native asset.
	Fee uint64 `json:"fee"`
}

// Execute checks [b] against the ledger's chain id and current time.
func (b *Base) Execute(chainID ids.ID, validityWindow int64, timestamp int64) error {
	switch {
	case b.Timestamp%consts.MillisecondsPerSecond != 0:
		return fmt.Errorf("%w: timestamp=%d", ErrMisalignedTime, b.Timestamp)
	case b.Timestamp < timestamp:
		return fmt.Errorf("%w: expiry=%d now=%d", ErrTimestampTooLate, b.Timestamp, timestamp)
	case b.Timestamp > timestamp+validityWindow:
		return fmt.Errorf("%w: expiry=%d now=%d", ErrTimestampTooEarly, b.Timestamp, timestamp)
	case b.ChainID != chainID:
		return ErrInvalidChainID
	default:
		return nil
	}
}

func (*Base) Size() int {
	return BaseSize
}

func (b *Base) Marshal(p *codec.Packer) {
	p.PackInt64(b.Timestamp)
	p.PackID(b.ChainID)
	p.PackUint64(b.Fee)
}

func UnmarshalBase(p *codec.Packer) (*Base, error) {
	var base Base
	base.Timestamp = p.UnpackInt64(true)
	if base.Timestamp%consts.MillisecondsPerSecond != 0 {
		return nil, fmt.Errorf("%w: timestamp=%d", ErrMisalignedTime, base.Timestamp)
	}
	p.UnpackID(true, &base.ChainID)
	base.Fee = p.UnpackUint64(false)
	return &base, p.Err()
}
