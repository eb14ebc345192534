// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

type Status uint8

const (
	StatusUnknown Status = iota
	StatusPending
	StatusConfirmed
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pending":
		*s = StatusPending
	case "confirmed":
		*s = StatusConfirmed
	case "rejected":
		*s = StatusRejected
	case "unknown":
		*s = StatusUnknown
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidObject, b)
	}
	return nil
}

// Final reports whether the status can no longer change.
func (s Status) Final() bool {
	return s == StatusConfirmed || s == StatusRejected
}

// Receipt is the ledger's record of what happened to a group.
type Receipt struct {
	GroupID   ids.ID `json:"groupId"`
	Status    Status `json:"status"`
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`
	// Contract is set when the group deployed a contract.
	Contract uint64 `json:"contract,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func (r *Receipt) Size() int {
	return consts.IDLen + consts.ByteLen + consts.Uint64Len*2 + consts.Int64Len + codec.StringLen(r.Reason)
}

func (r *Receipt) Marshal(p *codec.Packer) {
	p.PackID(r.GroupID)
	p.PackByte(byte(r.Status))
	p.PackUint64(r.Height)
	p.PackInt64(r.Timestamp)
	p.PackUint64(r.Contract)
	p.PackString(r.Reason)
}

func (r *Receipt) Bytes() ([]byte, error) {
	p := codec.NewWriter(r.Size(), consts.NetworkSizeLimit)
	r.Marshal(p)
	return p.Bytes(), p.Err()
}

func UnmarshalReceipt(b []byte) (*Receipt, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	var r Receipt
	p.UnpackID(true, &r.GroupID)
	r.Status = Status(p.UnpackByte())
	r.Height = p.UnpackUint64(false)
	r.Timestamp = p.UnpackInt64(false)
	r.Contract = p.UnpackUint64(false)
	r.Reason = p.UnpackString(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, ErrTrailingBytes
	}
	return &r, nil
}
