// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

// Type identifiers are part of the wire format and must never be reused.
const (
	AssetTransferID uint8 = 0
	ContractCallID  uint8 = 1

	CreateArgsID uint8 = 0
	TaxArgsID    uint8 = 1
)

// OnComplete selects what a contract call does after its program runs.
type OnComplete uint8

const (
	NoOp       OnComplete = 0
	ClearState OnComplete = 1
)

func (o OnComplete) String() string {
	switch o {
	case NoOp:
		return "noop"
	case ClearState:
		return "clear-state"
	default:
		return "unknown"
	}
}

// CreateContract is the contract id used by a call that deploys a new
// instance of the tax program.
const CreateContract uint64 = 0

// CreateArgsCount is the number of arguments a creation call carries.
const CreateArgsCount = 2

// MaxOperationSize bounds the encoding of a single operation.
const MaxOperationSize = 4 * 1024
