// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/utils/units"

const (
	// Name is used as the JSON-RPC service name and metrics namespace.
	Name = "taxvm"
	// HRP is the human readable part of bech32 addresses.
	HRP = "dmb"
	// Version is reported by the node and the CLI.
	Version = "v0.1.0"

	IDLen            = 32
	ByteLen          = 1
	BoolLen          = 1
	Uint8Len         = 1
	Uint16Len        = 2
	IntLen           = 4
	Uint64Len        = 8
	Int64Len         = 8
	MaxUint8         = ^uint8(0)
	MaxUint          = ^uint(0)
	MaxInt           = int(MaxUint >> 1)
	MaxUint64        = ^uint64(0)
	NetworkSizeLimit = 2 * units.MiB

	MillisecondsPerSecond = 1000
)

// Tax and distribution parameters. They are fixed for every deployment.
const (
	TaxRatePercent uint64 = 9
	PercentBase    uint64 = 100

	// SplitWays is the number of destinations the treasury is divided into.
	SplitWays = 3

	// GroupSize is the number of members of every intent group (taxed
	// transfer or distribution).
	GroupSize = 3
	// MaxGroupSize bounds any group accepted by the ledger.
	MaxGroupSize = 16
)

// NativeAssetID pays network fees.
const NativeAssetID uint64 = 0
