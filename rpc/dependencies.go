// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/settlement"
	"github.com/dumbly-labs/taxvm/validator"
)

// Controller is the ledger as seen by the JSON-RPC service.
type Controller interface {
	settlement.Ledger

	Contract(ctx context.Context, contract uint64) (*validator.Config, error)
	ChainID() ids.ID
	Height() (uint64, int64)
	AuthRegistry() *chain.AuthRegistry
	Tracer() trace.Tracer
	Logger() logging.Logger
}
