// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package settlement

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/dumbly-labs/taxvm/builder"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
)

//go:generate mockgen -package=${GOPACKAGE} -destination=mock_ledger.go . Ledger

// Ledger is the ledger-access collaborator.
type Ledger interface {
	Balance(ctx context.Context, addr codec.Address, asset uint64) (uint64, error)
	SuggestedParams(ctx context.Context) (*builder.Params, error)
	// Submit hands [sg] to the ledger and returns the id to poll with
	// [Ledger.Status].
	Submit(ctx context.Context, sg *chain.SignedGroup) (ids.ID, error)
	// Status never fails for an id the ledger has not seen; it returns a
	// receipt with [chain.StatusUnknown].
	Status(ctx context.Context, ref ids.ID) (*chain.Receipt, error)
}

// KeyResolver finds the signer controlling an address.
type KeyResolver interface {
	ResolveKey(addr codec.Address) (chain.AuthFactory, error)
}
