// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package builder assembles the unsigned groups of every intent the
// system supports. Builders never sign and never talk to the ledger: the
// caller supplies network parameters and any balance it read beforehand.
package builder

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/utils"
)

// Params are the network parameters suggested by the ledger.
type Params struct {
	ChainID ids.ID `json:"chainId"`
	Fee     uint64 `json:"fee"`
	// Now is the ledger time in milliseconds.
	Now int64 `json:"now"`
	// ValidityWindow is how far past [Now] an expiry may be.
	ValidityWindow int64 `json:"validityWindow"`
}

// Base derives the header shared by every operation of a group.
func (p *Params) Base() *chain.Base {
	return &chain.Base{
		Timestamp: utils.UnixRMilli(p.Now, p.ValidityWindow),
		ChainID:   p.ChainID,
		Fee:       p.Fee,
	}
}

type TaxedTransferInput struct {
	Seller   codec.Address
	Buyer    codec.Address
	Treasury codec.Address
	Asset    uint64
	Contract uint64
	Total    uint64
	// Available is the seller balance of [Asset] read before building.
	Available uint64
}

// TaxedTransfer builds [net to buyer, tax to treasury, tax check call].
// Every operation is sent by the seller.
func TaxedTransfer(p *Params, in *TaxedTransferInput) (*chain.Group, error) {
	if in.Total > in.Available {
		return nil, fmt.Errorf("%w: need %d but have %d", ErrInsufficientBalance, in.Total, in.Available)
	}
	tax, net, err := amount.Tax(in.Total)
	if err != nil {
		return nil, err
	}
	base := p.Base()
	return chain.NewGroup(
		chain.NewOperation(base, in.Seller, &chain.AssetTransfer{
			Receiver: in.Buyer,
			Asset:    in.Asset,
			Amount:   net,
		}),
		chain.NewOperation(base, in.Seller, &chain.AssetTransfer{
			Receiver: in.Treasury,
			Asset:    in.Asset,
			Amount:   tax,
		}),
		chain.NewOperation(base, in.Seller, &chain.ContractCall{
			Contract:   in.Contract,
			OnComplete: chain.NoOp,
			Args:       &chain.TaxArgs{},
		}),
	)
}

type DistributionInput struct {
	Treasury codec.Address
	Asset    uint64
	Burn     codec.Address
	LP       codec.Address
	Rewards  codec.Address
	Plan     amount.Plan
	// Available is the treasury balance of [Asset] read before building.
	Available uint64
}

// Distribution builds three transfers out of the treasury, in the order
// burn, LP, rewards. An empty plan is never built.
func Distribution(p *Params, in *DistributionInput) (*chain.Group, error) {
	total, err := in.Plan.Total()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNothingToDistribute
	}
	if total > in.Available {
		return nil, fmt.Errorf("%w: need %d but have %d", ErrInsufficientBalance, total, in.Available)
	}
	base := p.Base()
	return chain.NewGroup(
		chain.NewOperation(base, in.Treasury, &chain.AssetTransfer{
			Receiver: in.Burn,
			Asset:    in.Asset,
			Amount:   in.Plan.Burn,
		}),
		chain.NewOperation(base, in.Treasury, &chain.AssetTransfer{
			Receiver: in.LP,
			Asset:    in.Asset,
			Amount:   in.Plan.LP,
		}),
		chain.NewOperation(base, in.Treasury, &chain.AssetTransfer{
			Receiver: in.Rewards,
			Asset:    in.Asset,
			Amount:   in.Plan.Rewards,
		}),
	)
}

// Create builds the deployment of a new tax contract owned by [admin].
func Create(p *Params, admin, treasury codec.Address) (*chain.Group, error) {
	return chain.NewGroup(
		chain.NewOperation(p.Base(), admin, &chain.ContractCall{
			Contract:   chain.CreateContract,
			OnComplete: chain.NoOp,
			Args:       &chain.CreateArgs{Admin: admin, Treasury: treasury},
		}),
	)
}

// OptIn builds the zero amount self transfer that lets [account] hold
// [asset].
func OptIn(p *Params, account codec.Address, asset uint64) (*chain.Group, error) {
	return chain.NewGroup(
		chain.NewOperation(p.Base(), account, &chain.AssetTransfer{
			Receiver: account,
			Asset:    asset,
		}),
	)
}

// ClearState builds the call that removes [account]'s local state for
// [contract]. The program always accepts it.
func ClearState(p *Params, account codec.Address, contract uint64) (*chain.Group, error) {
	return chain.NewGroup(
		chain.NewOperation(p.Base(), account, &chain.ContractCall{
			Contract:   contract,
			OnComplete: chain.ClearState,
		}),
	)
}
