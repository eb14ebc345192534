// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import (
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
)

var (
	seller   = codec.CreateAddress(0, ids.GenerateTestID())
	buyer    = codec.CreateAddress(0, ids.GenerateTestID())
	treasury = codec.CreateAddress(0, ids.GenerateTestID())
	admin    = codec.CreateAddress(0, ids.GenerateTestID())
	cfg      = &Config{Admin: admin, Treasury: treasury}
)

func group(t *testing.T, actions ...chain.Action) *chain.Group {
	base := &chain.Base{Timestamp: 1_000, ChainID: ids.GenerateTestID()}
	ops := make([]*chain.Operation, len(actions))
	for i, a := range actions {
		ops[i] = chain.NewOperation(base, seller, a)
	}
	g, err := chain.NewGroup(ops...)
	require.NoError(t, err)
	return g
}

func noop() *chain.ContractCall {
	return &chain.ContractCall{Contract: 1, OnComplete: chain.NoOp, Args: &chain.TaxArgs{}}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		actions []chain.Action
		cfg     *Config
		err     error
	}{
		{
			name: "valid",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 910},
				&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 90},
				noop(),
			},
			cfg: cfg,
		},
		{
			name: "zero transfer",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: buyer, Asset: 1},
				&chain.AssetTransfer{Receiver: treasury, Asset: 1},
				noop(),
			},
			cfg: cfg,
		},
		{
			name: "floored tax is not exact",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 1123},
				&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 111},
				noop(),
			},
			cfg: cfg,
			err: ErrTaxMismatch,
		},
		{
			name: "tax too low",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 920},
				&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 80},
				noop(),
			},
			cfg: cfg,
			err: ErrTaxMismatch,
		},
		{
			name: "overflow",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: math.MaxUint64},
				&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 1},
				noop(),
			},
			cfg: cfg,
			err: ErrTaxMismatch,
		},
		{
			name: "wrong treasury",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 910},
				&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 90},
				noop(),
			},
			cfg: cfg,
			err: ErrTreasuryMismatch,
		},
		{
			name: "two operations",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 90},
				noop(),
			},
			cfg: cfg,
			err: ErrGroupSize,
		},
		{
			name: "call in transfer position",
			actions: []chain.Action{
				noop(),
				&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 90},
				noop(),
			},
			cfg: cfg,
			err: ErrNotAssetTransfer,
		},
		{
			name: "unknown contract",
			actions: []chain.Action{
				&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 910},
				&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 90},
				noop(),
			},
			err: ErrUnknownContract,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(group(t, tt.actions...), tt.cfg)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExecuteCreate(t *testing.T) {
	require := require.New(t)

	g := group(t, &chain.ContractCall{
		Contract: chain.CreateContract,
		Args:     &chain.CreateArgs{Admin: admin, Treasury: treasury},
	})
	created, err := Execute(g, 0, nil)
	require.NoError(err)
	require.Equal(cfg, created)
	require.Equal(Active, StateOf(created))
	require.Equal(Uninitialized, StateOf(nil))

	g = group(t, &chain.ContractCall{Contract: chain.CreateContract})
	_, err = Execute(g, 0, nil)
	require.ErrorIs(err, chain.ErrArgumentCount)

	g = group(t, &chain.ContractCall{Contract: chain.CreateContract, Args: &chain.TaxArgs{}})
	_, err = Execute(g, 0, nil)
	require.ErrorIs(err, chain.ErrArgumentCount)
}

func TestExecuteClearState(t *testing.T) {
	require := require.New(t)

	// Clear state is accepted regardless of the rest of the group.
	g := group(t, &chain.ContractCall{Contract: 42, OnComplete: chain.ClearState})
	created, err := Execute(g, 0, nil)
	require.NoError(err)
	require.Nil(created)

	// A clear state call on the creation id still creates.
	g = group(t, &chain.ContractCall{
		Contract:   chain.CreateContract,
		OnComplete: chain.ClearState,
		Args:       &chain.CreateArgs{Admin: admin, Treasury: treasury},
	})
	created, err = Execute(g, 0, nil)
	require.NoError(err)
	require.Equal(cfg, created)

	g = group(t, &chain.ContractCall{Contract: chain.CreateContract, OnComplete: chain.ClearState})
	_, err = Execute(g, 0, nil)
	require.ErrorIs(err, chain.ErrArgumentCount)
}

func TestExecuteNoOp(t *testing.T) {
	require := require.New(t)

	g := group(t,
		&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 910},
		&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 90},
		noop(),
	)
	_, err := Execute(g, 2, cfg)
	require.NoError(err)

	_, err = Execute(g, 0, cfg)
	require.ErrorIs(err, chain.ErrInvalidObject)

	g = group(t,
		&chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 910},
		&chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 90},
		&chain.ContractCall{Contract: 1, Args: &chain.CreateArgs{Admin: admin, Treasury: treasury}},
	)
	_, err = Execute(g, 2, cfg)
	require.ErrorIs(err, chain.ErrUnexpectedArgs)
}
