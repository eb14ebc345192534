// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/state"
	"github.com/dumbly-labs/taxvm/storage"
	"github.com/dumbly-labs/taxvm/trace"
)

func newView() *state.SimpleMutable {
	return state.NewSimpleMutable(state.NewReadOnly(memdb.New()))
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	seller := codec.CreateAddress(0, ids.GenerateTestID())
	buyer := codec.CreateAddress(0, ids.GenerateTestID())

	g := Default()
	g.Fee = 1
	g.Assets = []*Asset{
		{ID: consts.NativeAssetID, Symbol: "DMB", Decimals: 9},
		{ID: 7, Symbol: "TAX", Decimals: 6, Supply: 1_000, Creator: codec.MustAddressBech32(consts.HRP, seller)},
	}
	g.CustomAllocation = []*CustomAllocation{
		{Address: codec.MustAddressBech32(consts.HRP, seller), Asset: consts.NativeAssetID, Balance: 50},
		{Address: codec.MustAddressBech32(consts.HRP, seller), Asset: 7, Balance: 600},
		{Address: codec.MustAddressBech32(consts.HRP, buyer), Asset: 7, Balance: 400},
	}
	g.OptIns = []*OptIn{{Address: codec.MustAddressBech32(consts.HRP, buyer), Asset: consts.NativeAssetID}}

	b, err := g.Bytes()
	require.NoError(err)
	parsed, err := New(b)
	require.NoError(err)

	view := newView()
	require.NoError(parsed.Load(ctx, trace.Noop(), view))

	bal, exists, err := storage.GetBalance(ctx, view, seller, 7)
	require.NoError(err)
	require.True(exists)
	require.Equal(uint64(600), bal)

	bal, exists, err = storage.GetBalance(ctx, view, buyer, consts.NativeAssetID)
	require.NoError(err)
	require.True(exists)
	require.Zero(bal)

	native, err := storage.GetAsset(ctx, view, consts.NativeAssetID)
	require.NoError(err)
	require.Equal(uint64(50), native.Supply)
	require.Equal(codec.EmptyAddress, native.Creator)

	tax, err := storage.GetAsset(ctx, view, 7)
	require.NoError(err)
	require.Equal(uint64(1_000), tax.Supply)
	require.Equal(seller, tax.Creator)
}

func TestLoadErrors(t *testing.T) {
	addr := codec.MustAddressBech32(consts.HRP, codec.CreateAddress(0, ids.GenerateTestID()))

	tests := []struct {
		name    string
		genesis func(*Genesis)
		err     error
	}{
		{
			name:    "wrong hrp",
			genesis: func(g *Genesis) { g.HRP = "abc" },
			err:     ErrInvalidHRP,
		},
		{
			name: "duplicate asset",
			genesis: func(g *Genesis) {
				g.Assets = []*Asset{{ID: 1}, {ID: 1}}
			},
			err: ErrDuplicateAsset,
		},
		{
			name: "unknown asset",
			genesis: func(g *Genesis) {
				g.CustomAllocation = []*CustomAllocation{{Address: addr, Asset: 3, Balance: 1}}
			},
			err: ErrUnknownAsset,
		},
		{
			name: "supply mismatch",
			genesis: func(g *Genesis) {
				g.Assets = []*Asset{{ID: 1, Supply: 10}}
				g.CustomAllocation = []*CustomAllocation{{Address: addr, Asset: 1, Balance: 9}}
			},
			err: ErrSupplyMismatch,
		},
		{
			name:    "fee without native asset",
			genesis: func(g *Genesis) { g.Fee = 1 },
			err:     ErrMissingNativeAsset,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Default()
			tt.genesis(g)
			err := g.Load(context.Background(), trace.Noop(), newView())
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewRejectsWindow(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(map[string]any{"validityWindow": 1_500})
	require.NoError(err)
	_, err = New(b)
	require.ErrorIs(err, ErrInvalidWindow)
}
