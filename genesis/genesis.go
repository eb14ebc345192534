// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/state"
	"github.com/dumbly-labs/taxvm/storage"
)

type Asset struct {
	ID       uint64 `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	// Supply is derived from the allocations when zero.
	Supply  uint64 `json:"supply"`
	Creator string `json:"creator"` // bech32 address
}

type CustomAllocation struct {
	Address string `json:"address"` // bech32 address
	Asset   uint64 `json:"asset"`
	Balance uint64 `json:"balance"`
}

// OptIn creates an empty balance record so the account can receive [Asset]
// from the first block.
type OptIn struct {
	Address string `json:"address"`
	Asset   uint64 `json:"asset"`
}

type Genesis struct {
	// Address prefix
	HRP string `json:"hrp"`

	// Chain Parameters
	ChainID        ids.ID `json:"chainID"`
	ValidityWindow int64  `json:"validityWindow"` // ms
	Fee            uint64 `json:"fee"`            // native units per operation

	Assets           []*Asset            `json:"assets"`
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
	OptIns           []*OptIn            `json:"optIns"`
}

func Default() *Genesis {
	return &Genesis{
		HRP: consts.HRP,

		ValidityWindow: 60 * consts.MillisecondsPerSecond,
		Fee:            0,
	}
}

func New(b []byte) (*Genesis, error) {
	g := Default()
	if len(b) > 0 {
		if err := json.Unmarshal(b, g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
		}
	}
	if g.ValidityWindow <= 0 || g.ValidityWindow%consts.MillisecondsPerSecond != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, g.ValidityWindow)
	}
	return g, nil
}

// FromFile reads a genesis from [filename].
func FromFile(filename string) (*Genesis, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (g *Genesis) Bytes() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Load writes the assets, allocations and opt-ins of g into [mu].
func (g *Genesis) Load(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.Load")
	defer span.End()

	if consts.HRP != g.HRP {
		return ErrInvalidHRP
	}

	supplies := make(map[uint64]uint64, len(g.Assets))
	for _, asset := range g.Assets {
		if _, ok := supplies[asset.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateAsset, asset.ID)
		}
		supplies[asset.ID] = 0
	}
	if _, ok := supplies[consts.NativeAssetID]; g.Fee > 0 && !ok {
		return ErrMissingNativeAsset
	}

	for _, alloc := range g.CustomAllocation {
		addr, err := codec.ParseAddressBech32(g.HRP, alloc.Address)
		if err != nil {
			return fmt.Errorf("%w: %s", err, alloc.Address)
		}
		supply, ok := supplies[alloc.Asset]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownAsset, alloc.Asset)
		}
		supplies[alloc.Asset], err = smath.Add64(supply, alloc.Balance)
		if err != nil {
			return err
		}
		if err := storage.OptIn(ctx, mu, addr, alloc.Asset); err != nil {
			return err
		}
		if err := storage.AddBalance(ctx, mu, addr, alloc.Asset, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}

	for _, optIn := range g.OptIns {
		addr, err := codec.ParseAddressBech32(g.HRP, optIn.Address)
		if err != nil {
			return fmt.Errorf("%w: %s", err, optIn.Address)
		}
		if _, ok := supplies[optIn.Asset]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownAsset, optIn.Asset)
		}
		if err := storage.OptIn(ctx, mu, addr, optIn.Asset); err != nil {
			return err
		}
	}

	for _, asset := range g.Assets {
		supply := supplies[asset.ID]
		if asset.Supply != 0 && asset.Supply != supply {
			return fmt.Errorf("%w: asset=%d supply=%d allocated=%d", ErrSupplyMismatch, asset.ID, asset.Supply, supply)
		}
		var creator codec.Address
		if len(asset.Creator) > 0 {
			addr, err := codec.ParseAddressBech32(g.HRP, asset.Creator)
			if err != nil {
				return fmt.Errorf("%w: %s", err, asset.Creator)
			}
			creator = addr
		}
		if err := storage.SetAsset(ctx, mu, asset.ID, &storage.Asset{
			Symbol:   asset.Symbol,
			Decimals: asset.Decimals,
			Supply:   supply,
			Creator:  creator,
		}); err != nil {
			return err
		}
	}
	return nil
}
