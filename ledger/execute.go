// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/state"
	"github.com/dumbly-labs/taxvm/storage"
	"github.com/dumbly-labs/taxvm/validator"
)

// execute applies every operation of [group] to [mu]. The caller discards
// [mu] when an error is returned. The id of a contract created by the group
// is returned.
func (l *Ledger) execute(ctx context.Context, mu state.Mutable, group *chain.Group, now int64) (uint64, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.execute")
	defer span.End()

	var created uint64
	for i, op := range group.Ops {
		if err := op.Base.Execute(l.genesis.ChainID, l.genesis.ValidityWindow, now); err != nil {
			return 0, fmt.Errorf("operation %d: %w", i, err)
		}
		if op.Base.Fee < l.genesis.Fee {
			return 0, fmt.Errorf("%w: operation %d pays %d, need %d", chain.ErrInsufficientFee, i, op.Base.Fee, l.genesis.Fee)
		}
		if op.Base.Fee > 0 {
			if err := storage.SubBalance(ctx, mu, op.Sender, consts.NativeAssetID, op.Base.Fee); err != nil {
				return 0, fmt.Errorf("operation %d: fee: %w", i, err)
			}
		}

		switch action := op.Action.(type) {
		case *chain.AssetTransfer:
			if err := l.transfer(ctx, mu, op, action); err != nil {
				return 0, fmt.Errorf("operation %d: %w", i, err)
			}
		case *chain.ContractCall:
			var (
				cfg *validator.Config
				err error
			)
			if action.Contract != chain.CreateContract {
				cfg, err = storage.GetContract(ctx, mu, action.Contract)
				if err != nil {
					return 0, err
				}
			}
			next, err := validator.Execute(group, i, cfg)
			if err != nil {
				return 0, fmt.Errorf("operation %d: %w", i, err)
			}
			if next == nil {
				continue
			}
			created, err = storage.NextContract(ctx, mu)
			if err != nil {
				return 0, err
			}
			if err := storage.SetContract(ctx, mu, created, next); err != nil {
				return 0, err
			}
		default:
			return 0, fmt.Errorf("%w: operation %d", chain.ErrUnknownAction, i)
		}
	}
	return created, nil
}

// transfer moves funds between opted-in accounts. A transfer to oneself
// opts the sender in.
func (*Ledger) transfer(ctx context.Context, mu state.Mutable, op *chain.Operation, t *chain.AssetTransfer) error {
	if _, err := storage.GetAsset(ctx, mu, t.Asset); err != nil {
		return err
	}
	if t.Receiver == op.Sender {
		if err := storage.OptIn(ctx, mu, op.Sender, t.Asset); err != nil {
			return err
		}
	}
	if err := storage.SubBalance(ctx, mu, op.Sender, t.Asset, t.Amount); err != nil {
		return err
	}
	return storage.AddBalance(ctx, mu, t.Receiver, t.Asset, t.Amount)
}
