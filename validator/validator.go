// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validator is the on-chain tax program. The ledger runs it for
// every contract call and rejects the enclosing group when it fails.
package validator

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
)

type State uint8

const (
	Uninitialized State = iota
	Active
)

// StateOf returns the lifecycle state of a contract given its stored
// configuration.
func StateOf(cfg *Config) State {
	if cfg == nil {
		return Uninitialized
	}
	return Active
}

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "uninitialized"
}

// Config is the global state of one contract instance. It is written once
// at creation and never changes.
type Config struct {
	Admin    codec.Address `json:"admin"`
	Treasury codec.Address `json:"treasury"`
}

// Create handles a creation call and returns the global state to store.
func Create(call *chain.ContractCall) (*Config, error) {
	args, ok := call.Args.(*chain.CreateArgs)
	if !ok {
		count := 0
		if call.Args != nil {
			count = call.Args.Count()
		}
		return nil, fmt.Errorf("%w: create expects %d but got %d", chain.ErrArgumentCount, chain.CreateArgsCount, count)
	}
	return &Config{Admin: args.Admin, Treasury: args.Treasury}, nil
}

// Validate checks that [group] is a correctly taxed transfer for the
// contract described by [cfg]. A nil [cfg] means the contract was never
// created.
func Validate(group *chain.Group, cfg *Config) error {
	if cfg == nil {
		return ErrUnknownContract
	}
	if len(group.Ops) != consts.GroupSize {
		return fmt.Errorf("%w: got %d", ErrGroupSize, len(group.Ops))
	}
	net, ok := group.Ops[0].Transfer()
	if !ok {
		return fmt.Errorf("%w: operation 0", ErrNotAssetTransfer)
	}
	tax, ok := group.Ops[1].Transfer()
	if !ok {
		return fmt.Errorf("%w: operation 1", ErrNotAssetTransfer)
	}
	if err := checkTax(net.Amount, tax.Amount); err != nil {
		return err
	}
	if tax.Receiver != cfg.Treasury {
		return fmt.Errorf("%w: sent to %s", ErrTreasuryMismatch, tax.Receiver)
	}
	return nil
}

// checkTax requires tax*100 == (net+tax)*TaxRatePercent exactly. Any
// overflow is a mismatch.
func checkTax(net, tax uint64) error {
	lhs, err := smath.Mul64(tax, consts.PercentBase)
	if err != nil {
		return fmt.Errorf("%w: tax %d overflows", ErrTaxMismatch, tax)
	}
	total, err := smath.Add64(net, tax)
	if err != nil {
		return fmt.Errorf("%w: total overflows", ErrTaxMismatch)
	}
	rhs, err := smath.Mul64(total, consts.TaxRatePercent)
	if err != nil {
		return fmt.Errorf("%w: total %d overflows", ErrTaxMismatch, total)
	}
	if lhs != rhs {
		return fmt.Errorf("%w: tax=%d total=%d", ErrTaxMismatch, tax, total)
	}
	return nil
}

// Execute runs the program for the contract call at [index] of [group].
// [cfg] is the stored global state of the called contract, or nil. When the
// call creates a contract the new global state is returned.
func Execute(group *chain.Group, index int, cfg *Config) (*Config, error) {
	call, ok := group.Ops[index].Call()
	if !ok {
		return nil, fmt.Errorf("%w: operation %d is not a contract call", chain.ErrInvalidObject, index)
	}
	// Creation takes precedence over the completion action.
	if call.Contract == chain.CreateContract {
		return Create(call)
	}
	if call.OnComplete == chain.ClearState {
		return nil, nil
	}
	if _, ok := call.Args.(*chain.CreateArgs); ok {
		return nil, fmt.Errorf("%w: creation arguments on contract %d", chain.ErrUnexpectedArgs, call.Contract)
	}
	return nil, Validate(group, cfg)
}
