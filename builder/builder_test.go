// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package builder

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/validator"
)

var (
	params = &Params{
		ChainID:        ids.GenerateTestID(),
		Fee:            1,
		Now:            1_700_000_000_500,
		ValidityWindow: 60_000,
	}
	seller   = codec.CreateAddress(0, ids.GenerateTestID())
	buyer    = codec.CreateAddress(0, ids.GenerateTestID())
	treasury = codec.CreateAddress(0, ids.GenerateTestID())
	burn     = codec.CreateAddress(0, ids.GenerateTestID())
	lp       = codec.CreateAddress(0, ids.GenerateTestID())
	rewards  = codec.CreateAddress(0, ids.GenerateTestID())
)

func TestParamsBase(t *testing.T) {
	require := require.New(t)

	base := params.Base()
	require.Equal(int64(1_700_000_060_000), base.Timestamp)
	require.NoError(base.Execute(params.ChainID, params.ValidityWindow, params.Now))
}

func TestTaxedTransfer(t *testing.T) {
	require := require.New(t)

	in := &TaxedTransferInput{
		Seller:    seller,
		Buyer:     buyer,
		Treasury:  treasury,
		Asset:     7,
		Contract:  3,
		Total:     1000,
		Available: 1000,
	}
	g, err := TaxedTransfer(params, in)
	require.NoError(err)
	require.Len(g.Ops, 3)
	require.NoError(g.Verify())

	net, ok := g.Ops[0].Transfer()
	require.True(ok)
	require.Equal(buyer, net.Receiver)
	require.Equal(uint64(910), net.Amount)
	tax, ok := g.Ops[1].Transfer()
	require.True(ok)
	require.Equal(treasury, tax.Receiver)
	require.Equal(uint64(90), tax.Amount)
	call, ok := g.Ops[2].Call()
	require.True(ok)
	require.Equal(uint64(3), call.Contract)
	for _, op := range g.Ops {
		require.Equal(seller, op.Sender)
	}

	// The group passes the on-chain check.
	require.NoError(validator.Validate(g, &validator.Config{Treasury: treasury}))

	// Same inputs produce the same group.
	again, err := TaxedTransfer(params, in)
	require.NoError(err)
	require.Equal(g.ID, again.ID)
}

func TestTaxedTransferInsufficient(t *testing.T) {
	require := require.New(t)

	_, err := TaxedTransfer(params, &TaxedTransferInput{
		Seller:    seller,
		Buyer:     buyer,
		Treasury:  treasury,
		Total:     1001,
		Available: 1000,
	})
	require.ErrorIs(err, ErrInsufficientBalance)
}

func TestDistribution(t *testing.T) {
	require := require.New(t)

	in := &DistributionInput{
		Treasury:  treasury,
		Asset:     7,
		Burn:      burn,
		LP:        lp,
		Rewards:   rewards,
		Plan:      amount.Split(1000),
		Available: 1000,
	}
	g, err := Distribution(params, in)
	require.NoError(err)
	require.Len(g.Ops, 3)

	expected := []struct {
		receiver codec.Address
		amount   uint64
	}{
		{burn, 333},
		{lp, 334},
		{rewards, 333},
	}
	for i, e := range expected {
		transfer, ok := g.Ops[i].Transfer()
		require.True(ok)
		require.Equal(e.receiver, transfer.Receiver)
		require.Equal(e.amount, transfer.Amount)
		require.Equal(treasury, g.Ops[i].Sender)
	}

	in.Available = 999
	_, err = Distribution(params, in)
	require.ErrorIs(err, ErrInsufficientBalance)

	in.Plan = amount.Plan{}
	_, err = Distribution(params, in)
	require.ErrorIs(err, ErrNothingToDistribute)
}

func TestCreateOptIn(t *testing.T) {
	require := require.New(t)

	g, err := Create(params, seller, treasury)
	require.NoError(err)
	require.Len(g.Ops, 1)
	call, ok := g.Ops[0].Call()
	require.True(ok)
	require.Equal(chain.CreateContract, call.Contract)
	cfg, err := validator.Create(call)
	require.NoError(err)
	require.Equal(treasury, cfg.Treasury)
	require.Equal(seller, cfg.Admin)

	g, err = OptIn(params, buyer, 7)
	require.NoError(err)
	transfer, ok := g.Ops[0].Transfer()
	require.True(ok)
	require.Equal(buyer, transfer.Receiver)
	require.Equal(buyer, g.Ops[0].Sender)
	require.Zero(transfer.Amount)

	g, err = ClearState(params, buyer, 3)
	require.NoError(err)
	call, ok = g.Ops[0].Call()
	require.True(ok)
	require.Equal(chain.ClearState, call.OnComplete)
}
