// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/auth"
	"github.com/dumbly-labs/taxvm/auth/authtest"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/crypto/ed25519"
)

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func taxedOps(base *chain.Base, seller, buyer, treasury codec.Address) []*chain.Operation {
	return []*chain.Operation{
		chain.NewOperation(base, seller, &chain.AssetTransfer{Receiver: buyer, Asset: 1, Amount: 910}),
		chain.NewOperation(base, seller, &chain.AssetTransfer{Receiver: treasury, Asset: 1, Amount: 90}),
		chain.NewOperation(base, seller, &chain.ContractCall{Contract: 1, OnComplete: chain.NoOp, Args: &chain.TaxArgs{}}),
	}
}

func sign(t *testing.T, g *chain.Group, f chain.AuthFactory) *chain.SignedGroup {
	require := require.New(t)
	sops := make([]*chain.SignedOperation, len(g.Ops))
	for i, op := range g.Ops {
		msg, err := op.Bytes()
		require.NoError(err)
		a, err := f.Sign(msg)
		require.NoError(err)
		sops[i] = &chain.SignedOperation{Op: op, Auth: a}
	}
	sg, err := chain.NewSignedGroup(sops)
	require.NoError(err)
	return sg
}

func TestGroupIDDeterministic(t *testing.T) {
	require := require.New(t)

	base := &chain.Base{Timestamp: 10_000, ChainID: ids.GenerateTestID(), Fee: 1}
	seller := newFactory(t).Address()
	buyer := newFactory(t).Address()
	treasury := newFactory(t).Address()

	g1, err := chain.NewGroup(taxedOps(base, seller, buyer, treasury)...)
	require.NoError(err)
	g2, err := chain.NewGroup(taxedOps(base, seller, buyer, treasury)...)
	require.NoError(err)
	require.Equal(g1.ID, g2.ID)
	require.NoError(g1.Verify())

	// Binding does not change the id.
	again, err := chain.ComputeGroupID(g1.Ops)
	require.NoError(err)
	require.Equal(g1.ID, again)

	// Order matters.
	ops := taxedOps(base, seller, buyer, treasury)
	ops[0], ops[1] = ops[1], ops[0]
	g3, err := chain.NewGroup(ops...)
	require.NoError(err)
	require.NotEqual(g1.ID, g3.ID)
}

func TestGroupVerify(t *testing.T) {
	require := require.New(t)

	base := &chain.Base{Timestamp: 10_000, ChainID: ids.GenerateTestID()}
	addr := newFactory(t).Address()
	g, err := chain.NewGroup(taxedOps(base, addr, addr, addr)...)
	require.NoError(err)

	// A member bound to a different group invalidates the whole group.
	g.Ops[1] = g.Ops[1].WithGroup(ids.GenerateTestID())
	require.ErrorIs(g.Verify(), chain.ErrGroupIDMismatch)

	g.Ops[1] = g.Ops[1].WithGroup(g.ID)
	require.NoError(g.Verify())
	g.ID = ids.GenerateTestID()
	require.ErrorIs(g.Verify(), chain.ErrGroupIDMismatch)

	_, err = chain.NewGroup()
	require.ErrorIs(err, chain.ErrEmptyGroup)
	many := make([]*chain.Operation, consts.MaxGroupSize+1)
	for i := range many {
		many[i] = taxedOps(base, addr, addr, addr)[0]
	}
	_, err = chain.NewGroup(many...)
	require.ErrorIs(err, chain.ErrTooManyOperations)
}

func TestSignedGroupRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	seller := newFactory(t)
	base := &chain.Base{Timestamp: 10_000, ChainID: ids.GenerateTestID(), Fee: 1}
	g, err := chain.NewGroup(taxedOps(base, seller.Address(), newFactory(t).Address(), newFactory(t).Address())...)
	require.NoError(err)
	sg := sign(t, g, seller)
	require.Equal(g.ID, sg.ID())
	require.Equal(int64(10_000), sg.Expiry())
	require.NoError(sg.Verify(ctx))

	registry, err := auth.NewRegistry()
	require.NoError(err)
	parsed, err := chain.ParseSignedGroup(sg.Bytes(), registry)
	require.NoError(err)
	require.Equal(sg.ID(), parsed.ID())
	require.Equal(sg.Bytes(), parsed.Bytes())
	require.NoError(parsed.Verify(ctx))

	call, ok := parsed.Group().Ops[2].Call()
	require.True(ok)
	require.Equal(chain.NoOp, call.OnComplete)
	require.IsType(&chain.TaxArgs{}, call.Args)

	_, err = chain.ParseSignedGroup(append(sg.Bytes(), 0), registry)
	require.ErrorIs(err, chain.ErrTrailingBytes)
}

func TestSignedGroupVerifyFailures(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	seller := newFactory(t)
	base := &chain.Base{Timestamp: 10_000, ChainID: ids.GenerateTestID()}
	g, err := chain.NewGroup(taxedOps(base, seller.Address(), seller.Address(), seller.Address())...)
	require.NoError(err)

	// Signed by someone other than the sender.
	sg := sign(t, g, newFactory(t))
	require.ErrorIs(sg.Verify(ctx), chain.ErrSignerMismatch)

	errBad := errors.New("bad signature")
	sops := make([]*chain.SignedOperation, len(g.Ops))
	for i, op := range g.Ops {
		sops[i] = &chain.SignedOperation{Op: op, Auth: &authtest.MockAuth{ActorAddr: seller.Address()}}
	}
	sops[2].Auth = &authtest.MockAuth{ActorAddr: seller.Address(), VerifyError: errBad}
	sg, err = chain.NewSignedGroup(sops)
	require.NoError(err)
	err = sg.Verify(ctx)
	require.ErrorIs(err, chain.ErrInvalidSignature)
	require.ErrorIs(err, errBad)
}

func TestCreateArgsCount(t *testing.T) {
	require := require.New(t)

	admin := newFactory(t).Address()
	call := &chain.ContractCall{
		Contract: chain.CreateContract,
		Args:     &chain.CreateArgs{Admin: admin, Treasury: admin},
	}
	p := codec.NewWriter(call.Size(), call.Size())
	call.Marshal(p)
	require.NoError(p.Err())

	parsed, err := chain.UnmarshalContractCall(codec.NewReader(p.Bytes(), len(p.Bytes())))
	require.NoError(err)
	require.Equal(call, parsed)

	// Rewrite the argument count to 3.
	b := p.Bytes()
	countOffset := consts.Uint64Len + consts.ByteLen + consts.BoolLen + consts.ByteLen
	b[countOffset+consts.IntLen-1] = 3
	_, err = chain.UnmarshalContractCall(codec.NewReader(b, len(b)))
	require.ErrorIs(err, chain.ErrArgumentCount)

	// Unknown on-complete values are rejected.
	b[consts.Uint64Len] = 7
	_, err = chain.UnmarshalContractCall(codec.NewReader(b, len(b)))
	require.ErrorIs(err, chain.ErrInvalidOnComplete)
}

func TestBaseExecute(t *testing.T) {
	require := require.New(t)

	chainID := ids.GenerateTestID()
	base := &chain.Base{Timestamp: 10_000, ChainID: chainID}
	require.NoError(base.Execute(chainID, 60_000, 9_000))
	require.ErrorIs(base.Execute(chainID, 60_000, 11_000), chain.ErrTimestampTooLate)
	require.ErrorIs(base.Execute(chainID, 500, 1_000), chain.ErrTimestampTooEarly)
	require.ErrorIs(base.Execute(ids.GenerateTestID(), 60_000, 9_000), chain.ErrInvalidChainID)

	misaligned := &chain.Base{Timestamp: 10_001, ChainID: chainID}
	require.ErrorIs(misaligned.Execute(chainID, 60_000, 9_000), chain.ErrMisalignedTime)
}

func TestReceiptBytes(t *testing.T) {
	require := require.New(t)

	r := &chain.Receipt{
		GroupID:   ids.GenerateTestID(),
		Status:    chain.StatusRejected,
		Height:    4,
		Timestamp: 12_000,
		Reason:    "tax mismatch",
	}
	b, err := r.Bytes()
	require.NoError(err)
	parsed, err := chain.UnmarshalReceipt(b)
	require.NoError(err)
	require.Equal(r, parsed)
	require.True(parsed.Status.Final())
	require.False(chain.StatusPending.Final())
}
