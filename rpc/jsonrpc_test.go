// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/builder"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/config"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/genesis"
	"github.com/dumbly-labs/taxvm/keys"
	"github.com/dumbly-labs/taxvm/ledger"
	"github.com/dumbly-labs/taxvm/settlement"
	"github.com/dumbly-labs/taxvm/validator"
)

const (
	taxAsset       = 1
	confirmTimeout = 5 * time.Second
)

type testNode struct {
	ledger *ledger.Ledger
	keys   *keys.Keychain
	client *JSONRPCClient
	uri    string
}

func (n *testNode) addr(t *testing.T, role string) codec.Address {
	addr, err := n.keys.Role(role)
	require.NoError(t, err)
	return addr
}

func newTestNode(t *testing.T) *testNode {
	require := require.New(t)

	k := keys.New()
	for _, role := range []string{keys.RoleAdmin, keys.RoleTreasury, keys.RoleSeller, keys.RoleBuyer} {
		_, err := k.Generate(role)
		require.NoError(err)
	}
	g := genesis.Default()
	g.ChainID = ids.GenerateTestID()
	g.Assets = []*genesis.Asset{{ID: taxAsset, Symbol: "TAX", Decimals: 6}}
	seller, err := k.Role(keys.RoleSeller)
	require.NoError(err)
	g.CustomAllocation = []*genesis.CustomAllocation{
		{Address: codec.MustAddressBech32(consts.HRP, seller), Asset: taxAsset, Balance: 10_000},
	}
	for _, role := range []string{keys.RoleBuyer, keys.RoleTreasury} {
		addr, err := k.Role(role)
		require.NoError(err)
		g.OptIns = append(g.OptIns, &genesis.OptIn{Address: codec.MustAddressBech32(consts.HRP, addr), Asset: taxAsset})
	}

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.BlockInterval = 10 * time.Millisecond
	l, err := ledger.New(logging.NoLog{}, cfg, memdb.New(), g, prometheus.NewRegistry())
	require.NoError(err)

	handler, err := NewHandler(l)
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	srv := httptest.NewServer(mux)

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		srv.Close()
		require.NoError(l.Close())
	})
	return &testNode{ledger: l, keys: k, client: NewJSONRPCClient(srv.URL), uri: srv.URL}
}

func TestPingNetwork(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t)
	ctx := context.Background()

	ok, err := n.client.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	network, err := n.client.Network(ctx)
	require.NoError(err)
	require.Equal(n.ledger.ChainID(), network.ChainID)
	require.Equal(consts.HRP, network.HRP)

	params, err := n.client.SuggestedParams(ctx)
	require.NoError(err)
	require.Equal(n.ledger.ChainID(), params.ChainID)
	require.Positive(params.ValidityWindow)
}

func TestSettleOverRPC(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t)
	ctx := context.Background()

	s, err := settlement.New(logging.NoLog{}, n.client, n.keys, prometheus.NewRegistry())
	require.NoError(err)

	params, err := n.client.SuggestedParams(ctx)
	require.NoError(err)
	create, err := builder.Create(params, n.addr(t, keys.RoleAdmin), n.addr(t, keys.RoleTreasury))
	require.NoError(err)
	receipt, err := s.Settle(ctx, create, confirmTimeout)
	require.NoError(err)
	require.Equal(chain.StatusConfirmed, receipt.Status)
	contract := receipt.Contract
	require.NotZero(contract)

	cfg, err := n.client.Contract(ctx, contract)
	require.NoError(err)
	require.Equal(&validator.Config{
		Admin:    n.addr(t, keys.RoleAdmin),
		Treasury: n.addr(t, keys.RoleTreasury),
	}, cfg)
	cfg, err = n.client.Contract(ctx, contract+100)
	require.NoError(err)
	require.Nil(cfg)

	available, err := n.client.Balance(ctx, n.addr(t, keys.RoleSeller), taxAsset)
	require.NoError(err)
	require.Equal(uint64(10_000), available)

	params, err = n.client.SuggestedParams(ctx)
	require.NoError(err)
	sale, err := builder.TaxedTransfer(params, &builder.TaxedTransferInput{
		Seller:    n.addr(t, keys.RoleSeller),
		Buyer:     n.addr(t, keys.RoleBuyer),
		Treasury:  n.addr(t, keys.RoleTreasury),
		Asset:     taxAsset,
		Contract:  contract,
		Total:     1000,
		Available: available,
	})
	require.NoError(err)
	receipt, err = s.Settle(ctx, sale, confirmTimeout)
	require.NoError(err)
	require.Equal(chain.StatusConfirmed, receipt.Status)

	for role, want := range map[string]uint64{
		keys.RoleSeller:   9_000,
		keys.RoleBuyer:    910,
		keys.RoleTreasury: 90,
	} {
		bal, err := n.client.Balance(ctx, n.addr(t, role), taxAsset)
		require.NoError(err)
		require.Equal(want, bal, role)
	}
}

func TestRejectionsRebuilt(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t)
	ctx := context.Background()

	params, err := n.client.SuggestedParams(ctx)
	require.NoError(err)
	sale, err := builder.TaxedTransfer(params, &builder.TaxedTransferInput{
		Seller:    n.addr(t, keys.RoleSeller),
		Buyer:     n.addr(t, keys.RoleBuyer),
		Treasury:  n.addr(t, keys.RoleTreasury),
		Asset:     taxAsset,
		Contract:  42,
		Total:     1000,
		Available: 10_000,
	})
	require.NoError(err)
	sg, err := settlement.SignAll(sale, n.keys)
	require.NoError(err)
	_, err = n.client.Submit(ctx, sg)
	require.ErrorIs(err, validator.ErrUnknownContract)
	require.NotErrorIs(err, settlement.ErrLedgerUnavailable)

	create, err := builder.Create(params, n.addr(t, keys.RoleAdmin), n.addr(t, keys.RoleTreasury))
	require.NoError(err)
	sg, err = settlement.SignAll(create, n.keys)
	require.NoError(err)
	id, err := n.client.Submit(ctx, sg)
	require.NoError(err)
	require.Equal(sg.ID(), id)
	_, err = n.client.Submit(ctx, sg)
	require.ErrorIs(err, chain.ErrDuplicateGroup)
}

func TestStatusUnknown(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t)

	id := ids.GenerateTestID()
	receipt, err := n.client.Status(context.Background(), id)
	require.NoError(err)
	require.Equal(id, receipt.GroupID)
	require.Equal(chain.StatusUnknown, receipt.Status)
}

func TestLedgerUnavailable(t *testing.T) {
	require := require.New(t)

	srv := httptest.NewServer(http.NotFoundHandler())
	cli := NewJSONRPCClient(srv.URL)
	srv.Close()

	_, err := cli.SuggestedParams(context.Background())
	require.ErrorIs(err, settlement.ErrLedgerUnavailable)
	_, err = cli.Status(context.Background(), ids.GenerateTestID())
	require.ErrorIs(err, settlement.ErrLedgerUnavailable)
}

func TestSuggestedParamsSharedRequest(t *testing.T) {
	require := require.New(t)
	n := newTestNode(t)

	target, err := url.Parse(n.uri)
	require.NoError(err)
	proxy := httputil.NewSingleHostReverseProxy(target)
	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	gate := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-release
		proxy.ServeHTTP(w, r)
	}))
	defer gate.Close()
	cli := NewJSONRPCClient(gate.URL)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := cli.SuggestedParams(ctx)
		first <- err
	}()
	<-arrived

	type result struct {
		params *builder.Params
		err    error
	}
	second := make(chan result, 1)
	go func() {
		p, err := cli.SuggestedParams(context.Background())
		second <- result{p, err}
	}()
	// Let the second caller join the request in flight.
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(<-first, context.Canceled)

	close(release)
	res := <-second
	require.NoError(res.err)
	require.Equal(n.ledger.ChainID(), res.params.ChainID)
}

func TestRejectionCodes(t *testing.T) {
	require := require.New(t)

	for _, cause := range rejections {
		code := rejectionCode(cause)
		require.GreaterOrEqual(code, firstCode)
		err := rejectionError(code, "")
		require.ErrorIs(err, cause)
		require.Equal(cause.Error(), err.Error())
	}
	require.Equal(CodeOther, rejectionCode(context.Canceled))
	require.ErrorIs(rejectionError(CodeOther, "nope"), ErrRejected)
	require.ErrorIs(rejectionError(9_999, "nope"), ErrRejected)
}
