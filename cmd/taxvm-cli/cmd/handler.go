// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/cli/prompt"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/keys"
	"github.com/dumbly-labs/taxvm/rpc"
	"github.com/dumbly-labs/taxvm/settlement"
	"github.com/dumbly-labs/taxvm/treasury"
	"github.com/dumbly-labs/taxvm/utils"
)

// handler carries what every ledger command needs.
type handler struct {
	keys      *keys.Keychain
	cli       *rpc.JSONRPCClient
	submitter *settlement.Submitter
}

func loadKeychain() (*keys.Keychain, error) {
	return keys.Load(viper.GetString("key-dir"))
}

func newHandler(ctx context.Context) (*handler, error) {
	k, err := loadKeychain()
	if err != nil {
		return nil, err
	}
	cli := rpc.NewJSONRPCClient(viper.GetString("endpoint"))
	network, err := cli.Network(ctx)
	if err != nil {
		return nil, err
	}
	utils.Outf("{{yellow}}chainID:{{/}} %s {{yellow}}height:{{/}} %d\n", network.ChainID, network.Height)
	s, err := settlement.New(logging.NoLog{}, cli, k, prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}
	return &handler{keys: k, cli: cli, submitter: s}, nil
}

func asset() uint64 { return viper.GetUint64("asset") }

func decimals() uint8 { return uint8(viper.GetUint("decimals")) }

func format(v uint64) string { return amount.Format(v, decimals()) }

// confirm asks before submitting unless --yes was given.
func confirm() (bool, error) {
	if viper.GetBool("yes") {
		return true, nil
	}
	return prompt.Continue()
}

func (h *handler) role(name string) (codec.Address, error) {
	return h.keys.Role(name)
}

// settle signs and submits [group], then waits for its receipt.
func (h *handler) settle(ctx context.Context, group *chain.Group) (*chain.Receipt, error) {
	ok, err := confirm()
	if err != nil || !ok {
		return nil, err
	}
	receipt, err := h.submitter.Settle(ctx, group, viper.GetDuration("timeout"))
	if err != nil {
		return nil, err
	}
	utils.Outf("{{green}}confirmed{{/}} group %s at height %d\n", receipt.GroupID, receipt.Height)
	return receipt, nil
}

func (h *handler) manager() (*treasury.Manager, error) {
	addrs := make([]codec.Address, 4)
	for i, role := range []string{keys.RoleTreasury, keys.RoleBurn, keys.RoleLP, keys.RoleRewards} {
		addr, err := h.role(role)
		if err != nil {
			return nil, fmt.Errorf("%w: run `key address %s --set <address>` first", err, role)
		}
		addrs[i] = addr
	}
	return treasury.New(
		logging.NoLog{},
		h.cli,
		h.keys,
		addrs[0],
		treasury.Targets{Burn: addrs[1], LP: addrs[2], Rewards: addrs[3]},
		asset(),
		viper.GetDuration("timeout"),
		prometheus.NewRegistry(),
	)
}
