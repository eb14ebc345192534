// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/keys"
	"github.com/dumbly-labs/taxvm/treasury"
	"github.com/dumbly-labs/taxvm/utils"
)

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Distribute the treasury to the burn, LP and rewards roles",
}

var distributeAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Split the whole treasury balance three ways",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		m, err := newManager(ctx)
		if err != nil {
			return err
		}
		bal, err := m.Balance(ctx)
		if err != nil {
			return err
		}
		plan := amount.Split(bal)
		utils.Outf(
			"{{yellow}}treasury:{{/}} %s {{yellow}}burn:{{/}} %s {{yellow}}lp:{{/}} %s {{yellow}}rewards:{{/}} %s\n",
			format(bal), format(plan.Burn), format(plan.LP), format(plan.Rewards),
		)
		if ok, err := confirm(); err != nil || !ok {
			return err
		}
		d, err := m.DistributeAll(ctx)
		if err != nil {
			return err
		}
		printDistribution(d)
		return nil
	},
}

var manualBurn, manualLP, manualRewards string

var distributeManualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Distribute explicit amounts to each target",
	RunE: func(*cobra.Command, []string) error {
		var (
			plan amount.Plan
			err  error
		)
		if plan.Burn, err = parseAmount(manualBurn); err != nil {
			return err
		}
		if plan.LP, err = parseAmount(manualLP); err != nil {
			return err
		}
		if plan.Rewards, err = parseAmount(manualRewards); err != nil {
			return err
		}
		ctx := context.Background()
		m, err := newManager(ctx)
		if err != nil {
			return err
		}
		if ok, err := confirm(); err != nil || !ok {
			return err
		}
		d, err := m.DistributeManual(ctx, plan)
		if err != nil {
			return err
		}
		printDistribution(d)
		return nil
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Print the balances of the burn, LP and rewards roles",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		m, err := newManager(ctx)
		if err != nil {
			return err
		}
		balances, err := m.TargetBalances(ctx)
		if err != nil {
			return err
		}
		utils.Outf("{{cyan}}balances for asset %d{{/}}\n", asset())
		for _, role := range []string{keys.RoleBurn, keys.RoleLP, keys.RoleRewards} {
			utils.Outf("{{yellow}}%s:{{/}} %s\n", role, format(balances[role]))
		}
		return nil
	},
}

func newManager(ctx context.Context) (*treasury.Manager, error) {
	h, err := newHandler(ctx)
	if err != nil {
		return nil, err
	}
	return h.manager()
}

func parseAmount(s string) (uint64, error) {
	return amount.Parse(s, decimals())
}

func printDistribution(d *treasury.Distribution) {
	if d.Status == treasury.StatusNoop {
		utils.Outf("{{yellow}}nothing to distribute{{/}}\n")
		return
	}
	utils.Outf(
		"{{green}}distributed{{/}} in %s at height %d: burn=%s lp=%s rewards=%s\n",
		d.GroupID, d.Height, format(d.Distributed.Burn), format(d.Distributed.LP), format(d.Distributed.Rewards),
	)
}

func init() {
	flags := distributeManualCmd.Flags()
	flags.StringVar(&manualBurn, "burn", "0", "amount sent to burn")
	flags.StringVar(&manualLP, "lp", "0", "amount sent to LP")
	flags.StringVar(&manualRewards, "rewards", "0", "amount sent to rewards")
	distributeCmd.AddCommand(distributeAllCmd, distributeManualCmd)
}
