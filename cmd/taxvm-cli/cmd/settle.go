// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dumbly-labs/taxvm/builder"
	"github.com/dumbly-labs/taxvm/cli/prompt"
	"github.com/dumbly-labs/taxvm/keys"
	"github.com/dumbly-labs/taxvm/utils"
)

var optInCmd = &cobra.Command{
	Use:   "optin [role...]",
	Short: "Opt roles in to the taxed asset",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		for _, role := range args {
			addr, err := h.role(role)
			if err != nil {
				return err
			}
			params, err := h.cli.SuggestedParams(ctx)
			if err != nil {
				return err
			}
			group, err := builder.OptIn(params, addr, asset())
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}opting in %s{{/}} (%s)\n", role, addr)
			if _, err := h.settle(ctx, group); err != nil {
				return err
			}
		}
		return nil
	},
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Create a tax contract owned by the admin role",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		admin, err := h.role(keys.RoleAdmin)
		if err != nil {
			return err
		}
		treasury, err := h.role(keys.RoleTreasury)
		if err != nil {
			return err
		}
		params, err := h.cli.SuggestedParams(ctx)
		if err != nil {
			return err
		}
		group, err := builder.Create(params, admin, treasury)
		if err != nil {
			return err
		}
		receipt, err := h.settle(ctx, group)
		if err != nil || receipt == nil {
			return err
		}
		utils.Outf("{{green}}created contract:{{/}} %d\n", receipt.Contract)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [role] [contract]",
	Short: "Clear a role's local state for a tax contract",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		addr, err := h.role(args[0])
		if err != nil {
			return err
		}
		contract, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		params, err := h.cli.SuggestedParams(ctx)
		if err != nil {
			return err
		}
		group, err := builder.ClearState(params, addr, contract)
		if err != nil {
			return err
		}
		_, err = h.settle(ctx, group)
		return err
	},
}

var (
	sellContract uint64
	sellAmount   string
)

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Send a taxed transfer from the seller to the buyer",
	RunE: func(*cobra.Command, []string) error {
		ctx := context.Background()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		seller, err := h.role(keys.RoleSeller)
		if err != nil {
			return err
		}
		buyer, err := h.role(keys.RoleBuyer)
		if err != nil {
			return err
		}
		treasury, err := h.role(keys.RoleTreasury)
		if err != nil {
			return err
		}
		if sellContract == 0 {
			sellContract, err = prompt.Uint64("contract")
			if err != nil {
				return err
			}
		}
		available, err := h.cli.Balance(ctx, seller, asset())
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}seller balance:{{/}} %s\n", format(available))

		var total uint64
		if len(sellAmount) > 0 {
			total, err = parseAmount(sellAmount)
		} else {
			total, err = prompt.Amount("amount", decimals(), available)
		}
		if err != nil {
			return err
		}
		params, err := h.cli.SuggestedParams(ctx)
		if err != nil {
			return err
		}
		group, err := builder.TaxedTransfer(params, &builder.TaxedTransferInput{
			Seller:    seller,
			Buyer:     buyer,
			Treasury:  treasury,
			Asset:     asset(),
			Contract:  sellContract,
			Total:     total,
			Available: available,
		})
		if err != nil {
			return err
		}
		net, _ := group.Ops[0].Transfer()
		tax, _ := group.Ops[1].Transfer()
		utils.Outf("{{yellow}}net:{{/}} %s {{yellow}}tax:{{/}} %s\n", format(net.Amount), format(tax.Amount))
		_, err = h.settle(ctx, group)
		return err
	},
}

func init() {
	sellCmd.Flags().Uint64Var(&sellContract, "contract", 0, "tax contract id")
	sellCmd.Flags().StringVar(&sellAmount, "amount", "", "amount to sell, prompted when empty")
}
