// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/rpc"
	"github.com/dumbly-labs/taxvm/utils"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage role keys",
}

var genKeyCmd = &cobra.Command{
	Use:   "generate [role]",
	Short: "Generate a new key for a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		k, err := loadKeychain()
		if err != nil {
			return err
		}
		f, err := k.Generate(args[0])
		if err != nil {
			return err
		}
		if err := k.Save(viper.GetString("key-dir")); err != nil {
			return err
		}
		utils.Outf("{{green}}created %s key:{{/}} %s\n", args[0], f.Address())
		return nil
	},
}

var importKeyCmd = &cobra.Command{
	Use:   "import [role] [hex private key]",
	Short: "Import an ed25519 key for a role",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		k, err := loadKeychain()
		if err != nil {
			return err
		}
		f, err := k.Import(args[0], args[1])
		if err != nil {
			return err
		}
		if err := k.Save(viper.GetString("key-dir")); err != nil {
			return err
		}
		utils.Outf("{{green}}imported %s key:{{/}} %s\n", args[0], f.Address())
		return nil
	},
}

var setAddress string

var addressKeyCmd = &cobra.Command{
	Use:   "address [role]",
	Short: "Print the address of a role, or bind a keyless role with --set",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		k, err := loadKeychain()
		if err != nil {
			return err
		}
		if len(setAddress) > 0 {
			addr, err := codec.ParseAddressBech32(consts.HRP, setAddress)
			if err != nil {
				return err
			}
			k.SetAddress(args[0], addr)
			if err := k.Save(viper.GetString("key-dir")); err != nil {
				return err
			}
		}
		addr, err := k.Role(args[0])
		if err != nil {
			return err
		}
		_, signErr := k.ResolveKey(addr)
		utils.Outf("{{yellow}}%s:{{/}} %s {{yellow}}signer:{{/}} %t\n", args[0], addr, signErr == nil)
		return nil
	},
}

var listKeyCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known role",
	RunE: func(*cobra.Command, []string) error {
		k, err := loadKeychain()
		if err != nil {
			return err
		}
		for _, role := range k.Roles() {
			addr, err := k.Role(role)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}%s:{{/}} %s\n", role, addr)
		}
		return nil
	},
}

var balanceKeyCmd = &cobra.Command{
	Use:   "balance [role]",
	Short: "Print the balance of a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		k, err := loadKeychain()
		if err != nil {
			return err
		}
		addr, err := k.Role(args[0])
		if err != nil {
			return err
		}
		cli := rpc.NewJSONRPCClient(viper.GetString("endpoint"))
		bal, err := cli.Balance(context.Background(), addr, asset())
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}%s balance:{{/}} %s (asset %d)\n", args[0], format(bal), asset())
		return nil
	},
}

func init() {
	addressKeyCmd.Flags().StringVar(&setAddress, "set", "", "bech32 address to bind to the role")
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		addressKeyCmd,
		listKeyCmd,
		balanceKeyCmd,
	)
}
