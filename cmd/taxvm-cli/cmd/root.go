// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dumbly-labs/taxvm/consts"
)

const (
	defaultEndpoint = "http://127.0.0.1:9650"
	defaultTimeout  = 30 * time.Second
)

var rootCmd = &cobra.Command{
	Use:        "taxvm-cli",
	Short:      "TaxVM CLI",
	SuggestFor: []string{"taxvm-cli", "taxvmcli"},
	Version:    consts.Version,
}

func init() {
	cobra.EnablePrefixMatching = true

	flags := rootCmd.PersistentFlags()
	flags.String("endpoint", defaultEndpoint, "ledger node uri")
	flags.String("key-dir", filepath.Join(".taxvm", "keys"), "directory holding role keys")
	flags.Uint64("asset", 1, "taxed asset id")
	flags.Uint8("decimals", 0, "decimals used to display and parse amounts")
	flags.Duration("timeout", defaultTimeout, "time to wait for confirmation")
	flags.Bool("yes", false, "skip confirmation prompts")
	for _, name := range []string{"endpoint", "key-dir", "asset", "decimals", "timeout", "yes"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix(consts.Name)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		keyCmd,
		optInCmd,
		deployCmd,
		clearCmd,
		sellCmd,
		distributeCmd,
		targetsCmd,
	)
}

func Execute() error {
	return rootCmd.Execute()
}
