// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "taxvm-cli" manages keys and settles taxed transfers and distributions
// against a taxvm ledger.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/dumbly-labs/taxvm/cmd/taxvm-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.Red("taxvm-cli failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
