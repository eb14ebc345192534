// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Subdirectory of the data directory that holds the ledger database.
const ledgerDir = "ledgerdb"
