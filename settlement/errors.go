// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package settlement

import (
	"errors"

	"github.com/dumbly-labs/taxvm/amount"
)

var (
	// ErrInvalidAmount is returned when an intent carries a negative,
	// non-integral or overflowing amount.
	ErrInvalidAmount = amount.ErrInvalidAmount

	ErrMissingKey          = errors.New("no key for sender")
	ErrStaleParameters     = errors.New("network parameters expired")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
	ErrGroupRejected       = errors.New("group rejected")
	ErrDuplicateGroup      = errors.New("group already submitted")

	// ErrLedgerUnavailable marks failures to reach the ledger. Remote ledger
	// clients wrap transport errors with it so they are not mistaken for
	// rejections.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)
