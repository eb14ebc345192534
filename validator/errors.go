// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validator

import "errors"

var (
	ErrGroupSize        = errors.New("group must contain exactly three operations")
	ErrNotAssetTransfer = errors.New("operation is not an asset transfer")
	ErrTaxMismatch      = errors.New("tax amount does not match the tax rate")
	ErrTreasuryMismatch = errors.New("tax receiver is not the treasury")
	ErrUnknownContract  = errors.New("contract does not exist")
)
