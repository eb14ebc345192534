// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package builder

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNothingToDistribute = errors.New("nothing to distribute")
)
