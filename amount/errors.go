// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amount

import "errors"

// ErrInvalidAmount is returned for negative, non-integral or overflowing
// amounts and for out of range tax rates.
var ErrInvalidAmount = errors.New("invalid amount")
