// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import "errors"

var (
	ErrMempoolFull   = errors.New("mempool is full")
	ErrPayerLimit    = errors.New("payer has too many pending items")
	ErrDuplicateItem = errors.New("item already in mempool")
)
