// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrInvalidBalance = errors.New("invalid balance")
	ErrNotOptedIn     = errors.New("account has not opted in to asset")
	ErrUnknownAsset   = errors.New("asset does not exist")
	ErrCorrupt        = errors.New("corrupt value")
)
