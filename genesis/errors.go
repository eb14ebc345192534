// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import "errors"

var (
	ErrInvalidHRP         = errors.New("invalid hrp")
	ErrDuplicateAsset     = errors.New("duplicate asset")
	ErrUnknownAsset       = errors.New("allocation of unknown asset")
	ErrSupplyMismatch     = errors.New("allocations do not match supply")
	ErrMissingNativeAsset = errors.New("fees require the native asset")
	ErrInvalidWindow      = errors.New("invalid validity window")
)
