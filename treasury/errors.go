// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import "errors"

var (
	ErrOverRequest   = errors.New("requested amount exceeds treasury balance")
	ErrInvalidConfig = errors.New("invalid treasury config")
)
