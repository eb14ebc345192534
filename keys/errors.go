// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import "errors"

var (
	ErrUnknownKey  = errors.New("no key for address")
	ErrUnknownRole = errors.New("unknown role")
	ErrNoSigner    = errors.New("role has no signing key")
)
