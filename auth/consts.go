// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

// Auth type ids are part of the wire format and are assigned explicitly.
const (
	ED25519ID uint8 = 0

	ED25519Key = "ed25519"
)
