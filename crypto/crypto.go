// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto holds the errors shared by the signature schemes used to
// authorize ledger operations.
package crypto

import "errors"

var (
	ErrInvalidKeyEncoding = errors.New("private key is not valid hex")
	ErrInvalidPrivateKey  = errors.New("invalid private key")
	ErrInvalidPublicKey   = errors.New("invalid public key")
	ErrInvalidSignature   = errors.New("invalid signature")
)
