// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/dumbly-labs/taxvm/codec"
)

// Auth proves that the sender of an operation approved it.
type Auth interface {
	// GetTypeID uniquely identifies the auth scheme on the wire.
	GetTypeID() uint8

	// Verify checks the authorization over [msg].
	Verify(ctx context.Context, msg []byte) error

	// Actor is the account that produced the authorization.
	Actor() codec.Address

	Size() int
	Marshal(p *codec.Packer)
}

// AuthFactory is an opaque signer. Private key material never leaves it.
type AuthFactory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}

// AuthRegistry decodes auth payloads by type id.
type AuthRegistry = codec.TypeParser[Auth]
