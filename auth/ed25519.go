// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/crypto"
	"github.com/dumbly-labs/taxvm/crypto/ed25519"
)

var _ chain.Auth = (*ED25519)(nil)

const ED25519Size = ed25519.PublicKeyLen + ed25519.SignatureLen

type ED25519 struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`

	addr codec.Address
}

func (d *ED25519) address() codec.Address {
	if d.addr == codec.EmptyAddress {
		d.addr = NewED25519Address(d.Signer)
	}
	return d.addr
}

func (*ED25519) GetTypeID() uint8 {
	return ED25519ID
}

func (d *ED25519) Verify(_ context.Context, msg []byte) error {
	if !ed25519.Verify(msg, d.Signer, d.Signature) {
		return crypto.ErrInvalidSignature
	}
	return nil
}

func (d *ED25519) Actor() codec.Address {
	return d.address()
}

func (*ED25519) Size() int {
	return ED25519Size
}

func (d *ED25519) Marshal(p *codec.Packer) {
	p.PackFixedBytes(d.Signer[:])
	p.PackFixedBytes(d.Signature[:])
}

func UnmarshalED25519(p *codec.Packer) (chain.Auth, error) {
	var d ED25519
	signer := d.Signer[:] // avoid allocating additional memory
	p.UnpackFixedBytes(ed25519.PublicKeyLen, &signer)
	signature := d.Signature[:] // avoid allocating additional memory
	p.UnpackFixedBytes(ed25519.SignatureLen, &signature)
	if d.Signer == ed25519.EmptyPublicKey {
		return nil, fmt.Errorf("%w: empty signer", crypto.ErrInvalidPublicKey)
	}
	return &d, p.Err()
}

var _ chain.AuthFactory = (*ED25519Factory)(nil)

type ED25519Factory struct {
	priv ed25519.PrivateKey
}

func NewED25519Factory(priv ed25519.PrivateKey) *ED25519Factory {
	return &ED25519Factory{priv}
}

func (d *ED25519Factory) Sign(msg []byte) (chain.Auth, error) {
	sig := ed25519.Sign(msg, d.priv)
	return &ED25519{Signer: d.priv.PublicKey(), Signature: sig}, nil
}

// PrivateKey is exposed for key export.
func (d *ED25519Factory) PrivateKey() ed25519.PrivateKey {
	return d.priv
}

func (d *ED25519Factory) Address() codec.Address {
	return NewED25519Address(d.priv.PublicKey())
}

// NewED25519Address embeds [pk] directly after the type byte.
func NewED25519Address(pk ed25519.PublicKey) codec.Address {
	return codec.CreateAddress(ED25519ID, ids.ID(pk))
}

// BatchVerify checks every ed25519 authorization in [auths] against the
// matching entry of [msgs]. Fewer than [ed25519.MinBatchSize] signatures are
// verified one at a time.
func BatchVerify(ctx context.Context, msgs [][]byte, auths []chain.Auth) error {
	if len(msgs) != len(auths) {
		return fmt.Errorf("%w: %d messages for %d signatures", crypto.ErrInvalidSignature, len(msgs), len(auths))
	}
	if len(auths) < ed25519.MinBatchSize {
		for i, a := range auths {
			if err := a.Verify(ctx, msgs[i]); err != nil {
				return err
			}
		}
		return nil
	}
	batch := ed25519.NewBatch(len(auths))
	for i, a := range auths {
		d, ok := a.(*ED25519)
		if !ok {
			if err := a.Verify(ctx, msgs[i]); err != nil {
				return err
			}
			continue
		}
		batch.Add(msgs[i], d.Signer, d.Signature)
	}
	return batch.VerifyAsync()()
}

// NewRegistry returns the decoders of every supported auth scheme.
func NewRegistry() (*chain.AuthRegistry, error) {
	registry := codec.NewTypeParser[chain.Auth]()
	errs := &wrappers.Errs{}
	errs.Add(
		registry.Register(&ED25519{}, ED25519ID, UnmarshalED25519),
	)
	return registry, errs.Err
}
