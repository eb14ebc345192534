// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/hdevalence/ed25519consensus"

	"github.com/dumbly-labs/taxvm/crypto"
)

type (
	PublicKey  [ed25519.PublicKeySize]byte
	PrivateKey [ed25519.PrivateKeySize]byte
	Signature  [ed25519.SignatureSize]byte
)

// Signatures are verified with the ZIP-215 rules
// (https://zips.z.cash/zip-0215) so single and batch verification
// always agree on validity.
const (
	PublicKeyLen  = ed25519.PublicKeySize
	PrivateKeyLen = ed25519.PrivateKeySize
	// PrivateKeySeedLen is defined because ed25519.PrivateKey
	// is formatted as privateKey = seed|publicKey.
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize

	MinBatchSize = 4
)

var (
	EmptyPublicKey  = [ed25519.PublicKeySize]byte{}
	EmptyPrivateKey = [ed25519.PrivateKeySize]byte{}
	EmptySignature  = [ed25519.SignatureSize]byte{}
)

// GeneratePrivateKey returns a Ed25519 PrivateKey.
func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k), nil
}

// PublicKey returns a PublicKey associated with the Ed25519 PrivateKey p.
// The PublicKey is the last 32 bytes of p.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(p[PrivateKeySeedLen:])
}

// ToHex returns the hex encoding of p, the format used for key files.
func (p PrivateKey) ToHex() string {
	return hex.EncodeToString(p[:])
}

// HexToKey decodes a hex encoded private key. A 32 byte seed is also
// accepted and expanded.
func HexToKey(key string) (PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimSpace(key))
	if err != nil {
		return EmptyPrivateKey, fmt.Errorf("%w: %w", crypto.ErrInvalidKeyEncoding, err)
	}
	switch len(b) {
	case PrivateKeyLen:
		k := PrivateKey(b)
		if PrivateKey(ed25519.NewKeyFromSeed(b[:PrivateKeySeedLen])) != k {
			return EmptyPrivateKey, crypto.ErrInvalidPrivateKey
		}
		return k, nil
	case PrivateKeySeedLen:
		return PrivateKey(ed25519.NewKeyFromSeed(b)), nil
	default:
		return EmptyPrivateKey, crypto.ErrInvalidPrivateKey
	}
}

// LoadKey returns a PrivateKey from a file containing its hex encoding.
func LoadKey(filename string) (PrivateKey, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return HexToKey(string(b))
}

// Save writes the hex encoding of p to [filename].
func (p PrivateKey) Save(filename string) error {
	return os.WriteFile(filename, []byte(p.ToHex()), 0o600)
}

// Sign returns a valid signature for msg using pk.
func Sign(msg []byte, pk PrivateKey) Signature {
	sig := ed25519.Sign(pk[:], msg)
	return Signature(sig)
}

// Verify returns whether s is a valid signature of msg by p.
func Verify(msg []byte, p PublicKey, s Signature) bool {
	return ed25519consensus.Verify(p[:], msg, s[:])
}

type Batch struct {
	bv ed25519consensus.BatchVerifier
}

func NewBatch(size int) *Batch {
	return &Batch{bv: ed25519consensus.NewPreallocatedBatchVerifier(size)}
}

func (b *Batch) Add(msg []byte, p PublicKey, s Signature) {
	b.bv.Add(p[:], msg, s[:])
}

func (b *Batch) Verify() bool {
	return b.bv.Verify()
}

func (b *Batch) VerifyAsync() func() error {
	return func() error {
		if !b.Verify() {
			return crypto.ErrInvalidSignature
		}
		return nil
	}
}
