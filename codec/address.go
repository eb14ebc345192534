// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/dumbly-labs/taxvm/consts"
)

const (
	AddressLen = 33

	// fromBits is the number of bits in a byte and toBits is the
	// number of bits in a bech32 character.
	fromBits = 8
	toBits   = 5
)

// Address represents the 33 byte address of a ledger account. The first
// byte identifies the signature scheme that controls it.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	var a Address
	a[0] = typeID
	copy(a[1:], id[:])
	return a
}

// AddressBech32 returns the bech32 encoding of [p] using [hrp].
func AddressBech32(hrp string, p Address) (string, error) {
	p5, err := bech32.ConvertBits(p[:], fromBits, toBits, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, p5)
}

// MustAddressBech32 panics if bech32 encoding fails.
func MustAddressBech32(hrp string, p Address) string {
	addr, err := AddressBech32(hrp, p)
	if err != nil {
		panic(err)
	}
	return addr
}

// ParseAddressBech32 parses a bech32 encoded address string and verifies
// its human readable part and length.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, ErrIncorrectHRP
	}
	// The parsed data is in 5-bit groups and must be converted back to bytes.
	p8, err := bech32.ConvertBits(p, toBits, fromBits, false)
	if err != nil {
		return EmptyAddress, err
	}
	if len(p8) != AddressLen {
		return EmptyAddress, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidSize, AddressLen, len(p8))
	}
	return Address(p8), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return MustAddressBech32(consts.HRP, a)
}

func (a Address) MarshalText() ([]byte, error) {
	s, err := AddressBech32(consts.HRP, a)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddressBech32(consts.HRP, string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
