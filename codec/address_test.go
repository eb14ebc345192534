// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/consts"
)

func TestAddressBech32(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(0, ids.GenerateTestID())
	s, err := AddressBech32(consts.HRP, addr)
	require.NoError(err)
	require.True(strings.HasPrefix(s, consts.HRP+"1"))

	parsed, err := ParseAddressBech32(consts.HRP, s)
	require.NoError(err)
	require.Equal(addr, parsed)

	_, err = ParseAddressBech32("other", s)
	require.ErrorIs(err, ErrIncorrectHRP)
}

func TestAddressPacker(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(1, ids.GenerateTestID())
	wp := NewWriter(AddressLen, AddressLen)
	wp.PackAddress(addr)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), AddressLen)
	var unpacked Address
	rp.UnpackAddress(&unpacked)
	require.NoError(rp.Err())
	require.Equal(addr, unpacked)

	rp = NewReader(make([]byte, AddressLen), AddressLen)
	rp.UnpackAddress(&unpacked)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)

	type holder struct {
		Account Address `json:"account"`
	}
	h := holder{Account: CreateAddress(0, ids.GenerateTestID())}
	b, err := json.Marshal(h)
	require.NoError(err)
	require.Contains(string(b), h.Account.String())

	var out holder
	require.NoError(json.Unmarshal(b, &out))
	require.Equal(h, out)

	require.Error(json.Unmarshal([]byte(`{"account":"not-an-address"}`), &out))
}
