// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/consts"
)

func TestNewWriter(t *testing.T) {
	require := require.New(t)

	wr := NewWriter(2, 2)
	// Writing up to the limit succeeds.
	wr.PackByte(1)
	wr.PackByte(2)
	require.NoError(wr.Err())
	require.Equal([]byte{1, 2}, wr.Bytes())
	// Exceeding the limit errors.
	wr.PackByte(3)
	require.Error(wr.Err())
}

func TestPackerID(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	wp := NewWriter(consts.IDLen, consts.IDLen)
	wp.PackID(id)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.IDLen)
	var unpacked ids.ID
	rp.UnpackID(true, &unpacked)
	require.NoError(rp.Err())
	require.Equal(id, unpacked)
	require.True(rp.Empty())

	// An empty id is rejected when required.
	wp = NewWriter(consts.IDLen, consts.IDLen)
	wp.PackID(ids.Empty)
	rp = NewReader(wp.Bytes(), consts.IDLen)
	rp.UnpackID(true, &unpacked)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerUint64(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(consts.Uint64Len, consts.Uint64Len)
	wp.PackUint64(0)
	rp := NewReader(wp.Bytes(), consts.Uint64Len)
	require.Zero(rp.UnpackUint64(false))
	require.NoError(rp.Err())

	rp = NewReader(wp.Bytes(), consts.Uint64Len)
	rp.UnpackUint64(true)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerBytes(t *testing.T) {
	require := require.New(t)

	b := []byte("taxvm")
	wp := NewWriter(BytesLen(b), BytesLen(b))
	wp.PackBytes(b)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), BytesLen(b))
	var unpacked []byte
	rp.UnpackBytes(len(b), true, &unpacked)
	require.NoError(rp.Err())
	require.Equal(b, unpacked)

	// Limit smaller than the encoded length fails.
	rp = NewReader(wp.Bytes(), BytesLen(b))
	rp.UnpackBytes(2, true, &unpacked)
	require.Error(rp.Err())
}

func TestNewReaderOversized(t *testing.T) {
	require := require.New(t)

	rp := NewReader(make([]byte, 10), 4)
	require.ErrorIs(rp.Err(), ErrInvalidSize)
}
