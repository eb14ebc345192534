// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package heap

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestDeadlinesOrder(t *testing.T) {
	require := require.New(t)

	d := New[string](4)
	_, _, ok := d.Earliest()
	require.False(ok)
	require.Empty(d.PopExpired(100))

	require.True(d.Push(ids.GenerateTestID(), "c", 30))
	require.True(d.Push(ids.GenerateTestID(), "a", 10))
	require.True(d.Push(ids.GenerateTestID(), "b", 20))
	require.Equal(3, d.Len())

	item, deadline, ok := d.Earliest()
	require.True(ok)
	require.Equal("a", item)
	require.Equal(int64(10), deadline)

	// Deadlines equal to t are still valid.
	require.Equal([]string{"a"}, d.PopExpired(20))
	require.Equal([]string{"b", "c"}, d.PopExpired(31))
	require.Zero(d.Len())
}

func TestDeadlinesRemove(t *testing.T) {
	require := require.New(t)

	d := New[string](0)
	id := ids.GenerateTestID()
	require.True(d.Push(id, "a", 5))
	require.False(d.Push(id, "dup", 1))
	require.True(d.Push(ids.GenerateTestID(), "b", 9))

	item, ok := d.Remove(id)
	require.True(ok)
	require.Equal("a", item)
	require.False(d.Has(id))

	_, ok = d.Remove(id)
	require.False(ok)

	item, _, ok = d.Earliest()
	require.True(ok)
	require.Equal("b", item)
}
