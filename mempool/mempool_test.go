// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/dumbly-labs/taxvm/trace"
)

type testItem struct {
	id     ids.ID
	payer  string
	expiry int64
}

func (i *testItem) ID() ids.ID    { return i.id }
func (i *testItem) Expiry() int64 { return i.expiry }
func (i *testItem) Payer() string { return i.payer }
func (*testItem) Size() int       { return 2 }

func newItem(payer string, expiry int64) *testItem {
	return &testItem{id: ids.GenerateTestID(), payer: payer, expiry: expiry}
}

func TestMempoolFIFO(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m := New[*testItem](trace.Noop(), 8, 8)

	items := []*testItem{newItem("a", 300), newItem("b", 100), newItem("a", 200)}
	for _, item := range items {
		require.NoError(m.Add(ctx, item))
	}
	require.Equal(3, m.Len(ctx))
	require.Equal(6, m.Size(ctx))

	for _, want := range items {
		got, ok := m.PopNext(ctx)
		require.True(ok)
		require.Equal(want, got)
	}
	_, ok := m.PopNext(ctx)
	require.False(ok)
	require.Zero(m.Size(ctx))
}

func TestMempoolLimits(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m := New[*testItem](trace.Noop(), 3, 2)

	first := newItem("a", 100)
	require.NoError(m.Add(ctx, first))
	require.ErrorIs(m.Add(ctx, first), ErrDuplicateItem)
	require.NoError(m.Add(ctx, newItem("a", 100)))
	require.ErrorIs(m.Add(ctx, newItem("a", 100)), ErrPayerLimit)
	require.NoError(m.Add(ctx, newItem("b", 100)))
	require.ErrorIs(m.Add(ctx, newItem("c", 100)), ErrMempoolFull)

	popped, ok := m.PopNext(ctx)
	require.True(ok)
	require.Equal(first, popped)
	require.False(m.Has(ctx, first.ID()))
	require.NoError(m.Add(ctx, newItem("a", 100)))
}

func TestMempoolRestore(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m := New[*testItem](trace.Noop(), 4, 4)

	a, b := newItem("a", 100), newItem("b", 100)
	require.NoError(m.Add(ctx, a))
	require.NoError(m.Add(ctx, b))

	popped, ok := m.PopNext(ctx)
	require.True(ok)
	require.Equal(a, popped)
	m.Restore(ctx, popped)

	require.Equal(2, m.Len(ctx))
	require.Equal(4, m.Size(ctx))
	next, ok := m.PopNext(ctx)
	require.True(ok)
	require.Equal(a, next)
}

func TestMempoolSetMinTimestamp(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m := New[*testItem](trace.Noop(), 8, 8)

	late := newItem("a", 500)
	early := newItem("a", 100)
	middle := newItem("b", 300)
	for _, item := range []*testItem{late, early, middle} {
		require.NoError(m.Add(ctx, item))
	}

	removed := m.SetMinTimestamp(ctx, 301)
	require.ElementsMatch([]*testItem{early, middle}, removed)
	require.Equal(1, m.Len(ctx))
	require.True(m.Has(ctx, late.ID()))

	next, ok := m.PopNext(ctx)
	require.True(ok)
	require.Equal(late, next)
	require.Empty(m.SetMinTimestamp(ctx, 1_000))
}
