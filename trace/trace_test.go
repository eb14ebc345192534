// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(&Config{AppName: "taxvm"})
	require.NoError(err)
	_, span := tracer.Start(context.Background(), "Ledger.Submit")
	require.False(span.SpanContext().IsValid())
	span.End()
	require.NoError(tracer.Close())
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(&Config{
		Enabled:         true,
		TraceSampleRate: 1,
		AppName:         "taxvm",
		Agent:           "test",
	})
	require.NoError(err)
	_, span := tracer.Start(context.Background(), "Ledger.Submit")
	require.True(span.SpanContext().IsValid())
	span.End()
	// No collector is listening, so only shutdown is exercised.
	_ = tracer.Close()
}
