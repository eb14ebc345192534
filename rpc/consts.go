// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"time"

	"github.com/dumbly-labs/taxvm/consts"
)

const (
	Name            = consts.Name
	JSONRPCEndpoint = "/ledgerapi"

	// Breaker settings for the remote client.
	breakerFailures = 5
	breakerTimeout  = 10 * time.Second

	// Bounds a shared suggestedParams request.
	paramsTimeout = 10 * time.Second
)
