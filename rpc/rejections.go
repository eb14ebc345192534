// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"errors"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/mempool"
	"github.com/dumbly-labs/taxvm/storage"
	"github.com/dumbly-labs/taxvm/validator"
)

const (
	CodeAccepted uint16 = 0
	// CodeOther is used for rejections with no dedicated code.
	CodeOther uint16 = 1

	firstCode uint16 = 2
)

// ErrRejected is the cause of rejections that carry [CodeOther].
var ErrRejected = errors.New("rejected by ledger")

// rejections assigns a stable code to every known rejection cause. Append
// only: the code of an entry is its index plus [firstCode].
var rejections = []error{
	chain.ErrDuplicateGroup,
	chain.ErrTimestampTooLate,
	chain.ErrTimestampTooEarly,
	chain.ErrInvalidChainID,
	chain.ErrSignerMismatch,
	chain.ErrInvalidSignature,
	chain.ErrInsufficientFee,
	chain.ErrInvalidObject,
	chain.ErrEmptyGroup,
	chain.ErrTooManyOperations,
	chain.ErrGroupIDMismatch,
	validator.ErrGroupSize,
	validator.ErrNotAssetTransfer,
	validator.ErrTaxMismatch,
	validator.ErrTreasuryMismatch,
	validator.ErrUnknownContract,
	storage.ErrInvalidBalance,
	storage.ErrNotOptedIn,
	storage.ErrUnknownAsset,
	mempool.ErrMempoolFull,
	mempool.ErrPayerLimit,
}

func rejectionCode(err error) uint16 {
	for i, cause := range rejections {
		if errors.Is(err, cause) {
			return uint16(i) + firstCode
		}
	}
	return CodeOther
}

// rejection rebuilds a ledger error on the client. It prints the reason
// the ledger gave and matches the underlying cause with [errors.Is].
type rejection struct {
	cause  error
	reason string
}

func (r *rejection) Error() string { return r.reason }

func (r *rejection) Unwrap() error { return r.cause }

func rejectionError(code uint16, reason string) error {
	cause := ErrRejected
	if code >= firstCode && int(code-firstCode) < len(rejections) {
		cause = rejections[code-firstCode]
	}
	if reason == "" {
		reason = cause.Error()
	}
	return &rejection{cause: cause, reason: reason}
}
