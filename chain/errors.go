// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	// Parsing errors
	ErrInvalidObject     = errors.New("invalid object")
	ErrUnknownAction     = errors.New("unknown action type")
	ErrUnknownArgs       = errors.New("unknown arguments type")
	ErrUnknownAuth       = errors.New("unknown auth type")
	ErrArgumentCount     = errors.New("wrong number of arguments")
	ErrInvalidOnComplete = errors.New("invalid on-complete action")
	ErrUnexpectedArgs    = errors.New("arguments not allowed for this call")
	ErrTrailingBytes     = errors.New("trailing bytes")
	ErrMisalignedTime    = errors.New("misaligned time")
	ErrEmptyGroup        = errors.New("group has no operations")
	ErrTooManyOperations = errors.New("too many operations in group")
	ErrGroupIDMismatch   = errors.New("operation is not bound to the group id")

	// Execution errors
	ErrTimestampTooLate  = errors.New("timestamp too late")
	ErrTimestampTooEarly = errors.New("timestamp too early")
	ErrInvalidChainID    = errors.New("invalid chain id")
	ErrSignerMismatch    = errors.New("signer does not match sender")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrInsufficientFee   = errors.New("fee below ledger minimum")
	ErrDuplicateGroup    = errors.New("duplicate group")
)
