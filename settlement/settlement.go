// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package settlement signs groups, submits them as one unit and waits for
// the ledger to decide them.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/neilotoole/errgroup"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
)

const defaultPollInterval = 100 * time.Millisecond

// SignAll signs every operation of [group] with the key of its sender.
func SignAll(group *chain.Group, keys KeyResolver) (*chain.SignedGroup, error) {
	signers := map[codec.Address]chain.AuthFactory{}
	ops := make([]*chain.SignedOperation, len(group.Ops))
	for i, op := range group.Ops {
		factory, ok := signers[op.Sender]
		if !ok {
			f, err := keys.ResolveKey(op.Sender)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrMissingKey, op.Sender, err)
			}
			if f == nil {
				return nil, fmt.Errorf("%w: %s", ErrMissingKey, op.Sender)
			}
			signers[op.Sender] = f
			factory = f
		}
		msg, err := op.Bytes()
		if err != nil {
			return nil, err
		}
		auth, err := factory.Sign(msg)
		if err != nil {
			return nil, fmt.Errorf("could not sign operation %d: %w", i, err)
		}
		ops[i] = &chain.SignedOperation{Op: op, Auth: auth}
	}
	return chain.NewSignedGroup(ops)
}

// Wait calls [check] every [interval] until it asks to exit, fails or [ctx]
// is done.
func Wait(ctx context.Context, interval time.Duration, check func(ctx context.Context) (bool, error)) error {
	for ctx.Err() == nil {
		exit, err := check(ctx)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
		}
	}
	return ctx.Err()
}

// Result is the outcome of one group passed to [Submitter.SettleAll].
type Result struct {
	GroupID ids.ID
	Receipt *chain.Receipt
	Err     error
}

type Submitter struct {
	log     logging.Logger
	ledger  Ledger
	keys    KeyResolver
	metrics *metrics

	pollInterval time.Duration
}

func New(log logging.Logger, ledger Ledger, keys KeyResolver, registerer prometheus.Registerer) (*Submitter, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Submitter{
		log:          log,
		ledger:       ledger,
		keys:         keys,
		metrics:      m,
		pollInterval: defaultPollInterval,
	}, nil
}

// Submit hands [sg] to the ledger. It does not retry.
func (s *Submitter) Submit(ctx context.Context, sg *chain.SignedGroup) (ids.ID, error) {
	ref, err := s.ledger.Submit(ctx, sg)
	if err != nil {
		err = s.classify(err)
		s.log.Warn("group not submitted",
			zap.Stringer("groupID", sg.ID()),
			zap.Error(err),
		)
		return ids.Empty, err
	}
	s.metrics.submitted.Inc()
	return ref, nil
}

func (s *Submitter) classify(err error) error {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ErrLedgerUnavailable):
		return err
	case errors.Is(err, chain.ErrDuplicateGroup):
		s.metrics.duplicates.Inc()
		return fmt.Errorf("%w: %w", ErrDuplicateGroup, err)
	case errors.Is(err, chain.ErrTimestampTooLate):
		s.metrics.rejected.Inc()
		return fmt.Errorf("%w: %w", ErrStaleParameters, err)
	default:
		s.metrics.rejected.Inc()
		return fmt.Errorf("%w: %w", ErrGroupRejected, err)
	}
}

// AwaitConfirmation polls the ledger until [ref] is decided or [timeout]
// passes. A timeout does not retract the group: callers must check
// [Ledger.Status] before building a replacement.
func (s *Submitter) AwaitConfirmation(ctx context.Context, ref ids.ID, timeout time.Duration) (*chain.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var receipt *chain.Receipt
	err := Wait(waitCtx, s.pollInterval, func(ctx context.Context) (bool, error) {
		r, err := s.ledger.Status(ctx, ref)
		switch {
		case errors.Is(err, ErrLedgerUnavailable):
			return false, nil
		case err != nil:
			return false, err
		case !r.Status.Final():
			return false, nil
		default:
			receipt = r
			return true, nil
		}
	})
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			s.metrics.timeouts.Inc()
			return nil, fmt.Errorf("%w: %s after %s", ErrConfirmationTimeout, ref, timeout)
		}
		return nil, err
	}

	if receipt.Status == chain.StatusRejected {
		s.metrics.rejected.Inc()
		if strings.Contains(receipt.Reason, chain.ErrTimestampTooLate.Error()) {
			return receipt, fmt.Errorf("%w: %w: %s", ErrGroupRejected, ErrStaleParameters, receipt.Reason)
		}
		return receipt, fmt.Errorf("%w: %s", ErrGroupRejected, receipt.Reason)
	}
	s.metrics.confirmed.Inc()
	return receipt, nil
}

// Settle signs, submits and awaits [group].
func (s *Submitter) Settle(ctx context.Context, group *chain.Group, timeout time.Duration) (*chain.Receipt, error) {
	s.metrics.inflight.Inc()
	defer s.metrics.inflight.Dec()

	sg, err := SignAll(group, s.keys)
	if err != nil {
		return nil, err
	}
	ref, err := s.Submit(ctx, sg)
	if err != nil {
		return nil, err
	}
	s.log.Info("submitted group",
		zap.Stringer("groupID", ref),
		zap.Int("operations", len(group.Ops)),
	)
	receipt, err := s.AwaitConfirmation(ctx, ref, timeout)
	if err != nil {
		return receipt, err
	}
	s.log.Info("group confirmed",
		zap.Stringer("groupID", ref),
		zap.Uint64("height", receipt.Height),
	)
	return receipt, nil
}

// SettleAll settles independent [groups] concurrently, each with its own
// [timeout]. A failing group does not stop the others.
func (s *Submitter) SettleAll(ctx context.Context, groups []*chain.Group, timeout time.Duration) []*Result {
	results := make([]*Result, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			receipt, err := s.Settle(gctx, group, timeout)
			results[i] = &Result{GroupID: group.ID, Receipt: receipt, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
