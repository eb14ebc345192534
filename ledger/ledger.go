// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger is an in-process ledger that executes signed groups
// atomically. It only understands asset transfers, opt-ins and calls to the
// tax program.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dumbly-labs/taxvm/auth"
	"github.com/dumbly-labs/taxvm/builder"
	"github.com/dumbly-labs/taxvm/chain"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/config"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/emap"
	"github.com/dumbly-labs/taxvm/genesis"
	"github.com/dumbly-labs/taxvm/mempool"
	"github.com/dumbly-labs/taxvm/settlement"
	"github.com/dumbly-labs/taxvm/state"
	"github.com/dumbly-labs/taxvm/storage"
	"github.com/dumbly-labs/taxvm/validator"

	ttrace "github.com/dumbly-labs/taxvm/trace"
)

var _ settlement.Ledger = (*Ledger)(nil)

// Block summarizes the groups decided at one height.
type Block struct {
	Height    uint64           `json:"height"`
	Timestamp int64            `json:"timestamp"`
	Receipts  []*chain.Receipt `json:"receipts"`
}

type Ledger struct {
	log     logging.Logger
	tracer  trace.Tracer
	config  *config.Config
	genesis *genesis.Genesis
	metrics *metrics
	clock   mockable.Clock

	authRegistry *chain.AuthRegistry
	mempool      *mempool.Mempool[*chain.SignedGroup]
	seen         *emap.EMap[*chain.SignedGroup]

	// mu serializes execution against [db].
	mu        sync.RWMutex
	db        state.Database
	height    uint64
	timestamp int64

	stopOnce sync.Once
}

// New opens a ledger over [db], loading [g] if [db] is empty.
func New(
	log logging.Logger,
	cfg *config.Config,
	db state.Database,
	g *genesis.Genesis,
	registerer prometheus.Registerer,
) (*Ledger, error) {
	tracer, err := ttrace.New(cfg.GetTraceConfig())
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	registry, err := auth.NewRegistry()
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		log:          log,
		tracer:       tracer,
		config:       cfg,
		genesis:      g,
		metrics:      m,
		authRegistry: registry,
		mempool:      mempool.New[*chain.SignedGroup](tracer, cfg.MempoolSize, cfg.MempoolPayerSize),
		seen:         emap.NewEMap[*chain.SignedGroup](),
		db:           db,
	}
	if err := l.init(context.Background()); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) init(ctx context.Context) error {
	ro := state.NewReadOnly(l.db)
	if _, err := ro.GetValue(ctx, storage.HeightKey()); err == nil {
		if l.height, err = storage.GetHeight(ctx, ro); err != nil {
			return err
		}
		if l.timestamp, err = storage.GetTimestamp(ctx, ro); err != nil {
			return err
		}
		l.log.Info("loaded ledger",
			zap.Uint64("height", l.height),
			zap.Int64("timestamp", l.timestamp),
		)
		return nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	view := state.NewSimpleMutable(ro)
	if err := l.genesis.Load(ctx, l.tracer, view); err != nil {
		return fmt.Errorf("could not load genesis: %w", err)
	}
	l.timestamp = l.now()
	if err := storage.SetTip(ctx, view, 0, l.timestamp); err != nil {
		return err
	}
	batch := l.db.NewBatch()
	if err := view.Write(batch); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	l.log.Info("initialized ledger from genesis",
		zap.Stringer("chainID", l.genesis.ChainID),
		zap.Int("assets", len(l.genesis.Assets)),
		zap.Int("changes", view.Len()),
	)
	return nil
}

func (l *Ledger) now() int64 {
	return l.clock.Time().UnixMilli()
}

func (l *Ledger) Tracer() trace.Tracer { return l.tracer }

func (l *Ledger) Logger() logging.Logger { return l.log }

func (l *Ledger) AuthRegistry() *chain.AuthRegistry { return l.authRegistry }

func (l *Ledger) ChainID() ids.ID { return l.genesis.ChainID }

// Balance returns the confirmed balance of [addr]. Accounts that never opted
// in hold nothing.
func (l *Ledger) Balance(ctx context.Context, addr codec.Address, asset uint64) (uint64, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.Balance")
	defer span.End()

	l.mu.RLock()
	defer l.mu.RUnlock()
	bal, _, err := storage.GetBalance(ctx, state.NewReadOnly(l.db), addr, asset)
	return bal, err
}

// Contract returns the stored globals of [contract], or nil.
func (l *Ledger) Contract(ctx context.Context, contract uint64) (*validator.Config, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.Contract")
	defer span.End()

	l.mu.RLock()
	defer l.mu.RUnlock()
	return storage.GetContract(ctx, state.NewReadOnly(l.db), contract)
}

func (l *Ledger) SuggestedParams(ctx context.Context) (*builder.Params, error) {
	_, span := l.tracer.Start(ctx, "Ledger.SuggestedParams")
	defer span.End()

	return &builder.Params{
		ChainID:        l.genesis.ChainID,
		Fee:            l.genesis.Fee,
		Now:            l.now(),
		ValidityWindow: l.genesis.ValidityWindow,
	}, nil
}

// Height returns the height and time of the last accepted block.
func (l *Ledger) Height() (uint64, int64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height, l.timestamp
}

// Submit admits [sg] to the mempool. Groups that would fail against the
// current state are rejected here with the failure reason.
func (l *Ledger) Submit(ctx context.Context, sg *chain.SignedGroup) (ids.ID, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.Submit")
	defer span.End()

	id := sg.ID()

	l.mu.Lock()
	defer l.mu.Unlock()

	// A known group is a duplicate even once its expiry has passed.
	dup, err := l.isDuplicate(ctx, id)
	if err != nil {
		return ids.Empty, err
	}
	if dup {
		l.metrics.duplicates.Inc()
		return ids.Empty, fmt.Errorf("%w: %s", chain.ErrDuplicateGroup, id)
	}
	if err := l.verify(ctx, sg); err != nil {
		l.metrics.rejected.Inc()
		return ids.Empty, err
	}

	view := state.NewSimpleMutable(state.NewReadOnly(l.db))
	if _, err := l.execute(ctx, view, sg.Group(), l.now()); err != nil {
		l.metrics.rejected.Inc()
		l.log.Debug("rejected group at submission",
			zap.Stringer("groupID", id),
			zap.Error(err),
		)
		return ids.Empty, err
	}
	if err := l.mempool.Add(ctx, sg); err != nil {
		return ids.Empty, err
	}
	l.seen.Add([]*chain.SignedGroup{sg})
	l.metrics.submitted.Inc()
	l.observeMempool(ctx)
	l.log.Debug("admitted group",
		zap.Stringer("groupID", id),
		zap.Int("operations", len(sg.Ops)),
	)
	return id, nil
}

// verify runs the checks that need no state.
func (l *Ledger) verify(ctx context.Context, sg *chain.SignedGroup) error {
	if size := sg.Size(); size > consts.NetworkSizeLimit {
		return fmt.Errorf("%w: group of %d bytes", chain.ErrInvalidObject, size)
	}
	if err := sg.Group().Verify(); err != nil {
		return err
	}
	now := l.now()
	msgs := make([][]byte, len(sg.Ops))
	auths := make([]chain.Auth, len(sg.Ops))
	for i, sop := range sg.Ops {
		if err := sop.Op.Base.Execute(l.genesis.ChainID, l.genesis.ValidityWindow, now); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		if sop.Auth.Actor() != sop.Op.Sender {
			return fmt.Errorf("%w: operation %d", chain.ErrSignerMismatch, i)
		}
		msg, err := sop.Op.Bytes()
		if err != nil {
			return err
		}
		msgs[i] = msg
		auths[i] = sop.Auth
	}
	if err := auth.BatchVerify(ctx, msgs, auths); err != nil {
		return fmt.Errorf("%w: %w", chain.ErrInvalidSignature, err)
	}
	return nil
}

func (l *Ledger) observeMempool(ctx context.Context) {
	l.metrics.mempool.Set(float64(l.mempool.Len(ctx)))
	l.metrics.mempoolBytes.Set(float64(l.mempool.Size(ctx)))
}

// isDuplicate must be called with [l.mu] held.
func (l *Ledger) isDuplicate(ctx context.Context, id ids.ID) (bool, error) {
	if l.seen.Has(id) || l.mempool.Has(ctx, id) {
		return true, nil
	}
	r, err := storage.GetReceipt(l.db, id)
	if err != nil {
		return false, err
	}
	return r != nil, nil
}

// Status reports what the ledger knows about [id]. Unknown ids are not an
// error.
func (l *Ledger) Status(ctx context.Context, id ids.ID) (*chain.Receipt, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.Status")
	defer span.End()

	l.mu.RLock()
	defer l.mu.RUnlock()

	r, err := storage.GetReceipt(l.db, id)
	if err != nil {
		return nil, err
	}
	if r != nil {
		return r, nil
	}
	if l.mempool.Has(ctx, id) {
		return &chain.Receipt{GroupID: id, Status: chain.StatusPending}, nil
	}
	return &chain.Receipt{GroupID: id, Status: chain.StatusUnknown}, nil
}

// BuildBlock executes pending groups in arrival order and persists their
// receipts. It returns nil if there was nothing to decide.
func (l *Ledger) BuildBlock(ctx context.Context) (*Block, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.BuildBlock")
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now < l.timestamp {
		now = l.timestamp
	}
	blk := &Block{Height: l.height + 1, Timestamp: now}

	for _, sg := range l.mempool.SetMinTimestamp(ctx, now) {
		blk.Receipts = append(blk.Receipts, &chain.Receipt{
			GroupID:   sg.ID(),
			Status:    chain.StatusRejected,
			Height:    blk.Height,
			Timestamp: now,
			Reason:    chain.ErrTimestampTooLate.Error(),
		})
		l.metrics.expired.Inc()
	}

	view := state.NewSimpleMutable(state.NewReadOnly(l.db))
	size := 0
	for {
		sg, ok := l.mempool.PopNext(ctx)
		if !ok {
			break
		}
		if size+sg.Size() > consts.NetworkSizeLimit {
			l.mempool.Restore(ctx, sg)
			break
		}
		size += sg.Size()

		receipt := &chain.Receipt{
			GroupID:   sg.ID(),
			Height:    blk.Height,
			Timestamp: now,
		}
		groupView := state.NewSimpleMutable(view)
		contract, err := l.execute(ctx, groupView, sg.Group(), now)
		if err == nil {
			err = groupView.Commit(ctx)
		}
		if err != nil {
			receipt.Status = chain.StatusRejected
			receipt.Reason = err.Error()
			l.metrics.rejected.Inc()
		} else {
			receipt.Status = chain.StatusConfirmed
			receipt.Contract = contract
			l.metrics.accepted.Inc()
		}
		blk.Receipts = append(blk.Receipts, receipt)
	}
	if len(blk.Receipts) == 0 {
		return nil, nil
	}

	if err := storage.SetTip(ctx, view, blk.Height, blk.Timestamp); err != nil {
		return nil, err
	}
	batch := l.db.NewBatch()
	if err := view.Write(batch); err != nil {
		return nil, err
	}
	for _, r := range blk.Receipts {
		if err := storage.StoreReceipt(batch, r); err != nil {
			return nil, err
		}
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	l.height, l.timestamp = blk.Height, blk.Timestamp

	// Decided groups are now caught by their receipts.
	l.seen.SetMin(now)
	l.metrics.height.Set(float64(blk.Height))
	l.observeMempool(ctx)
	l.log.Info("accepted block",
		zap.Uint64("height", blk.Height),
		zap.Int64("timestamp", blk.Timestamp),
		zap.Int("groups", len(blk.Receipts)),
	)
	return blk, nil
}

// Run builds a block every [config.BlockInterval] until [ctx] is done.
func (l *Ledger) Run(ctx context.Context) {
	t := time.NewTicker(l.config.BlockInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			if _, err := l.BuildBlock(ctx); err != nil {
				l.log.Error("unable to build block", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close stops tracing and closes the database.
func (l *Ledger) Close() error {
	var err error
	l.stopOnce.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		err = errors.Join(l.tracer.Close(), l.db.Close())
	})
	return err
}
