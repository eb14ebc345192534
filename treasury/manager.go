// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package treasury distributes accumulated tax revenue and serves the
// treasury HTTP API.
package treasury

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/builder"
	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/keys"
	"github.com/dumbly-labs/taxvm/settlement"
)

const (
	StatusSuccess = "success"
	StatusNoop    = "noop"
)

// Targets are the destinations of a distribution.
type Targets struct {
	Burn    codec.Address
	LP      codec.Address
	Rewards codec.Address
}

// Distribution is the outcome of a distribution request.
type Distribution struct {
	Status      string       `json:"status"`
	GroupID     string       `json:"txid,omitempty"`
	Height      uint64       `json:"height,omitempty"`
	Distributed *amount.Plan `json:"distributed,omitempty"`
}

type Manager struct {
	log       logging.Logger
	ledger    settlement.Ledger
	submitter *settlement.Submitter

	treasury codec.Address
	targets  Targets
	asset    uint64
	timeout  time.Duration

	// l serializes distributions so two requests never spend the same
	// balance.
	l sync.Mutex
}

func New(
	log logging.Logger,
	ledger settlement.Ledger,
	keys settlement.KeyResolver,
	treasury codec.Address,
	targets Targets,
	asset uint64,
	timeout time.Duration,
	registerer prometheus.Registerer,
) (*Manager, error) {
	submitter, err := settlement.New(log, ledger, keys, registerer)
	if err != nil {
		return nil, err
	}
	return &Manager{
		log:       log,
		ledger:    ledger,
		submitter: submitter,
		treasury:  treasury,
		targets:   targets,
		asset:     asset,
		timeout:   timeout,
	}, nil
}

// Balance returns the treasury balance of the taxed asset.
func (m *Manager) Balance(ctx context.Context) (uint64, error) {
	return m.ledger.Balance(ctx, m.treasury, m.asset)
}

// TargetBalances returns the balance of every distribution target, keyed by
// role.
func (m *Manager) TargetBalances(ctx context.Context) (map[string]uint64, error) {
	balances := make(map[string]uint64, 3)
	for role, addr := range map[string]codec.Address{
		keys.RoleBurn:    m.targets.Burn,
		keys.RoleLP:      m.targets.LP,
		keys.RoleRewards: m.targets.Rewards,
	} {
		bal, err := m.ledger.Balance(ctx, addr, m.asset)
		if err != nil {
			return nil, err
		}
		balances[role] = bal
	}
	return balances, nil
}

// DistributeManual moves the amounts of [plan] out of the treasury. A plan
// larger than the balance fails with [ErrOverRequest] before anything is
// submitted.
func (m *Manager) DistributeManual(ctx context.Context, plan amount.Plan) (*Distribution, error) {
	requested, err := plan.Total()
	if err != nil {
		return nil, err
	}

	m.l.Lock()
	defer m.l.Unlock()

	balance, err := m.Balance(ctx)
	if err != nil {
		return nil, err
	}
	if requested > balance {
		return nil, fmt.Errorf("%w: requested (%d) > balance (%d)", ErrOverRequest, requested, balance)
	}
	return m.distribute(ctx, plan, balance)
}

// DistributeAll splits the whole treasury balance three ways. An empty
// treasury is a noop.
func (m *Manager) DistributeAll(ctx context.Context) (*Distribution, error) {
	m.l.Lock()
	defer m.l.Unlock()

	balance, err := m.Balance(ctx)
	if err != nil {
		return nil, err
	}
	return m.distribute(ctx, amount.Split(balance), balance)
}

// distribute must be called with [m.l] held.
func (m *Manager) distribute(ctx context.Context, plan amount.Plan, balance uint64) (*Distribution, error) {
	if plan.IsZero() {
		m.log.Info("nothing to distribute", zap.Uint64("balance", balance))
		return &Distribution{Status: StatusNoop}, nil
	}
	params, err := m.ledger.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}
	group, err := builder.Distribution(params, &builder.DistributionInput{
		Treasury:  m.treasury,
		Asset:     m.asset,
		Burn:      m.targets.Burn,
		LP:        m.targets.LP,
		Rewards:   m.targets.Rewards,
		Plan:      plan,
		Available: balance,
	})
	if err != nil {
		return nil, err
	}
	receipt, err := m.submitter.Settle(ctx, group, m.timeout)
	if err != nil {
		return nil, err
	}
	m.log.Info("distributed treasury",
		zap.Stringer("groupID", receipt.GroupID),
		zap.Uint64("burn", plan.Burn),
		zap.Uint64("lp", plan.LP),
		zap.Uint64("rewards", plan.Rewards),
	)
	return &Distribution{
		Status:      StatusSuccess,
		GroupID:     receipt.GroupID.String(),
		Height:      receipt.Height,
		Distributed: &plan,
	}, nil
}
