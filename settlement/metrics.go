// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package settlement

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

const namespace = "settlement"

type metrics struct {
	submitted  prometheus.Counter
	confirmed  prometheus.Counter
	rejected   prometheus.Counter
	duplicates prometheus.Counter
	timeouts   prometheus.Counter

	inflight atomic.Int64
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submitted",
			Help:      "number of groups accepted for submission by the ledger",
		}),
		confirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmed",
			Help:      "number of groups confirmed",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected",
			Help:      "number of groups rejected at submission or execution",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates",
			Help:      "number of submissions of an already known group",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeouts",
			Help:      "number of confirmations that timed out",
		}),
	}
	inflight := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inflight",
		Help:      "number of settlements in progress",
	}, func() float64 {
		return float64(m.inflight.Load())
	})
	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.submitted),
		registerer.Register(m.confirmed),
		registerer.Register(m.rejected),
		registerer.Register(m.duplicates),
		registerer.Register(m.timeouts),
		registerer.Register(inflight),
	)
	return m, errs.Err
}
