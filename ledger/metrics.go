// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ledger"

type metrics struct {
	submitted  prometheus.Counter
	duplicates prometheus.Counter
	accepted   prometheus.Counter
	rejected   prometheus.Counter
	expired    prometheus.Counter
	height     prometheus.Gauge
	mempool    prometheus.Gauge

	mempoolBytes prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_submitted",
			Help:      "number of groups admitted to the mempool",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_duplicate",
			Help:      "number of resubmitted groups",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_accepted",
			Help:      "number of groups confirmed in a block",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_rejected",
			Help:      "number of groups rejected at submission or execution",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_expired",
			Help:      "number of groups dropped from the mempool after expiry",
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "height",
			Help:      "height of the last accepted block",
		}),
		mempool: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mempool_len",
			Help:      "number of groups waiting for a block",
		}),
		mempoolBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mempool_bytes",
			Help:      "encoded size of the groups waiting for a block",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.submitted),
		registerer.Register(m.duplicates),
		registerer.Register(m.accepted),
		registerer.Register(m.rejected),
		registerer.Register(m.expired),
		registerer.Register(m.height),
		registerer.Register(m.mempool),
		registerer.Register(m.mempoolBytes),
	)
	return m, errs.Err
}
