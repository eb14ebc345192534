// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Wrapper interface {
	// WrapHandler wraps an http.Handler.
	WrapHandler(h http.Handler) http.Handler
}

type metricsWrapper struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsWrapper counts and times every request by status code and method.
func NewMetricsWrapper(namespace string, registerer prometheus.Registerer) (Wrapper, error) {
	m := &metricsWrapper{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests",
			Help:      "number of http requests served",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "time spent serving http requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.requests),
		registerer.Register(m.duration),
	)
	return m, errs.Err
}

func (m *metricsWrapper) WrapHandler(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(m.duration,
		promhttp.InstrumentHandlerCounter(m.requests, h),
	)
}
