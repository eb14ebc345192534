// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/server"
	"github.com/dumbly-labs/taxvm/settlement"
)

func newTestServer(t *testing.T, m *testManager) string {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	registry := prometheus.NewRegistry()
	s := server.New("", logging.NoLog{}, listener, server.DefaultHTTPConfig(), nil, nil, time.Second, RequestIDWrapper{})
	require.NoError(NewService(logging.NoLog{}, m).Register(s, []string{"http://localhost:3000"}, registry))

	done := make(chan error, 1)
	go func() { done <- s.Dispatch() }()
	t.Cleanup(func() {
		require.NoError(s.Shutdown())
		require.NoError(<-done)
	})
	return fmt.Sprintf("http://%s", s.Addr())
}

func do(t *testing.T, method, url, body string) (int, []byte, http.Header) {
	require := require.New(t)

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	return resp.StatusCode, b, resp.Header
}

func TestTreasuryBalanceEndpoint(t *testing.T) {
	require := require.New(t)
	m := newTestManager(t)
	uri := newTestServer(t, m)

	m.expectBalance(42)
	code, body, header := do(t, http.MethodGet, uri+"/treasury-balance", "")
	require.Equal(http.StatusOK, code)
	require.JSONEq(`{"balance":42}`, string(body))
	_, err := uuid.Parse(header.Get(RequestIDHeader))
	require.NoError(err)

	code, _, _ = do(t, http.MethodPost, uri+"/treasury-balance", "")
	require.Equal(http.StatusMethodNotAllowed, code)
}

func TestDistributeManualEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		balance *uint64
		code    int
	}{
		{name: "negative", body: `{"burn":-1,"lp":0,"rewards":0}`, code: http.StatusBadRequest},
		{name: "fractional", body: `{"burn":1.5,"lp":0,"rewards":0}`, code: http.StatusBadRequest},
		{name: "missing field", body: `{"burn":1,"lp":0}`, code: http.StatusBadRequest},
		{name: "empty body", body: "", code: http.StatusBadRequest},
		{name: "not json", body: `burn=1`, code: http.StatusBadRequest},
		{name: "over request", body: `{"burn":50,"lp":50,"rewards":1}`, balance: ptr(uint64(100)), code: http.StatusBadRequest},
		{name: "noop", body: `{"burn":0,"lp":0,"rewards":0}`, balance: ptr(uint64(100)), code: http.StatusOK},
		{name: "unknown field ignored", body: `{"burn":0,"lp":0,"rewards":0,"tip":1}`, balance: ptr(uint64(100)), code: http.StatusOK},
		{name: "too large", body: `{"burn":"` + strings.Repeat("1", maxBodySize) + `"}`, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			uri := newTestServer(t, m)
			if tt.balance != nil {
				m.expectBalance(*tt.balance)
			}
			code, body, _ := do(t, http.MethodPost, uri+"/distribute-manual", tt.body)
			require.Equal(t, tt.code, code, string(body))
		})
	}
}

func TestDistributeManualSuccess(t *testing.T) {
	require := require.New(t)
	m := newTestManager(t)
	uri := newTestServer(t, m)

	plan := amount.Plan{Burn: 10, LP: 20, Rewards: 30}
	m.expectBalance(100)
	m.expectSettle(t, plan, "")
	code, body, _ := do(t, http.MethodPost, uri+"/distribute-manual", `{"burn":10,"lp":20,"rewards":30}`)
	require.Equal(http.StatusOK, code, string(body))

	var d Distribution
	require.NoError(json.Unmarshal(body, &d))
	require.Equal(StatusSuccess, d.Status)
	require.NotEmpty(d.GroupID)
	require.Equal(&plan, d.Distributed)
}

func TestDistributeAllEndpoint(t *testing.T) {
	require := require.New(t)
	m := newTestManager(t)
	uri := newTestServer(t, m)

	m.expectBalance(0)
	code, body, _ := do(t, http.MethodPost, uri+"/distribute-all", "")
	require.Equal(http.StatusOK, code)
	require.JSONEq(`{"status":"noop"}`, string(body))

	m.expectBalance(90)
	m.expectSettle(t, amount.Plan{Burn: 30, LP: 30, Rewards: 30}, "timestamp too late")
	code, body, _ = do(t, http.MethodPost, uri+"/distribute-all", "")
	require.Equal(http.StatusInternalServerError, code)
	require.Contains(string(body), settlement.ErrGroupRejected.Error())
}

func TestLedgerUnavailableEndpoint(t *testing.T) {
	require := require.New(t)
	m := newTestManager(t)
	uri := newTestServer(t, m)

	m.ledger.EXPECT().Balance(gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(0), settlement.ErrLedgerUnavailable)
	code, _, _ := do(t, http.MethodGet, uri+"/treasury-balance", "")
	require.Equal(http.StatusServiceUnavailable, code)
}

func TestMetricsEndpoint(t *testing.T) {
	require := require.New(t)
	m := newTestManager(t)
	uri := newTestServer(t, m)

	code, _, _ := do(t, http.MethodGet, uri+"/metrics", "")
	require.Equal(http.StatusOK, code)
}

func TestCORS(t *testing.T) {
	require := require.New(t)
	m := newTestManager(t)
	uri := newTestServer(t, m)

	req, err := http.NewRequest(http.MethodOptions, uri+"/distribute-all", bytes.NewReader(nil))
	require.NoError(err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal("http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Empty(resp.Header.Get("Access-Control-Allow-Origin"))
}

func ptr[T any](v T) *T { return &v }
