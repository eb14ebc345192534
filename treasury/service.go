// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dumbly-labs/taxvm/amount"
	"github.com/dumbly-labs/taxvm/server"
	"github.com/dumbly-labs/taxvm/settlement"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 12

// Distributor is what the HTTP surface needs from [Manager].
type Distributor interface {
	Balance(ctx context.Context) (uint64, error)
	TargetBalances(ctx context.Context) (map[string]uint64, error)
	DistributeManual(ctx context.Context, plan amount.Plan) (*Distribution, error)
	DistributeAll(ctx context.Context) (*Distribution, error)
}

type Service struct {
	log logging.Logger
	d   Distributor
}

func NewService(log logging.Logger, d Distributor) *Service {
	return &Service{log: log, d: d}
}

// Register mounts every endpoint on [p]. Browsers may call the API from
// [allowedOrigins]; an empty list allows any origin. [gatherer] backs
// /metrics.
func (s *Service) Register(p server.PathAdder, allowedOrigins []string, gatherer prometheus.Gatherer) error {
	config := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
	}
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	if err := config.Validate(); err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery(), cors.New(config))
	r.GET("/treasury-balance", s.balance)
	r.GET("/targets-balance", s.targets)
	r.POST("/distribute-manual", s.distributeManual)
	r.POST("/distribute-all", s.distributeAll)

	for _, route := range r.Routes() {
		if err := p.AddRoute(r, "", route.Path, route.Method, http.MethodOptions); err != nil {
			return err
		}
	}
	return p.AddRoute(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), "", "/metrics", http.MethodGet)
}

type BalanceReply struct {
	Balance uint64 `json:"balance"`
}

func (s *Service) balance(c *gin.Context) {
	bal, err := s.d.Balance(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.reply(c, &BalanceReply{Balance: bal})
}

func (s *Service) targets(c *gin.Context) {
	balances, err := s.d.TargetBalances(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.reply(c, balances)
}

// ManualRequest holds raw numbers so negative and fractional values can be
// told apart from missing ones.
type ManualRequest struct {
	Burn    json.Number `json:"burn"`
	LP      json.Number `json:"lp"`
	Rewards json.Number `json:"rewards"`
}

func (m *ManualRequest) Plan() (amount.Plan, error) {
	var (
		p   amount.Plan
		err error
	)
	if p.Burn, err = amount.ParseJSON(m.Burn); err != nil {
		return p, err
	}
	if p.LP, err = amount.ParseJSON(m.LP); err != nil {
		return p, err
	}
	if p.Rewards, err = amount.ParseJSON(m.Rewards); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Service) distributeManual(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	var req ManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.Join(amount.ErrInvalidAmount, err))
		return
	}
	plan, err := req.Plan()
	if err != nil {
		s.fail(c, err)
		return
	}
	d, err := s.d.DistributeManual(c.Request.Context(), plan)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.reply(c, d)
}

func (s *Service) distributeAll(c *gin.Context) {
	d, err := s.d.DistributeAll(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.reply(c, d)
}

type ErrorReply struct {
	Detail string `json:"detail"`
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrOverRequest), errors.Is(err, amount.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, settlement.ErrLedgerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Service) fail(c *gin.Context, err error) {
	code := statusCode(err)
	s.log.Warn("request failed",
		zap.String("path", c.FullPath()),
		zap.String("requestID", RequestID(c.Request.Context())),
		zap.Int("code", code),
		zap.Error(err),
	)
	c.JSON(code, &ErrorReply{Detail: err.Error()})
}

func (s *Service) reply(c *gin.Context, v any) {
	s.log.Debug("request served",
		zap.String("path", c.FullPath()),
		zap.String("requestID", RequestID(c.Request.Context())),
	)
	c.JSON(http.StatusOK, v)
}
