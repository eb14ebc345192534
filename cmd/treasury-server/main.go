// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "treasury-server" serves the treasury balance and distribution API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dumbly-labs/taxvm/codec"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/keys"
	"github.com/dumbly-labs/taxvm/rpc"
	"github.com/dumbly-labs/taxvm/server"
	"github.com/dumbly-labs/taxvm/treasury"
	"github.com/dumbly-labs/taxvm/utils"

	tlogging "github.com/dumbly-labs/taxvm/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	switch len(os.Args) {
	case 1:
	case 2:
		configPath = os.Args[1]
	default:
		utils.Outf("{{red}}usage:{{/}} treasury-server [config file]\n")
		os.Exit(1)
	}
	if err := run(configPath); err != nil {
		color.Red("treasury-server failed: %v", err)
		os.Exit(1)
	}
}

// targets resolves the distribution targets, preferring configured
// addresses over the key directory.
func targets(cfg *treasury.Config, k *keys.Keychain) (treasury.Targets, error) {
	resolve := func(role, override string) (codec.Address, error) {
		if len(override) > 0 {
			return codec.ParseAddressBech32(consts.HRP, override)
		}
		return k.Role(role)
	}
	var (
		t   treasury.Targets
		err error
	)
	if t.Burn, err = resolve(keys.RoleBurn, cfg.BurnAddress); err != nil {
		return t, err
	}
	if t.LP, err = resolve(keys.RoleLP, cfg.LPAddress); err != nil {
		return t, err
	}
	if t.Rewards, err = resolve(keys.RoleRewards, cfg.RewardsAddress); err != nil {
		return t, err
	}
	return t, nil
}

func run(configPath string) error {
	gin.SetMode(gin.ReleaseMode)
	cfg, err := treasury.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logCfg, err := cfg.GetLogConfig()
	if err != nil {
		return err
	}
	log, err := tlogging.New("treasury", logCfg)
	if err != nil {
		return err
	}

	k, err := keys.Load(cfg.KeyDir)
	if err != nil {
		return err
	}
	signer, err := k.Signer(keys.RoleTreasury)
	if err != nil {
		return fmt.Errorf("treasury key missing from %s: %w", cfg.KeyDir, err)
	}
	t, err := targets(cfg, k)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli := rpc.NewJSONRPCClient(cfg.LedgerURI)
	network, err := cli.Network(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach ledger: %w", err)
	}

	registry := prometheus.NewRegistry()
	m, err := treasury.New(log, cli, k, signer.Address(), t, cfg.Asset, cfg.ConfirmTimeout, registry)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return err
	}
	metrics, err := server.NewMetricsWrapper("treasury", registry)
	if err != nil {
		return err
	}
	s := server.New(
		"",
		log,
		listener,
		server.DefaultHTTPConfig(),
		nil,
		nil,
		shutdownTimeout,
		metrics,
		treasury.RequestIDWrapper{},
	)
	if err := treasury.NewService(log, m).Register(s, cfg.AllowedOrigins, registry); err != nil {
		return err
	}

	errs := make(chan error, 1)
	go func() { errs <- s.Dispatch() }()
	log.Info("treasury server started",
		zap.Stringer("chainID", network.ChainID),
		zap.Stringer("treasury", signer.Address()),
		zap.Uint64("asset", cfg.Asset),
		zap.Stringer("address", s.Addr()),
	)
	select {
	case <-ctx.Done():
	case err = <-errs:
	}
	return errors.Join(err, s.Shutdown())
}
