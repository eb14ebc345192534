// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "taxvm" runs a ledger node and serves its JSON-RPC API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dumbly-labs/taxvm/config"
	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/genesis"
	"github.com/dumbly-labs/taxvm/ledger"
	"github.com/dumbly-labs/taxvm/rpc"
	"github.com/dumbly-labs/taxvm/server"
	"github.com/dumbly-labs/taxvm/state"
	"github.com/dumbly-labs/taxvm/storage"
	"github.com/dumbly-labs/taxvm/utils"

	tlogging "github.com/dumbly-labs/taxvm/internal/logging"
)

const shutdownTimeout = 10 * time.Second

var (
	configFile  string
	genesisFile string

	rootCmd = &cobra.Command{
		Use:     "taxvm",
		Short:   "TaxVM ledger node",
		Version: consts.Version,
		RunE:    run,
	}

	genesisCmd = &cobra.Command{
		Use:   "genesis [output]",
		Short: "Write a default genesis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := genesis.Default().Bytes()
			if err != nil {
				return err
			}
			if err := utils.SaveBytes(args[0], b); err != nil {
				return err
			}
			utils.Outf("{{green}}created genesis:{{/}} %s\n", args[0])
			return nil
		},
	}
)

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "node config file (JSON)")
	rootCmd.Flags().StringVar(&genesisFile, "genesis", "genesis.json", "genesis file, only read on first start")
	rootCmd.AddCommand(genesisCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("taxvm failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func loadConfig() (*config.Config, error) {
	if len(configFile) == 0 {
		return config.New(nil)
	}
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open config file (%s): %w", configFile, err)
	}
	return config.New(b)
}

func openDatabase(cfg *config.Config, registerer prometheus.Registerer) (state.Database, error) {
	if cfg.InMemory {
		return memdb.New(), nil
	}
	return storage.New(cfg.GetPebbleConfig(), cfg.DataDir, registerer)
}

func run(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := tlogging.New(consts.Name, cfg.GetLogConfig())
	if err != nil {
		return err
	}
	g, err := genesis.FromFile(genesisFile)
	if err != nil {
		return fmt.Errorf("cannot read genesis (%s): %w", genesisFile, err)
	}

	registry := prometheus.NewRegistry()
	db, err := openDatabase(cfg, registry)
	if err != nil {
		return err
	}
	l, err := ledger.New(log, cfg, db, g, registry)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := l.Close(); err != nil {
			log.Error("failed to close ledger", zap.Error(err))
		}
	}()

	s, err := newServer(log, cfg, l, registry)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go l.Run(ctx)
	errs := make(chan error, 1)
	go func() { errs <- s.Dispatch() }()

	log.Info("node started",
		zap.String("version", consts.Version),
		zap.Stringer("chainID", l.ChainID()),
		zap.Stringer("address", s.Addr()),
	)
	select {
	case <-ctx.Done():
	case err = <-errs:
		cancel()
	}
	log.Info("shutting down")
	return errors.Join(err, s.Shutdown())
}

func newServer(
	log logging.Logger,
	cfg *config.Config,
	l *ledger.Ledger,
	registry *prometheus.Registry,
) (server.Server, error) {
	listener, err := net.Listen("tcp", cfg.HTTPAddress)
	if err != nil {
		return nil, err
	}
	metrics, err := server.NewMetricsWrapper(consts.Name, registry)
	if err != nil {
		return nil, err
	}
	s := server.New(
		"",
		log,
		listener,
		server.DefaultHTTPConfig(),
		cfg.AllowedOrigins,
		nil,
		shutdownTimeout,
		metrics,
	)
	handler, err := rpc.NewHandler(l)
	if err != nil {
		return nil, err
	}
	if err := s.AddRoute(handler, "", rpc.JSONRPCEndpoint, http.MethodPost); err != nil {
		return nil, err
	}
	if err := s.AddRoute(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), "", "/metrics", http.MethodGet); err != nil {
		return nil, err
	}
	return s, nil
}
