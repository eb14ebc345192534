// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/dumbly-labs/taxvm/consts"
	"github.com/dumbly-labs/taxvm/pebble"
	"github.com/dumbly-labs/taxvm/trace"

	tlogging "github.com/dumbly-labs/taxvm/internal/logging"
)

const (
	defaultDataDir          = ".taxvm"
	defaultBlockInterval    = time.Second
	defaultMempoolSize      = 4_096
	defaultMempoolPayerSize = 32
	defaultHTTPAddress      = "127.0.0.1:9650"
	defaultTraceSampleRate  = 0.1
	defaultConfirmTimeout   = 30 * time.Second
)

// Config is the node configuration, read from a JSON file. Unset fields keep
// their defaults.
type Config struct {
	// Logging
	LogLevel     logging.Level `json:"logLevel"`
	LogDirectory string        `json:"logDirectory"`

	// Storage
	DataDir   string `json:"dataDir"`
	InMemory  bool   `json:"inMemory"`
	CacheSize int64  `json:"cacheSize"`
	SyncWrite bool   `json:"syncWrite"`

	// Builder
	BlockInterval time.Duration `json:"blockInterval"`

	// Mempool
	MempoolSize      int `json:"mempoolSize"`
	MempoolPayerSize int `json:"mempoolPayerSize"`

	// API
	HTTPAddress    string        `json:"httpAddress"`
	AllowedOrigins []string      `json:"allowedOrigins"`
	ConfirmTimeout time.Duration `json:"confirmTimeout"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if c.BlockInterval <= 0 {
		return nil, fmt.Errorf("%w: block interval %s", ErrInvalidConfig, c.BlockInterval)
	}
	if c.MempoolSize <= 0 || c.MempoolPayerSize <= 0 {
		return nil, fmt.Errorf("%w: mempool size=%d payer size=%d", ErrInvalidConfig, c.MempoolSize, c.MempoolPayerSize)
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.DataDir = defaultDataDir
	c.CacheSize = pebble.NewDefaultConfig().CacheSize
	c.SyncWrite = true
	c.BlockInterval = defaultBlockInterval
	c.MempoolSize = defaultMempoolSize
	c.MempoolPayerSize = defaultMempoolPayerSize
	c.HTTPAddress = defaultHTTPAddress
	c.AllowedOrigins = []string{"*"}
	c.ConfirmTimeout = defaultConfirmTimeout
	c.TraceSampleRate = defaultTraceSampleRate
}

func (c *Config) GetLogConfig() tlogging.Config {
	cfg := tlogging.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Directory = c.LogDirectory
	return cfg
}

func (c *Config) GetPebbleConfig() pebble.Config {
	cfg := pebble.NewDefaultConfig()
	cfg.CacheSize = c.CacheSize
	cfg.Sync = c.SyncWrite
	return cfg
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         consts.Name,
		Agent:           c.HTTPAddress,
		Version:         consts.Version,
	}
}
