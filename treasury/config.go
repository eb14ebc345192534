// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"fmt"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/viper"

	tlogging "github.com/dumbly-labs/taxvm/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. TAXVM_LEDGER_URI.
const EnvPrefix = "TAXVM"

type Config struct {
	LedgerURI     string `mapstructure:"ledger_uri"`
	ListenAddress string `mapstructure:"listen_address"`
	KeyDir        string `mapstructure:"key_dir"`
	Asset         uint64 `mapstructure:"asset"`

	// Bech32 overrides of the target roles in the key directory.
	BurnAddress    string `mapstructure:"burn_address"`
	LPAddress      string `mapstructure:"lp_address"`
	RewardsAddress string `mapstructure:"rewards_address"`

	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`

	LogLevel     string `mapstructure:"log_level"`
	LogDirectory string `mapstructure:"log_directory"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ledger_uri", "http://127.0.0.1:9650")
	v.SetDefault("listen_address", "127.0.0.1:8000")
	v.SetDefault("key_dir", ".taxvm/keys")
	v.SetDefault("asset", 1)
	v.SetDefault("burn_address", "")
	v.SetDefault("lp_address", "")
	v.SetDefault("rewards_address", "")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("confirm_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_directory", "")
}

// LoadConfig reads [path] (any format viper understands) and applies
// TAXVM_* environment overrides. An empty [path] uses defaults and the
// environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.LedgerURI == "" {
		return nil, fmt.Errorf("%w: ledger_uri is required", ErrInvalidConfig)
	}
	if cfg.ConfirmTimeout <= 0 {
		return nil, fmt.Errorf("%w: confirm_timeout %s", ErrInvalidConfig, cfg.ConfirmTimeout)
	}
	return &cfg, nil
}

func (c *Config) GetLogConfig() (tlogging.Config, error) {
	level, err := logging.ToLevel(c.LogLevel)
	if err != nil {
		return tlogging.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg := tlogging.DefaultConfig()
	cfg.Level = level
	cfg.Directory = c.LogDirectory
	return cfg, nil
}
