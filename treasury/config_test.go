// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package treasury

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := LoadConfig("")
	require.NoError(err)
	require.Equal("http://127.0.0.1:9650", cfg.LedgerURI)
	require.Equal([]string{"http://localhost:3000"}, cfg.AllowedOrigins)
	require.Equal(30*time.Second, cfg.ConfirmTimeout)
	require.Equal(uint64(1), cfg.Asset)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "treasury.json")
	require.NoError(os.WriteFile(path, []byte(`{
		"ledger_uri": "http://ledger:9650",
		"asset": 7,
		"confirm_timeout": "5s",
		"log_level": "debug"
	}`), 0o600))
	t.Setenv("TAXVM_ASSET", "9")
	t.Setenv("TAXVM_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig(path)
	require.NoError(err)
	require.Equal("http://ledger:9650", cfg.LedgerURI)
	require.Equal(uint64(9), cfg.Asset)
	require.Equal(5*time.Second, cfg.ConfirmTimeout)
	require.Equal([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)

	logCfg, err := cfg.GetLogConfig()
	require.NoError(err)
	require.Equal(logging.Debug, logCfg.Level)
}

func TestLoadConfigInvalid(t *testing.T) {
	require := require.New(t)

	t.Setenv("TAXVM_CONFIRM_TIMEOUT", "0s")
	_, err := LoadConfig("")
	require.ErrorIs(err, ErrInvalidConfig)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(err)
}
