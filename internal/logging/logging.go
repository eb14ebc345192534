// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where logs go. Console output is always enabled; a
// rotating file is added when [Directory] is set.
type Config struct {
	Level     logging.Level `json:"level"`
	Directory string        `json:"directory"`
	// MaxSize is in megabytes.
	MaxSize  int  `json:"maxSize"`
	MaxFiles int  `json:"maxFiles"`
	MaxAge   int  `json:"maxAge"`
	Compress bool `json:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Level:    logging.Info,
		MaxSize:  8,
		MaxFiles: 7,
		MaxAge:   30,
		Compress: true,
	}
}

// New returns a logger named [name].
func New(name string, cfg Config) (logging.Logger, error) {
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(cfg.Level, os.Stdout, logging.Colors.ConsoleEncoder()),
	}
	if len(cfg.Directory) > 0 {
		if err := os.MkdirAll(cfg.Directory, 0o750); err != nil {
			return nil, err
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Directory, name+".log"),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxFiles,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, logging.NewWrappedCore(cfg.Level, file, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(name, cores...), nil
}
