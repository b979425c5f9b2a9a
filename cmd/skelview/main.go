// Package main is the entry point for the skelview model viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/skelview/internal/config"
	"github.com/Faultbox/skelview/internal/logger"
	"github.com/Faultbox/skelview/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.LogFile,
		Console: true,
	})
	defer logger.Sync()

	logger.Log.Info("=== skelview ===")
	logger.Sugar.Debugf("config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Log.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Log.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Log.Info("viewer closed normally")
}
