package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gymctl/internal/commands"
	"gymctl/internal/config"
	"gymctl/internal/logging"

	"go.uber.org/zap"
)

func main() {
	// Create config directory if it doesn't exist
	configDir, err := config.GetGlobalConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config directory: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		os.Exit(1)
	}

	// Load config; commands report the error again if they need it
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}

	level, logFile := "info", filepath.Join(configDir, config.LogFileName)
	if cfg != nil {
		level, logFile = cfg.Log.Level, cfg.LogFile(configDir)
	}

	logger, err := logging.New(level, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		logger = zap.NewNop()
	}

	err = commands.Execute(cfg, logger)
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
