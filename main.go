package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mslgit/mslgit-go/cmd"
	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/logging"
	"github.com/mslgit/mslgit-go/internal/observability"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(level)

	if settings.Main.Log.Enabled {
		logger, closeLogger, err := logging.NewFileLogger(
			settings.Main.Log.Path,
			settings.Main.Name,
			level,
			logging.FileRotation{
				MaxSizeMB:  settings.Main.Log.MaxSizeMB,
				MaxBackups: settings.Main.Log.MaxBackups,
				MaxAgeDays: settings.Main.Log.MaxAgeDays,
			},
		)
		if err != nil {
			logging.Fatal("failed to open main log file", "path", settings.Main.Log.Path, "error", err)
		}
		defer closeLogger() //nolint:errcheck // log writer close on exit
		slog.SetDefault(logger)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		logging.Fatal("failed to initialize metrics", "error", err)
	}

	var wg sync.WaitGroup
	quitChan := make(chan struct{})
	if settings.Telemetry.Enabled {
		endpoint, err := observability.NewEndpoint(settings, metrics)
		if err != nil {
			logging.Fatal("failed to initialize telemetry endpoint", "error", err)
		}
		endpoint.Start(&wg, quitChan)
	}

	rootCmd := cmd.RootCommand(settings, metrics)
	err = rootCmd.Execute()

	close(quitChan)
	wg.Wait()

	if err != nil {
		os.Exit(1)
	}
}
