/*
Copyright © 2025 Alex Bedo <alex98hun@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nerdmagic/mountmon/alert"
	"github.com/nerdmagic/mountmon/check"
	"github.com/nerdmagic/mountmon/config"
)

const defaultCfgFile = "/etc/mountmon/mountmon.yaml"

var (
	cfgFile    string
	clearAlert bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mountmon",
		Short:         "Daemon to monitor mountpoint health",
		Long:          "mountmon verifies that each configured mountpoint is mounted, not stale and writable, optionally remounts it, and reports a status code to the alerting backend every cycle.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Flags().StringVarP(&cfgFile, "cfgfile", "c", defaultCfgFile, "Config file path")
	rootCmd.Flags().BoolVarP(&clearAlert, "clear-alert", "z", false, "Send a clear (0) to the alert sink and exit")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config from %s: %v\n", cfgFile, err)
		os.Exit(int(check.ConfigMissing))
	}

	logger, logCloser, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return err
	}

	if clearAlert {
		sendClear(cfg, sink, logger)
		return nil
	}

	if cfg.Pidfile != "" {
		pid := strconv.Itoa(os.Getpid()) + "\n"
		if err := os.WriteFile(cfg.Pidfile, []byte(pid), 0o644); err != nil {
			logger.Warn().Err(err).Str("pidfile", cfg.Pidfile).Msg("Could not write pidfile")
		}
	}
	if cfg.Daemonize {
		// Detaching is left to the service manager; systemd units should
		// run mountmon in the foreground anyway.
		logger.Warn().Msg("daemonize is set but has no effect, running in the foreground")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		logger.Info().Str("signal", s.String()).Msg("Termination signal received, shutting down")
		cancel()
	}()

	runner := check.NewExecRunner(logger)
	checker := check.NewChecker(runner, logger)
	scheduler := check.NewScheduler(cfg, checker, sink, logger)

	logger.Info().Int("pid", os.Getpid()).Str("hostname", cfg.Hostname).Msg("Started mountmon")
	scheduler.Run(ctx)
	logger.Info().Msg("Stopped mountmon")
	return nil
}

// sendClear delivers the operator-invoked all-clear: exactly one
// (hostname, key, 0) event, bypassing the monitoring loop entirely. A send
// failure is logged but never fatal.
func sendClear(cfg *config.Config, sink alert.Sink, logger *zerolog.Logger) {
	logger.Info().Str("key", cfg.AlertTriggerKey).Msg("Clearing alert")
	if err := sink.Send(cfg.Hostname, cfg.AlertTriggerKey, 0); err != nil {
		logger.Error().Err(err).Msg("Failed to send clear event")
	}
}

func setupLogging(cfg *config.Config) (*zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Loglevel))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid loglevel %q: %w", cfg.Loglevel, err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logfile != "" {
		f, err := os.OpenFile(cfg.Logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open logfile %s: %w", cfg.Logfile, err)
		}
		logger := zerolog.New(f).With().Timestamp().Logger()
		return &logger, f, nil
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	return &logger, nil, nil
}

// buildSink returns the real trapper sink whenever events could actually be
// sent: when alerting is enabled, or for the explicit clear action, which
// works regardless of the alerting switch.
func buildSink(cfg *config.Config) (alert.Sink, error) {
	if !cfg.Alerting && !clearAlert {
		return alert.Nop{}, nil
	}
	return alert.NewZabbix(cfg.AlertAddress)
}
