// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Command logkafka sends the lines read from stdin to Kafka as log events.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/xmidt-org/logkafka"
)

type options struct {
	configFile  string
	level       string
	logger      string
	metricsAddr string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "logkafka",
		Short: "Send log lines from stdin to a Kafka topic",
		Long: `logkafka reads lines from stdin and appends one log event per line to
a Kafka topic. Events that cannot be delivered are written to stderr.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.level, "level", "INFO", "level of the events")
	cmd.Flags().StringVar(&opts.logger, "logger", "stdin", "logger name of the events")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log informational diagnostics")

	return cmd
}

func run(ctx context.Context, opts options, in io.Reader, errOut io.Writer) error {
	config, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}

	appender, err := config.appender()
	if err != nil {
		return err
	}

	diagLevel, kgoLevel := slog.LevelWarn, kgo.LogLevelWarn
	if opts.verbose {
		diagLevel, kgoLevel = slog.LevelInfo, kgo.LogLevelInfo
	}

	diag := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: diagLevel}))
	appender.Logger = logkafka.SlogLogger(diag, kgoLevel)
	appender.ClientLogger = logkafka.NewClientLogger(appender, kgoLevel)

	// Failed events are always written, whatever the diagnostics level.
	appender.AddFallback(logkafka.SlogSink{Logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))})

	if opts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics, err := logkafka.NewMetrics(reg)
		if err != nil {
			return err
		}
		appender.AddDeliveryEventListener(metrics.Listener)

		srv := &http.Server{
			Addr:              opts.metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				diag.Error("metrics server error", "error", err)
			}
		}()
		defer srv.Close()
	}

	appender.Start()
	if !appender.IsStarted() {
		return errors.New("appender did not start; see the diagnostics above")
	}
	defer appender.Stop(context.Background())

	return pump(ctx, in, appender, opts.level, opts.logger)
}

// pump appends one event per non-empty line of in until EOF or ctx is done.
func pump(ctx context.Context, in io.Reader, sink logkafka.Sink, level, logger string) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		sink.Append(&logkafka.Event{
			Time:       time.Now(),
			Level:      level,
			LoggerName: logger,
			Message:    line,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
