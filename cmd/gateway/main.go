// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command gateway runs the secure protocol gateway: it loads a
// deployment descriptor, wires the configured transports onto a
// pipeline, and drives the dispatch loop until terminated.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"secgw/internal/config"
	"secgw/internal/control"
	"secgw/internal/gateway"
	"secgw/internal/transport"
)

type options struct {
	ConfigPath string `short:"c" long:"config" description:"path to the YAML deployment descriptor" default:""`
	LogLevel   string `long:"log-level" description:"zerolog level" default:"info"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		return 1
	}

	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	runID := xid.New().String()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Str("run_id", runID).Logger()

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, lerr := config.Load(opts.ConfigPath)
		if lerr != nil {
			logger.Error().Err(lerr).Msg("failed to load config")
			return 1
		}
		cfg = loaded
	}

	p := gateway.NewPipeline(&logger)
	if gerr := p.Init(cfg.Policies...); gerr != nil {
		logger.Error().Err(gerr).Msg("pipeline init failed")
		return 1
	}

	sinkIDs := []int{gateway.SinkVMC, gateway.SinkLegacy, gateway.SinkEnclave}

	if cfg.AuditLogPath != "" {
		if _, ferr := transport.HookFileSink(p, gateway.SinkDiscard, cfg.AuditLogPath); ferr != nil {
			logger.Error().Err(ferr).Msg("failed to wire audit log sink")
			return 1
		}
	}

	for _, t := range cfg.Transports {
		if err := wireTransport(p, t, &logger); err != nil {
			logger.Error().Err(err).Str("type", t.Type).Msg("failed to wire transport")
			return 1
		}
	}

	p.Connect()

	printer := gateway.NewPrinter(p.Perf, cfg.PerfInterval, &logger, sinkIDs)
	printer.Start()
	defer printer.Stop()

	ctrl := control.NewServer(p, sinkIDs)
	go func() {
		if serr := ctrl.ListenAndServe(cfg.ControlAddr); serr != nil && serr != http.ErrServerClosed {
			logger.Error().Err(serr).Msg("control server exited")
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if merr := http.ListenAndServe(cfg.MetricsAddr, mux); merr != nil && merr != http.ErrServerClosed {
			logger.Error().Err(merr).Msg("metrics server exited")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info().Msg("gateway dispatch loop starting")
	for !p.Flags.Terminated() {
		select {
		case <-ctx.Done():
			p.Flags.Terminate()
			continue
		default:
		}
		if serr := p.Spin(); serr != nil {
			logger.Error().Err(serr).Msg("fatal dispatch error")
			p.Disconnect()
			return 1
		}
		time.Sleep(time.Millisecond)
	}

	p.Disconnect()
	logger.Info().Msg("gateway terminated")
	return 0
}

func wireTransport(p *gateway.Pipeline, t config.TransportConfig, logger *zerolog.Logger) *gateway.Error {
	switch t.Type {
	case "tcp":
		return transport.HookTCP(p, t.SourceID, t.SinkID, t.Addr, logger)
	case "udp":
		return transport.HookUDP(p, t.SourceID, t.SinkID, t.Addr, logger)
	case "stdio":
		return transport.HookStdio(p, t.SourceID, t.SinkID)
	case "bus":
		bus := transport.NewBus(256, 4096)
		return transport.HookBus(p, t.SourceID, bus)
	case "redis-bus":
		rb := transport.NewRedisBus(t.Addr, t.Channel, p.Codec, logger)
		return transport.HookRedisBus(p, t.SourceID, t.SinkID, rb)
	case "async-queue":
		q := transport.NewAsyncQueue(4096)
		if t.Addr != "" {
			f, ferr := os.Open(t.Addr)
			if ferr != nil {
				return gateway.Wrap(gateway.IOFault, ferr, "open async-queue reader")
			}
			q.AddReader(f)
		}
		return transport.HookAsyncQueue(p, t.SourceID, q)
	default:
		return gateway.New(gateway.InvalidParam, "unknown transport type "+t.Type)
	}
}
