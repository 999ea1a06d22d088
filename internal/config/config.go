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

// Package config loads the gateway's deployment descriptor: which
// transports to wire, which compiled-in policies to register, and the
// performance-printer cadence. Route table and policy catalog contents
// stay compiled-in; the descriptor only toggles which of them are active.
package config

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// TransportConfig names one adapter to wire at startup.
type TransportConfig struct {
	Type     string `yaml:"type"` // tcp, udp, stdio, bus, redis-bus, async-queue
	SourceID int    `yaml:"source_id"`
	SinkID   int    `yaml:"sink_id"`
	Addr     string `yaml:"addr"`
	// Channel is the Redis Pub/Sub channel name; only meaningful for
	// type redis-bus.
	Channel string `yaml:"channel"`
}

// Config is the full deployment descriptor.
type Config struct {
	Transports []TransportConfig `yaml:"transports"`
	// Policies names which compiled-in policies to register, using the
	// gateway.PolicyName* constants (e.g. "accept_vmc",
	// "reject_disable_geofence", "reject_mem_info"); empty means the
	// whole compiled-in default catalog.
	Policies     []string      `yaml:"policies"`
	PerfInterval time.Duration `yaml:"perf_interval"`
	ControlAddr  string        `yaml:"control_addr"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	AuditLogPath string        `yaml:"audit_log_path"`
}

// Default returns a minimal, single-process-friendly configuration:
// stdio transport only, default policy catalog, a 2s perf cadence.
func Default() Config {
	return Config{
		Transports:   []TransportConfig{{Type: "stdio", SourceID: 1, SinkID: 1}},
		PerfInterval: 2 * time.Second,
		ControlAddr:  ":8088",
		MetricsAddr:  ":9090",
	}
}

// Load reads and parses a YAML deployment descriptor from path.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config yaml")
	}
	return cfg, nil
}
