package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadParsesTransportsAndInterval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	contents := `
transports:
  - type: tcp
    source_id: 2
    sink_id: 3
    addr: ":4000"
perf_interval: 5s
control_addr: ":9100"
policies:
  - accept_vmc
  - reject_mem_info
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Transports) != 1 || cfg.Transports[0].Type != "tcp" || cfg.Transports[0].Addr != ":4000" {
		t.Fatalf("got transports %+v", cfg.Transports)
	}
	if cfg.PerfInterval != 5*time.Second {
		t.Fatalf("got perf_interval %v want 5s", cfg.PerfInterval)
	}
	if cfg.ControlAddr != ":9100" {
		t.Fatalf("got control_addr %q want :9100", cfg.ControlAddr)
	}
	if len(cfg.Policies) != 2 || cfg.Policies[0] != "accept_vmc" || cfg.Policies[1] != "reject_mem_info" {
		t.Fatalf("got policies %+v", cfg.Policies)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/gateway.yaml"); err == nil {
		t.Fatalf("expected an error loading a missing file")
	}
}

func TestDefaultIsStdioOnly(t *testing.T) {
	cfg := Default()
	if len(cfg.Transports) != 1 || cfg.Transports[0].Type != "stdio" {
		t.Fatalf("default config must wire stdio only, got %+v", cfg.Transports)
	}
}
