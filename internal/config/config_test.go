package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.ListenAddr != fmt.Sprintf(":%d", DefaultPort) {
		t.Errorf("ListenAddr = %q, want default port %d", cfg.ListenAddr, DefaultPort)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, DefaultDataDir)
	}
	if cfg.Peers == nil {
		t.Errorf("Peers = nil, want an empty non-nil map")
	}
}

func TestLoadFillsBlanksFromPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	src := "node_id: 7\npeers:\n  2: 127.0.0.1:9002\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NodeID != 7 {
		t.Errorf("NodeID = %d, want 7", cfg.NodeID)
	}
	if cfg.ListenAddr != fmt.Sprintf(":%d", DefaultPort) {
		t.Errorf("ListenAddr = %q, want the default", cfg.ListenAddr)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want the default", cfg.DataDir)
	}
	addr, ok := cfg.PeerAddr(2)
	if !ok || addr != "127.0.0.1:9002" {
		t.Errorf("PeerAddr(2) = (%q, %v), want (127.0.0.1:9002, true)", addr, ok)
	}
	if _, ok := cfg.PeerAddr(99); ok {
		t.Errorf("PeerAddr(99) reported ok for a peer that was never configured")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestLoadExplicitAddrOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	src := "listen_addr: 0.0.0.0:9999\ndata_dir: /tmp/custom\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:9999" {
		t.Errorf("ListenAddr = %q, want the explicit value", cfg.ListenAddr)
	}
	if cfg.DataDir != "/tmp/custom" {
		t.Errorf("DataDir = %q, want the explicit value", cfg.DataDir)
	}
}
