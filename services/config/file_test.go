//go:build !tinygo

package config

import (
	"os"
	"path/filepath"
	"testing"

	"matkey-go/errcode"
)

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pad.yaml")
	body := `
name: remote
rows: 4
cols: 4
poll_ms: 50
port:
  kind: modbus
  endpoint: 127.0.0.1:1502
  unit_id: 3
  base: 100
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Name != "remote" || cfg.PollMs != 50 || cfg.Stable != 4 {
		t.Fatalf("cfg %+v", cfg)
	}
	if cfg.Port.Kind != "modbus" || cfg.Port.UnitID != 3 || cfg.Port.Base != 100 {
		t.Fatalf("port %+v", cfg.Port)
	}

	if err := os.WriteFile(path, []byte("rows: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); errcode.Of(err) != errcode.InvalidPayload {
		t.Fatalf("bad yaml err=%v", err)
	}
}
