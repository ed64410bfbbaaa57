// Package config resolves keypad configuration: embedded per-board JSON on
// MCUs and YAML files on hosts.
package config

import (
	"encoding/json"
	"time"

	"matkey-go/drivers/matkey"
	"matkey-go/errcode"
	"matkey-go/types"
)

// Defaults applied by Normalize.
const (
	DefaultName   = "keypad"
	DefaultPollMs = 20
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Lookup decodes, normalises and validates the embedded config for board.
func Lookup(board string) (types.KeypadConfig, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return types.KeypadConfig{}, &errcode.E{C: errcode.UnknownBoard, Op: "config", Msg: board}
	}
	cfg, err := Decode(raw)
	if err != nil {
		return cfg, err
	}
	Normalize(&cfg)
	return cfg, Validate(cfg)
}

// Decode parses a JSON keypad object. Unknown keys are ignored.
func Decode(raw []byte) (types.KeypadConfig, error) {
	var cfg types.KeypadConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return types.KeypadConfig{}, errcode.Wrap(errcode.InvalidPayload, "config", err)
	}
	return cfg, nil
}

// Normalize fills zero fields with defaults.
func Normalize(cfg *types.KeypadConfig) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.DebounceUs == 0 {
		cfg.DebounceUs = uint32(matkey.DefaultInterval / time.Microsecond)
	}
	if cfg.Stable == 0 {
		cfg.Stable = matkey.DefaultStable
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = matkey.DefaultAttempts
	}
	if cfg.PollMs == 0 {
		cfg.PollMs = DefaultPollMs
	}
}

// Validate checks the shape and that the port has enough lines.
func Validate(cfg types.KeypadConfig) error {
	if !matkey.ValidShape(cfg.Rows, cfg.Cols) {
		return &errcode.E{C: errcode.InvalidShape, Op: "config", Msg: matkey.Encode(cfg.Rows, cfg.Cols).String()}
	}
	// A single read would confirm any bounce; matkey would quietly use its
	// default instead.
	if cfg.Stable == 1 {
		return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: "stable must be at least 2"}
	}
	need := int(cfg.Rows) + int(cfg.Cols)
	switch cfg.Port.Kind {
	case "mmio", "pca9554", "tca9554", "mcp23008", "sim":
	case "modbus":
		if cfg.Port.Endpoint == "" {
			return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: "modbus endpoint required"}
		}
	case "pins":
		if len(cfg.Port.Pins) < need {
			return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: "not enough pins"}
		}
	case "periph":
		if len(cfg.Port.PinNames) < need {
			return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: "not enough pin names"}
		}
	default:
		return &errcode.E{C: errcode.UnknownPort, Op: "config", Msg: cfg.Port.Kind}
	}
	return nil
}

// DeviceConfig converts a normalised keypad config for matkey.Device.
func DeviceConfig(cfg types.KeypadConfig) matkey.Config {
	return matkey.Config{
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		Interval: time.Duration(cfg.DebounceUs) * time.Microsecond,
		Stable:   int(cfg.Stable),
		Attempts: int(cfg.Attempts),
	}
}

// PollInterval returns the service polling period.
func PollInterval(cfg types.KeypadConfig) time.Duration {
	return time.Duration(cfg.PollMs) * time.Millisecond
}
