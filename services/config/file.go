//go:build !tinygo

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"matkey-go/errcode"
	"matkey-go/types"
)

// LoadFile reads a YAML keypad config from path, then normalises and
// validates it.
func LoadFile(path string) (types.KeypadConfig, error) {
	var cfg types.KeypadConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := DecodeYAML(raw, &cfg); err != nil {
		return cfg, err
	}
	Normalize(&cfg)
	return cfg, Validate(cfg)
}

// DecodeYAML parses raw into cfg without applying defaults.
func DecodeYAML(raw []byte, cfg *types.KeypadConfig) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return errcode.Wrap(errcode.InvalidPayload, "config", err)
	}
	return nil
}
