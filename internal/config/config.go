// Package config loads hookrun pipeline files.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override pipeline file keys,
// e.g. HOOKRUN_LOG_LEVEL=debug.
const EnvPrefix = "HOOKRUN_"

const (
	ModeMiddleware = "middleware"
	ModeSequential = "sequential"
)

// Common config errors.
var (
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
)

// Pipeline describes a scripted pipeline: a target script and the hook
// scripts around it.
type Pipeline struct {
	Mode       string        `koanf:"mode"`
	LogLevel   string        `koanf:"log_level"`
	Timeout    time.Duration `koanf:"timeout"`
	StrictNext bool          `koanf:"strict_next"`
	Target     string        `koanf:"target"`
	Before     []string      `koanf:"before"`
	After      []string      `koanf:"after"`
	Args       []any         `koanf:"args"`
}

// Load reads the pipeline file at path, then applies HOOKRUN_* environment
// overrides and defaults.
func Load(path string) (*Pipeline, error) {
	if path == "" {
		return nil, ErrEmptyConfigPath
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if !k.Exists("mode") {
		_ = k.Set("mode", ModeMiddleware)
	}
	if !k.Exists("log_level") {
		_ = k.Set("log_level", "info")
	}

	var cfg Pipeline
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the pipeline can be built.
func (p *Pipeline) Validate() error {
	p.Mode = strings.ToLower(strings.TrimSpace(p.Mode))
	switch p.Mode {
	case ModeMiddleware, ModeSequential:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrConfigValidation, p.Mode)
	}
	if strings.TrimSpace(p.Target) == "" {
		return fmt.Errorf("%w: target script is required", ErrConfigValidation)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrConfigValidation)
	}
	return nil
}
