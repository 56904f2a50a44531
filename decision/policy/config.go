package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"pcbuild/decision/compat"
	"pcbuild/decision/power"
	"pcbuild/decision/scoring"
	bperrors "pcbuild/pkg/errors"
)

// Config gathers every tunable threshold. A policy file only needs the
// fields it overrides; everything else keeps its default.
type Config struct {
	Compatibility compat.Policy   `yaml:"compatibility" json:"compatibility"`
	Power         power.Policy    `yaml:"power" json:"power"`
	Scoring       scoring.Weights `yaml:"scoring" json:"scoring"`
	Gates         []Gate          `yaml:"gates" json:"gates"`
}

// Default returns the shipped configuration.
func Default() Config {
	return Config{
		Compatibility: compat.DefaultPolicy(),
		Power:         power.DefaultPolicy(),
		Scoring:       scoring.DefaultWeights(),
		Gates:         DefaultGates(),
	}
}

// Load reads a YAML policy file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read policy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected so typos do not silently keep a default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse policy file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Compatibility.Validate(); err != nil {
		return err
	}
	if err := c.Power.Validate(); err != nil {
		return err
	}
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Gates))
	for _, g := range c.Gates {
		if g.ID == "" {
			return bperrors.NewInvalidPolicyError("gate id is empty", "gates")
		}
		if seen[g.ID] {
			return bperrors.NewInvalidPolicyError("gate id listed twice", g.ID)
		}
		seen[g.ID] = true
		switch g.Type {
		case GateTypeBlockingIssues, GateTypeAdvisories, GateTypePowerStatus, GateTypePriceLimit:
		default:
			return bperrors.NewInvalidPolicyError(fmt.Sprintf("unknown gate type %q", g.Type), g.ID)
		}
		if g.Severity != SeverityError && g.Severity != SeverityWarning {
			return bperrors.NewInvalidPolicyError(fmt.Sprintf("unknown severity %q", g.Severity), g.ID)
		}
		if g.Threshold < 0 {
			return bperrors.NewInvalidPolicyError("threshold must be >= 0", g.ID)
		}
	}
	return nil
}

// Engine builds a gate engine from the configured gates.
func (c Config) Engine() *Engine {
	return NewEngine(c.Gates)
}
