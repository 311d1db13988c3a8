package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"splitHub/business/bandit"
	"splitHub/domain"

	"gopkg.in/yaml.v3"
)

// Scenario describes a synthetic experiment: its variants, the conversion
// rate each one really has, and how many visitors to send through it.
type Scenario struct {
	Name      string           `yaml:"name"`
	Algorithm domain.Algorithm `yaml:"algorithm"`
	Visitors  int              `yaml:"visitors"`
	Seed      int64            `yaml:"seed"`
	Bandit    BanditParams     `yaml:"bandit"`
	Variants  []VariantSpec    `yaml:"variants"`
}

// BanditParams mirrors the per-experiment override row; an omitted key keeps
// the default.
type BanditParams struct {
	PriorAlpha        *float64 `yaml:"prior_alpha"`
	PriorBeta         *float64 `yaml:"prior_beta"`
	UCBConfidence     *float64 `yaml:"ucb_confidence"`
	Epsilon           *float64 `yaml:"epsilon"`
	EpsilonDecay      *bool    `yaml:"epsilon_decay"`
	MinBanditVisitors *int64   `yaml:"min_bandit_visitors"`
}

type VariantSpec struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	TrafficPercentage float64 `yaml:"traffic_percentage"`
	ConversionRate    float64 `yaml:"conversion_rate"`
	Revenue           float64 `yaml:"revenue"`
}

func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes strictly: unknown keys are errors so typos do not silently
// fall back to defaults.
func Parse(data []byte) (Scenario, error) {
	var sc Scenario

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}

	if sc.Algorithm == "" {
		sc.Algorithm = domain.AlgorithmUniform
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func (sc Scenario) Validate() error {
	if !sc.Algorithm.Valid() {
		return fmt.Errorf("unknown algorithm %q", sc.Algorithm)
	}
	if sc.Visitors <= 0 {
		return errors.New("visitors must be positive")
	}
	if len(sc.Variants) == 0 {
		return errors.New("at least one variant is required")
	}

	seen := make(map[string]bool, len(sc.Variants))
	for i, v := range sc.Variants {
		if v.ID == "" {
			return fmt.Errorf("variant %d has no id", i)
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate variant id %q", v.ID)
		}
		seen[v.ID] = true

		if v.ConversionRate < 0 || v.ConversionRate > 1 || math.IsNaN(v.ConversionRate) {
			return fmt.Errorf("variant %q: conversion_rate must be within [0, 1]", v.ID)
		}
		if v.TrafficPercentage < 0 {
			return fmt.Errorf("variant %q: traffic_percentage must not be negative", v.ID)
		}
		if v.Revenue < 0 {
			return fmt.Errorf("variant %q: revenue must not be negative", v.ID)
		}
	}

	if e := sc.Bandit.Epsilon; e != nil && (*e < 0 || *e > 1) {
		return errors.New("bandit.epsilon must be within [0, 1]")
	}
	return nil
}

// Experiment builds the running experiment the resolver will see.
func (sc Scenario) Experiment() domain.Experiment {
	exp := domain.Experiment{
		ID:        "sim-" + sc.Name,
		Key:       sc.Name,
		Name:      sc.Name,
		Status:    domain.ExperimentRunning,
		Algorithm: sc.Algorithm,
	}
	for i, v := range sc.Variants {
		name := v.Name
		if name == "" {
			name = v.ID
		}
		exp.Variants = append(exp.Variants, domain.Variant{
			ID:                v.ID,
			ExperimentID:      exp.ID,
			Name:              name,
			IsControl:         i == 0,
			TrafficPercentage: v.TrafficPercentage,
			Active:            true,
			Position:          i,
		})
	}
	return exp
}

func (sc Scenario) overrides(experimentID string) domain.BanditConfig {
	return domain.BanditConfig{
		ExperimentID:    experimentID,
		PriorAlpha:      sc.Bandit.PriorAlpha,
		PriorBeta:       sc.Bandit.PriorBeta,
		UCBConfidence:   sc.Bandit.UCBConfidence,
		Epsilon:         sc.Bandit.Epsilon,
		EpsilonDecay:    sc.Bandit.EpsilonDecay,
		MinBanditVisits: sc.Bandit.MinBanditVisitors,
	}
}

// Config is the effective scorer configuration for the scenario.
func (sc Scenario) Config() bandit.Config {
	return bandit.DefaultConfig().WithOverrides(sc.overrides(""))
}

func (sc Scenario) bestRate() float64 {
	best := 0.0
	for _, v := range sc.Variants {
		best = math.Max(best, v.ConversionRate)
	}
	return best
}
