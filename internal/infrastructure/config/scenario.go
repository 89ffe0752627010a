package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Scenario describes a demo pipeline shape loaded from a YAML file.
// Zero-valued fields keep the value already present in the Config.
type Scenario struct {
	Name             string        `yaml:"name"`
	Capacity         int           `yaml:"capacity"`
	Producers        int           `yaml:"producers"`
	Consumers        int           `yaml:"consumers"`
	ItemsPerProducer int           `yaml:"items_per_producer"`
	ProduceDelay     time.Duration `yaml:"produce_delay"`
	ConsumeDelay     time.Duration `yaml:"consume_delay"`
	PollTimeout      time.Duration `yaml:"poll_timeout"`
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// Apply overlays the scenario's non-zero fields onto cfg.
func (s *Scenario) Apply(cfg *Config) {
	if s.Capacity > 0 {
		cfg.Queue.Capacity = s.Capacity
	}
	if s.Producers > 0 {
		cfg.Pipeline.Producers = s.Producers
	}
	if s.Consumers > 0 {
		cfg.Pipeline.Consumers = s.Consumers
	}
	if s.ItemsPerProducer > 0 {
		cfg.Pipeline.ItemsPerProducer = s.ItemsPerProducer
	}
	if s.ProduceDelay > 0 {
		cfg.Pipeline.ProduceDelay = s.ProduceDelay
	}
	if s.ConsumeDelay > 0 {
		cfg.Pipeline.ConsumeDelay = s.ConsumeDelay
	}
	if s.PollTimeout > 0 {
		cfg.Pipeline.PollTimeout = s.PollTimeout
	}
}
