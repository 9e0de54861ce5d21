package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qos-sched/qos-sched/sim"
)

// loadConfig returns sim.DefaultConfig overlaid with the YAML file at path.
// An empty path returns the defaults. Unknown keys are rejected so typos fail loudly.
func loadConfig(path string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := decodeConfig(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decodeConfig parses data into cfg with strict field checking. Fields absent
// from data keep their current value; an empty document changes nothing.
func decodeConfig(data []byte, cfg *sim.Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}
