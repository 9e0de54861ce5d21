package sim

import (
	"fmt"
	"time"
)

// TickConfig groups the online scheduler parameters.
type TickConfig struct {
	TimeSlot       time.Duration `yaml:"time_slot"`       // tick duration (default 100ms)
	DeadlinePolicy string        `yaml:"deadline_policy"` // "relaxed" (default) or "strict"
	UrgentWindow   time.Duration `yaml:"urgent_window"`   // class A deadline window, strict policy only (0 = policy default)
	DeadlineWindow time.Duration `yaml:"deadline_window"` // class B/C deadline window (0 = policy default)
}

// Policy builds the DeadlinePolicy described by the config.
// Panics on an unknown policy name; call Validate first.
func (c TickConfig) Policy() DeadlinePolicy {
	return NewDeadlinePolicy(c.DeadlinePolicy, c.UrgentWindow, c.DeadlineWindow)
}

// PlannerConfig groups the offline frame allocator parameters.
type PlannerConfig struct {
	SlotsPerFrame     int           `yaml:"slots_per_frame"`    // total slot budget per frame
	FrameDuration     time.Duration `yaml:"frame_duration"`     // width of each demand window
	FrameCount        int           `yaml:"frame_count"`        // number of frames simulated per run
	Alpha             float64       `yaml:"alpha"`              // target unreliability for class A
	Gamma             float64       `yaml:"gamma"`              // controller step size
	LatencyConstraint int           `yaml:"latency_constraint"` // max latency in slots; reported, not enforced
	Dataset           string        `yaml:"dataset"`            // historical traffic CSV
}

// TrafficConfig groups traffic source parameters for the online path.
type TrafficConfig struct {
	Source   string        `yaml:"source"`   // "random" (default) or "replay"
	Interval time.Duration `yaml:"interval"` // pause between generated packets
	Seed     int64         `yaml:"seed"`     // random source seed
	Dataset  string        `yaml:"dataset"`  // replay source CSV
}

// Config is the full configuration file structure.
// All top-level sections must be listed to satisfy strict YAML parsing.
type Config struct {
	Scheduler TickConfig    `yaml:"scheduler"`
	Planner   PlannerConfig `yaml:"planner"`
	Traffic   TrafficConfig `yaml:"traffic"`
}

// Traffic source names.
const (
	SourceRandom = "random"
	SourceReplay = "replay"
)

// ValidTrafficSources is the set of recognized traffic source names.
var ValidTrafficSources = map[string]bool{"": true, SourceRandom: true, SourceReplay: true}

// DefaultConfig returns the configuration used when no file or flag overrides a value.
func DefaultConfig() Config {
	return Config{
		Scheduler: TickConfig{
			TimeSlot:       100 * time.Millisecond,
			DeadlinePolicy: string(PolicyRelaxed),
		},
		Planner: PlannerConfig{
			SlotsPerFrame:     50,
			FrameDuration:     5 * time.Minute,
			FrameCount:        100,
			Alpha:             0.1,
			Gamma:             0.05,
			LatencyConstraint: 2,
			Dataset:           "5g_network_traffic.csv",
		},
		Traffic: TrafficConfig{
			Source:   SourceRandom,
			Interval: 50 * time.Millisecond,
			Seed:     42,
		},
	}
}

// Validate checks policy names and parameter ranges.
func (c *Config) Validate() error {
	if !IsValidDeadlinePolicy(c.Scheduler.DeadlinePolicy) {
		return fmt.Errorf("unknown deadline policy %q", c.Scheduler.DeadlinePolicy)
	}
	if c.Scheduler.TimeSlot <= 0 {
		return fmt.Errorf("time_slot must be positive, got %v", c.Scheduler.TimeSlot)
	}
	if c.Scheduler.UrgentWindow < 0 || c.Scheduler.DeadlineWindow < 0 {
		return fmt.Errorf("deadline windows must be non-negative, got urgent=%v window=%v",
			c.Scheduler.UrgentWindow, c.Scheduler.DeadlineWindow)
	}
	if c.Planner.SlotsPerFrame < 0 {
		return fmt.Errorf("slots_per_frame must be non-negative, got %d", c.Planner.SlotsPerFrame)
	}
	if c.Planner.FrameDuration <= 0 {
		return fmt.Errorf("frame_duration must be positive, got %v", c.Planner.FrameDuration)
	}
	if c.Planner.FrameCount <= 0 {
		return fmt.Errorf("frame_count must be positive, got %d", c.Planner.FrameCount)
	}
	if c.Planner.Alpha < 0 || c.Planner.Alpha > 1 {
		return fmt.Errorf("alpha must be in [0, 1], got %f", c.Planner.Alpha)
	}
	if c.Planner.Gamma < 0 {
		return fmt.Errorf("gamma must be non-negative, got %f", c.Planner.Gamma)
	}
	if !ValidTrafficSources[c.Traffic.Source] {
		return fmt.Errorf("unknown traffic source %q", c.Traffic.Source)
	}
	if c.Traffic.Source == SourceReplay && c.Traffic.Dataset == "" {
		return fmt.Errorf("replay source requires a dataset path")
	}
	if c.Traffic.Interval < 0 {
		return fmt.Errorf("interval must be non-negative, got %v", c.Traffic.Interval)
	}
	return nil
}
