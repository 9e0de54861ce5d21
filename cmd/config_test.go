package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qos-sched/qos-sched/sim"
)

func TestLoadConfig_EmptyPath_ReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFile_OverlaysDefaults(t *testing.T) {
	// GIVEN a file that sets only a few fields
	path := filepath.Join(t.TempDir(), "qos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scheduler:
  time_slot: 20ms
  deadline_policy: strict
planner:
  frame_count: 12
  alpha: 0.2
`), 0o644))

	// WHEN loaded
	cfg, err := loadConfig(path)

	// THEN those fields change and everything else keeps its default
	require.NoError(t, err)
	defaults := sim.DefaultConfig()
	assert.Equal(t, 20*time.Millisecond, cfg.Scheduler.TimeSlot)
	assert.Equal(t, "strict", cfg.Scheduler.DeadlinePolicy)
	assert.Equal(t, 12, cfg.Planner.FrameCount)
	assert.Equal(t, 0.2, cfg.Planner.Alpha)
	assert.Equal(t, defaults.Planner.SlotsPerFrame, cfg.Planner.SlotsPerFrame)
	assert.Equal(t, defaults.Traffic, cfg.Traffic)
	assert.NoError(t, cfg.Validate())
}

func TestDecodeConfig_UnknownKey_Rejected(t *testing.T) {
	cfg := sim.DefaultConfig()
	err := decodeConfig([]byte("scheduler:\n  timeslot: 20ms\n"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeslot")
}

func TestDecodeConfig_EmptyDocument_NoChange(t *testing.T) {
	cfg := sim.DefaultConfig()
	require.NoError(t, decodeConfig(nil, &cfg))
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestLoadConfig_MissingFile_Errors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestApplyRunFlags_OnlyChangedFlagsOverride(t *testing.T) {
	// GIVEN a config whose policy came from a file
	cfg := sim.DefaultConfig()
	cfg.Scheduler.DeadlinePolicy = "strict"
	cfg.Traffic.Seed = 7

	// WHEN only --time-slot and --seed are passed
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.DurationVar(&timeSlot, "time-slot", 100*time.Millisecond, "")
	fs.StringVar(&deadlinePolicy, "deadline-policy", "relaxed", "")
	fs.Int64Var(&seed, "seed", 42, "")
	require.NoError(t, fs.Parse([]string{"--time-slot=25ms", "--seed=9"}))
	applyRunFlags(fs, &cfg)

	// THEN the file's policy survives and the flags win
	assert.Equal(t, 25*time.Millisecond, cfg.Scheduler.TimeSlot)
	assert.Equal(t, "strict", cfg.Scheduler.DeadlinePolicy)
	assert.Equal(t, int64(9), cfg.Traffic.Seed)
}

func TestApplyPlanFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Planner.Dataset = "from-file.csv"

	fs := pflag.NewFlagSet("plan", pflag.ContinueOnError)
	fs.StringVar(&planDataset, "dataset", "default.csv", "")
	fs.IntVar(&frameCount, "frames", 100, "")
	require.NoError(t, fs.Parse([]string{"--frames=3"}))
	applyPlanFlags(fs, &cfg)

	assert.Equal(t, "from-file.csv", cfg.Planner.Dataset)
	assert.Equal(t, 3, cfg.Planner.FrameCount)
}
