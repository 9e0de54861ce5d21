package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/utils/clock"

	"github.com/qos-sched/qos-sched/sim"
	"github.com/qos-sched/qos-sched/sim/dataset"
	"github.com/qos-sched/qos-sched/sim/frame"
	"github.com/qos-sched/qos-sched/sim/record"
)

var (
	// CLI flags for the frame allocator
	planDataset       string        // Historical traffic CSV
	slotsPerFrame     int           // Slot budget per frame
	frameDuration     time.Duration // Frame window width
	frameCount        int           // Number of frames to simulate
	alpha             float64       // Target unreliability for uRLLC
	gamma             float64       // Controller step size
	latencyConstraint int           // Max latency in slots (reported only)
)

// planCmd runs the offline frame allocator over a historical dataset
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Allocate per-frame slots from historical traffic with reliability feedback",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		applyPlanFlags(cmd.Flags(), &cfg)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		if _, err := runPlan(cfg.Planner, os.Stdout); err != nil {
			logrus.Fatalf("Planning failed: %v", err)
		}
	},
}

// applyPlanFlags overrides file values with flags the user set explicitly.
func applyPlanFlags(flags *pflag.FlagSet, cfg *sim.Config) {
	if flags.Changed("dataset") {
		cfg.Planner.Dataset = planDataset
	}
	if flags.Changed("slots-per-frame") {
		cfg.Planner.SlotsPerFrame = slotsPerFrame
	}
	if flags.Changed("frame-duration") {
		cfg.Planner.FrameDuration = frameDuration
	}
	if flags.Changed("frames") {
		cfg.Planner.FrameCount = frameCount
	}
	if flags.Changed("alpha") {
		cfg.Planner.Alpha = alpha
	}
	if flags.Changed("gamma") {
		cfg.Planner.Gamma = gamma
	}
	if flags.Changed("latency-constraint") {
		cfg.Planner.LatencyConstraint = latencyConstraint
	}
}

// runPlan loads the dataset, runs the allocator and writes one line per frame
// plus the final success rate to out. A dataset that cannot be opened degrades
// to zero demand; a dataset with a malformed row is an error.
func runPlan(cfg sim.PlannerConfig, out io.Writer) (frame.Result, error) {
	packets, err := dataset.Load(cfg.Dataset)
	if err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return frame.Result{}, err
		}
		logrus.Warnf("Dataset not found at %s. Ensure the file path is correct: %v", cfg.Dataset, err)
		packets = nil
	}

	logrus.Infof("Planning %d frames: slots=%d, frame=%v, alpha=%.3f, gamma=%.3f, latency constraint=%d slots, %d historical packets",
		cfg.FrameCount, cfg.SlotsPerFrame, cfg.FrameDuration, cfg.Alpha, cfg.Gamma, cfg.LatencyConstraint, len(packets))

	logger := record.NewLogger(out, true)
	trace := record.NewTrace()
	allocator := frame.NewAllocator(cfg, packets, clock.RealClock{}, record.Multi{record.NewLogRecorder(logger), trace})
	result := allocator.Run()

	logger.Info("")
	logger.Info(result.Message())
	printFrameSummary(out, record.SummarizeFrames(trace))
	return result, nil
}

// printFrameSummary writes demand statistics and controller state for the run.
func printFrameSummary(w io.Writer, s *record.FrameSummary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n=== Allocation Summary: %d frames, %d successful, %d over budget, final theta=%.4f ===\n",
		s.Frames, s.Successes, s.Overallocated, s.FinalTheta)
	for _, c := range sim.Classes {
		d := s.Demand[c]
		fmt.Fprintf(&sb, "%-6s demand mean=%.2f stddev=%.2f\n", c.Label(), d.Mean, d.StdDev)
	}
	_, _ = io.WriteString(w, sb.String())
}

func init() {
	defaults := sim.DefaultConfig().Planner

	planCmd.Flags().StringVar(&planDataset, "dataset", defaults.Dataset, "Historical traffic CSV")
	planCmd.Flags().IntVar(&slotsPerFrame, "slots-per-frame", defaults.SlotsPerFrame, "Total slots per frame")
	planCmd.Flags().DurationVar(&frameDuration, "frame-duration", defaults.FrameDuration, "Frame window width")
	planCmd.Flags().IntVar(&frameCount, "frames", defaults.FrameCount, "Number of frames to simulate")
	planCmd.Flags().Float64Var(&alpha, "alpha", defaults.Alpha, "Target unreliability for uRLLC (reliability = 1 - alpha)")
	planCmd.Flags().Float64Var(&gamma, "gamma", defaults.Gamma, "Controller step size")
	planCmd.Flags().IntVar(&latencyConstraint, "latency-constraint", defaults.LatencyConstraint, "Max uRLLC latency in slots (reported only)")
}
