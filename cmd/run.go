package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/qos-sched/qos-sched/sim"
	"github.com/qos-sched/qos-sched/sim/dataset"
	"github.com/qos-sched/qos-sched/sim/record"
	"github.com/qos-sched/qos-sched/sim/traffic"
)

var (
	// CLI flags for the online scheduler
	timeSlot       time.Duration // Tick duration
	deadlinePolicy string        // Deadline policy name
	urgentWindow   time.Duration // Class A deadline window (strict policy)
	deadlineWindow time.Duration // Class B/C deadline window

	// CLI flags for the traffic source
	sourceName     string        // random or replay
	replayDataset  string        // Dataset replayed by the replay source
	sourceInterval time.Duration // Pause between packets
	seed           int64         // Seed for the random source

	// CLI flags for the run itself
	runDuration time.Duration // Stop after this long (0 = until interrupted)
	outputPath  string        // Outcome log file, in addition to stdout
	metricsAddr string        // Prometheus listen address (empty = disabled)
)

// runOptions holds run-scoped settings that are not part of sim.Config.
type runOptions struct {
	Duration    time.Duration
	MetricsAddr string
}

// runCmd executes the online scheduler until interrupted
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the online tick scheduler against live or replayed traffic",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		applyRunFlags(cmd.Flags(), &cfg)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		out := io.Writer(os.Stdout)
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				logrus.Fatalf("Error creating file %s: %v", outputPath, err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					logrus.Errorf("Error closing file %s: %v", outputPath, err)
				}
			}()
			out = io.MultiWriter(os.Stdout, f)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		summary, err := runOnline(ctx, cfg, runOptions{Duration: runDuration, MetricsAddr: metricsAddr}, out)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		printOutcomeSummary(os.Stdout, summary)
	},
}

// applyRunFlags overrides file values with flags the user set explicitly.
func applyRunFlags(flags *pflag.FlagSet, cfg *sim.Config) {
	if flags.Changed("time-slot") {
		cfg.Scheduler.TimeSlot = timeSlot
	}
	if flags.Changed("deadline-policy") {
		cfg.Scheduler.DeadlinePolicy = deadlinePolicy
	}
	if flags.Changed("urgent-window") {
		cfg.Scheduler.UrgentWindow = urgentWindow
	}
	if flags.Changed("deadline-window") {
		cfg.Scheduler.DeadlineWindow = deadlineWindow
	}
	if flags.Changed("source") {
		cfg.Traffic.Source = sourceName
	}
	if flags.Changed("dataset") {
		cfg.Traffic.Dataset = replayDataset
	}
	if flags.Changed("interval") {
		cfg.Traffic.Interval = sourceInterval
	}
	if flags.Changed("seed") {
		cfg.Traffic.Seed = seed
	}
}

// runOnline wires source, processor and recorders and runs until ctx is done
// or opts.Duration elapses. Outcome lines are written to out.
func runOnline(ctx context.Context, cfg sim.Config, opts runOptions, out io.Writer) (*record.OutcomeSummary, error) {
	if opts.Duration > 0 {
		// a plain cancel keeps the limiter from failing on a context deadline
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		timer := time.AfterFunc(opts.Duration, cancel)
		defer timer.Stop()
	}

	logger := record.NewLogger(out, false)
	stats := record.NewOutcomeStats()
	recorders := record.Multi{record.NewLogRecorder(logger), stats}

	var reg *prometheus.Registry
	if opts.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		recorders = append(recorders, record.NewMetricsRecorder(reg))
	}

	source, err := newSource(cfg.Traffic)
	if err != nil {
		return nil, err
	}

	clk := clock.RealClock{}
	proc := sim.NewProcessor(cfg.Scheduler, clk, recorders)
	producer := &traffic.Producer{
		Source:  source,
		Sink:    proc,
		Limiter: traffic.NewLimiter(cfg.Traffic.Interval),
	}
	if cfg.Traffic.Source != sim.SourceReplay {
		producer.Log = logger
	}

	logrus.Infof("Starting scheduler: slot=%v, policy=%s, source=%s, interval=%v",
		cfg.Scheduler.TimeSlot, proc.Policy().Name, cfg.Traffic.Source, cfg.Traffic.Interval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := producer.Run(gctx)
		return err
	})
	g.Go(func() error {
		return proc.Run(gctx)
	})
	if reg != nil {
		serveMetrics(gctx, g, opts.MetricsAddr, reg)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// units the producer submitted after the processor's final drain
	proc.Drain()

	logrus.Info("Scheduler stopped.")
	return stats.Summary(), nil
}

func newSource(cfg sim.TrafficConfig) (traffic.Source, error) {
	switch cfg.Source {
	case "", sim.SourceRandom:
		return traffic.NewRandomSource(cfg.Seed, clock.RealClock{}), nil
	case sim.SourceReplay:
		packets, err := dataset.Load(cfg.Dataset)
		if err != nil {
			return nil, fmt.Errorf("loading replay dataset: %w", err)
		}
		return traffic.NewReplaySource(packets), nil
	default:
		return nil, fmt.Errorf("unknown traffic source %q", cfg.Source)
	}
}

// serveMetrics exposes reg on addr until ctx is done.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g.Go(func() error {
		logrus.Infof("Serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// printOutcomeSummary writes per-class admitted/dropped counts.
func printOutcomeSummary(w io.Writer, s *record.OutcomeSummary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n=== Scheduler Summary: %d decisions over %d ticks ===\n", s.Total, s.Ticks)
	for _, c := range sim.Classes {
		co := s.PerClass[c]
		fmt.Fprintf(&sb, "%-6s admitted=%d dropped=%d drop_rate=%.2f mean_size=%.1fB mean_wait=%.2fms\n",
			c.Label(), co.Admitted, co.Dropped, co.DropRate(), co.MeanSizeBytes, co.MeanWaitMs)
	}
	_, _ = io.WriteString(w, sb.String())
}

func init() {
	defaults := sim.DefaultConfig()

	runCmd.Flags().DurationVar(&timeSlot, "time-slot", defaults.Scheduler.TimeSlot, "Scheduler tick duration")
	runCmd.Flags().StringVar(&deadlinePolicy, "deadline-policy", defaults.Scheduler.DeadlinePolicy,
		fmt.Sprintf("Deadline policy (%s)", strings.Join(sim.DeadlinePolicyNames(), ", ")))
	runCmd.Flags().DurationVar(&urgentWindow, "urgent-window", 0, "uRLLC deadline window under the strict policy (0 = policy default)")
	runCmd.Flags().DurationVar(&deadlineWindow, "deadline-window", 0, "eMBB/mMTC deadline window (0 = policy default)")

	runCmd.Flags().StringVar(&sourceName, "source", defaults.Traffic.Source, "Traffic source (random, replay)")
	runCmd.Flags().StringVar(&replayDataset, "dataset", "", "Dataset CSV replayed by the replay source")
	runCmd.Flags().DurationVar(&sourceInterval, "interval", defaults.Traffic.Interval, "Pause between submitted packets (0 = no pacing)")
	runCmd.Flags().Int64Var(&seed, "seed", defaults.Traffic.Seed, "Seed for the random traffic source")

	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "Stop after this long (0 = run until interrupted)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Also write the outcome log to this file")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (empty = disabled)")
}
