package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qos-sched/qos-sched/sim"
	"github.com/qos-sched/qos-sched/sim/record"
)

func TestRunOnline_Replay_DecidesEveryPacket(t *testing.T) {
	// GIVEN a replay source with one packet per class and a fast tick
	path := writeDataset(t,
		"2024-11-05 10:00:00,1.1.1.1,2.2.2.2,UDP,100,uRLLC",
		"2024-11-05 10:00:01,3.3.3.3,4.4.4.4,TCP,900,eMBB",
		"2024-11-05 10:00:02,5.5.5.5,6.6.6.6,UDP,60,mMTC",
	)
	cfg := sim.DefaultConfig()
	cfg.Scheduler.TimeSlot = 10 * time.Millisecond
	cfg.Traffic = sim.TrafficConfig{Source: sim.SourceReplay, Dataset: path}
	require.NoError(t, cfg.Validate())
	var out bytes.Buffer

	// WHEN the scheduler runs briefly
	summary, err := runOnline(context.Background(), cfg, runOptions{Duration: 300 * time.Millisecond}, &out)

	// THEN every packet is decided and admitted, without generator lines
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	for _, c := range sim.Classes {
		assert.Equal(t, 1, summary.PerClass[c].Admitted, "class %s", c)
	}
	text := out.String()
	assert.NotContains(t, text, "Generated Packet")
	assert.Contains(t, text, "Processing uRLLC Packet: 1.1.1.1 -> 2.2.2.2")
	assert.Contains(t, text, "Processing mMTC Packet: 5.5.5.5 -> 6.6.6.6")
}

func TestRunOnline_PacedRandomSourceWithDuration_StopsCleanly(t *testing.T) {
	// GIVEN the default random source paced at 20ms and a 300ms run limit
	cfg := sim.DefaultConfig()
	cfg.Scheduler.TimeSlot = 10 * time.Millisecond
	cfg.Traffic.Interval = 20 * time.Millisecond
	var out bytes.Buffer

	// WHEN the run reaches its duration
	summary, err := runOnline(context.Background(), cfg, runOptions{Duration: 300 * time.Millisecond}, &out)

	// THEN it ends without error and every generated packet was decided
	require.NoError(t, err)
	assert.Greater(t, summary.Total, 0)
	assert.Equal(t, summary.Total, strings.Count(out.String(), "Generated Packet"))
}

func TestRunOnline_ReplayMissingDataset_Errors(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Traffic = sim.TrafficConfig{Source: sim.SourceReplay, Dataset: "/nonexistent/traffic.csv"}

	_, err := runOnline(context.Background(), cfg, runOptions{Duration: 50 * time.Millisecond}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading replay dataset")
}

func TestRunOnline_CancelledContext_ReturnsSummary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runOnline(ctx, sim.DefaultConfig(), runOptions{}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
}

func TestPrintOutcomeSummary_OneLinePerClass(t *testing.T) {
	s := &record.OutcomeSummary{
		Total: 2,
		Ticks: 1,
		PerClass: map[sim.QoSClass]record.ClassOutcomes{
			sim.ClassA: {Admitted: 1},
			sim.ClassB: {Dropped: 1},
		},
	}
	var buf bytes.Buffer

	printOutcomeSummary(&buf, s)

	text := buf.String()
	assert.Contains(t, text, "2 decisions over 1 ticks")
	assert.Contains(t, text, "eMBB   admitted=0 dropped=1 drop_rate=1.00")
	assert.Equal(t, len(sim.Classes), strings.Count(text, "admitted="))
}
