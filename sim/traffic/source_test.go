package traffic

import (
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/qos-sched/qos-sched/sim"
)

var t0 = time.Date(2024, 11, 5, 10, 0, 0, 500_000_000, time.UTC)

func TestRandomSource_SameSeed_SameStream(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(t0)
	a := NewRandomSource(7, clk)
	b := NewRandomSource(7, clk)
	for i := 0; i < 50; i++ {
		x, okX := a.Next()
		y, okY := b.Next()
		require.True(t, okX)
		require.True(t, okY)
		assert.Equal(t, x, y, "arrival %d", i)
	}
}

func TestRandomSource_DifferentSeeds_Differ(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(t0)
	x, _ := NewRandomSource(1, clk).Next()
	y, _ := NewRandomSource(2, clk).Next()
	assert.NotEqual(t, x.ID, y.ID)
}

func TestRandomSource_FieldsWithinRanges(t *testing.T) {
	src := NewRandomSource(42, testingclock.NewFakePassiveClock(t0))
	seen := make(map[sim.QoSClass]bool)
	for i := 0; i < 500; i++ {
		a, ok := src.Next()
		require.True(t, ok)

		_, err := uuid.Parse(a.ID)
		assert.NoError(t, err)
		assert.Equal(t, t0.Truncate(time.Second), a.Packet.Timestamp)
		assert.Contains(t, GeneratedProtocols, a.Packet.Protocol)
		assert.GreaterOrEqual(t, a.Packet.SizeBytes, MinPacketSize)
		assert.LessOrEqual(t, a.Packet.SizeBytes, MaxPacketSize)
		assert.NotNil(t, net.ParseIP(a.Packet.SourceIP), a.Packet.SourceIP)
		assert.NotNil(t, net.ParseIP(a.Packet.DestinationIP), a.Packet.DestinationIP)
		seen[a.Packet.Class] = true
	}
	assert.Len(t, seen, len(sim.Classes), "all classes generated")
}

func TestReplaySource_YieldsInOrderThenExhausts(t *testing.T) {
	packets := []sim.Packet{
		{SourceIP: "1.1.1.1", Class: sim.ClassA},
		{SourceIP: "2.2.2.2", Class: sim.ClassC},
	}
	src := NewReplaySource(packets)
	assert.Equal(t, 2, src.Remaining())

	first, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, Arrival{ID: "unit_0", Packet: packets[0]}, first)

	second, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, "unit_1", second.ID)

	_, ok = src.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, src.Remaining())
}
