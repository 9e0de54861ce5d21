// Package traffic provides the packet sources that feed the online scheduler:
// a live random generator and a replay of a historical dataset.
package traffic

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/qos-sched/qos-sched/sim"
)

// Arrival is one packet ready for submission, with the identity it will carry.
type Arrival struct {
	ID     string
	Packet sim.Packet
}

// Source yields packets one at a time. Next returns false once exhausted;
// infinite sources never do.
type Source interface {
	Next() (Arrival, bool)
}

// Generator parameters for RandomSource.
var (
	GeneratedProtocols = []string{"TCP", "UDP"}
	MinPacketSize      = 50
	MaxPacketSize      = 1500
)

// RandomSource generates an endless stream of packets with a uniformly random
// class, protocol and size and random IPv4 endpoints. IDs are UUIDs drawn from
// the same seeded generator, so a seed reproduces the whole stream.
type RandomSource struct {
	rng   *rand.Rand
	clock clock.PassiveClock
}

// NewRandomSource creates a RandomSource. clk stamps the packet Timestamp.
func NewRandomSource(seed int64, clk clock.PassiveClock) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed)), clock: clk}
}

// Next always returns a new packet.
func (s *RandomSource) Next() (Arrival, bool) {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		// math/rand readers never fail
		panic(fmt.Sprintf("RandomSource: generating id: %v", err))
	}
	pkt := sim.Packet{
		Timestamp:     s.clock.Now().Truncate(time.Second),
		SourceIP:      s.randomIP(),
		DestinationIP: s.randomIP(),
		Protocol:      GeneratedProtocols[s.rng.Intn(len(GeneratedProtocols))],
		SizeBytes:     MinPacketSize + s.rng.Intn(MaxPacketSize-MinPacketSize+1),
		Class:         sim.Classes[s.rng.Intn(len(sim.Classes))],
	}
	return Arrival{ID: id.String(), Packet: pkt}, true
}

func (s *RandomSource) randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", 1+s.rng.Intn(255), s.rng.Intn(256), s.rng.Intn(256), 1+s.rng.Intn(255))
}

// ReplaySource yields dataset packets in file order, once each.
type ReplaySource struct {
	packets []sim.Packet
	next    int
}

// NewReplaySource creates a ReplaySource over packets.
func NewReplaySource(packets []sim.Packet) *ReplaySource {
	return &ReplaySource{packets: packets}
}

// Next returns the next packet with ID "unit_<row>", or false after the last one.
func (s *ReplaySource) Next() (Arrival, bool) {
	if s.next >= len(s.packets) {
		return Arrival{}, false
	}
	a := Arrival{ID: fmt.Sprintf("unit_%d", s.next), Packet: s.packets[s.next]}
	s.next++
	return a, true
}

// Remaining returns how many packets have not been yielded yet.
func (s *ReplaySource) Remaining() int {
	return len(s.packets) - s.next
}
