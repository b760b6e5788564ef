package telemetry

import "github.com/pthm-cable/abyss/creatures"

// Snapshot is the point-in-time world state the caller samples at window
// end. Event counters live in the Collector; everything here is a gauge.
type Snapshot struct {
	Populations [10]int // indexed by creatures.Kind
	Modes       [4]int  // indexed by components.HuntMode
	Speeds      []float64

	PoolInUse     int
	PoolHighWater int
}

// Collector accumulates events within time windows and produces
// WindowStats when flushed.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	windowStartTick     int32

	spawns   int
	despawns int
	kills    int
}

// NewCollector creates a stats collector. windowDurationSec is the window
// length in simulation seconds; dt converts that to ticks.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
	}
}

// RecordSpawn records one creature entering the world.
func (c *Collector) RecordSpawn(kind creatures.Kind) { c.spawns++ }

// RecordDespawn records one creature leaving the world for any reason.
func (c *Collector) RecordDespawn(kind creatures.Kind) { c.despawns++ }

// RecordKill records a successful predator strike.
func (c *Collector) RecordKill() { c.kills++ }

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the accumulated events and the
// caller's snapshot, then resets counters for the next window.
func (c *Collector) Flush(currentTick int32, simTime float64, snap Snapshot) WindowStats {
	mean, std, p50, p90 := ComputeSpeedStats(snap.Speeds)

	stats := WindowStats{
		WindowEndTick: currentTick,
		SimTimeSec:    simTime,

		Fish:      snap.Populations[0],
		Shark:     snap.Populations[1],
		Dolphin:   snap.Populations[2],
		Jellyfish: snap.Populations[3],
		Ray:       snap.Populations[4],
		Turtle:    snap.Populations[5],
		Crab:      snap.Populations[6],
		Starfish:  snap.Populations[7],
		Urchin:    snap.Populations[8],
		Whale:     snap.Populations[9],

		Spawns:   c.spawns,
		Despawns: c.despawns,
		Kills:    c.kills,

		Idle:      snap.Modes[0],
		Pursuing:  snap.Modes[1],
		Attacking: snap.Modes[2],
		Fleeing:   snap.Modes[3],

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP50:  p50,
		SpeedP90:  p90,

		PoolInUse:     snap.PoolInUse,
		PoolHighWater: snap.PoolHighWater,
	}

	c.windowStartTick = currentTick
	c.spawns = 0
	c.despawns = 0
	c.kills = 0

	return stats
}
