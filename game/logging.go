package game

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/telemetry"
)

// logWriter is the destination for human-readable log output.
var logWriter io.Writer

// SetLogWriter sets the human-readable log destination. Structured logs go
// through slog regardless.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted human-readable log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats dumps a human-readable per-phase timing breakdown.
func (o *Ocean) logPerfStats() {
	stats := o.perf.Stats()
	Logf("=== Perf @ Tick %d | %.0f ticks/s ===", o.tick, stats.TicksPerSecond)
	Logf("Avg step time: %s (min %s, max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond))
	for _, id := range o.registry.IDs() {
		// Registry ids and perf phase names line up by construction.
		if avg, ok := stats.PhaseAvg[phaseForSystem(id)]; ok {
			Logf("  %-16s %10s  %5.1f%%",
				o.registry.GetName(id),
				avg.Round(time.Microsecond),
				stats.PhasePct[phaseForSystem(id)])
		}
	}
	Logf("")
}

// phaseForSystem maps a registry system id to its perf phase name.
func phaseForSystem(id string) string {
	switch id {
	case "spatialGrid":
		return telemetry.PhaseSpatialGrid
	case "current":
		return telemetry.PhaseCurrent
	case "flocking":
		return telemetry.PhaseFlocking
	case "hunting":
		return telemetry.PhaseHunting
	case "movement":
		return telemetry.PhaseMovement
	case "renderDispatch":
		return telemetry.PhaseRender
	case "telemetry":
		return telemetry.PhaseTelemetry
	}
	return id
}

// logWorldState emits a structured summary of the world: population by
// kind, predator activity, and capacity pressure.
func (o *Ocean) logWorldState() {
	var pursuing, attacking, fleeing int
	for _, e := range o.mem.Set.Entities() {
		switch o.mem.Mode[e] {
		case components.HuntPursuing:
			pursuing++
		case components.HuntAttacking:
			attacking++
		case components.HuntFleeing:
			fleeing++
		}
	}

	counts := make(map[string]int)
	for _, e := range o.id.Set.Entities() {
		counts[o.id.Kind[e].String()]++
	}

	attrs := []any{
		"tick", o.tick,
		"sim_time", o.elapsed,
		"alive", o.world.Count(),
		"capacity", o.world.Capacity(),
		"pursuing", pursuing,
		"attacking", attacking,
		"fleeing", fleeing,
	}
	for name, n := range counts {
		attrs = append(attrs, name, n)
	}
	if o.dispatcher != nil {
		attrs = append(attrs,
			"pool_in_use", o.dispatcher.Pool().InUse(),
			"pool_high_water", o.dispatcher.Pool().HighWater(),
		)
	}

	slog.Info("world", attrs...)
}
