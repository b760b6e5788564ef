package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/abyss/telemetry"
)

// updateTelemetry flushes the stats window when it completes and emits the
// periodic world-state log.
func (o *Ocean) updateTelemetry() {
	if o.collector.ShouldFlush(o.tick) {
		stats := o.collector.Flush(o.tick, o.elapsed, o.snapshot())
		slog.Info("window", "stats", stats)
		if err := o.output.WriteTelemetry(stats); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		if err := o.output.WritePerf(o.perf.Stats(), o.tick); err != nil {
			slog.Error("perf write failed", "error", err)
		}
		if o.logStats {
			o.logPerfStats()
		}
	}

	if o.elapsed-o.lastStateLog >= o.cfg.Telemetry.LogInterval {
		o.logWorldState()
		o.lastStateLog = o.elapsed
	}
}

// snapshot samples the point-in-time gauges for the stats window.
func (o *Ocean) snapshot() telemetry.Snapshot {
	var snap telemetry.Snapshot

	for _, e := range o.id.Set.Entities() {
		snap.Populations[o.id.Kind[e]]++
	}
	for _, e := range o.mem.Set.Entities() {
		snap.Modes[o.mem.Mode[e]]++
	}
	for _, e := range o.kin.Set.Entities() {
		vx, vy, vz := o.kin.VelX[e], o.kin.VelY[e], o.kin.VelZ[e]
		snap.Speeds = append(snap.Speeds, math.Sqrt(float64(vx*vx+vy*vy+vz*vz)))
	}
	if o.dispatcher != nil {
		snap.PoolInUse = o.dispatcher.Pool().InUse()
		snap.PoolHighWater = o.dispatcher.Pool().HighWater()
	}
	return snap
}
