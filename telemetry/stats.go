// Package telemetry aggregates simulation events into windowed statistics
// and writes them as CSV alongside per-phase performance timings.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Population counts at window end, per kind.
	Fish      int `csv:"fish"`
	Shark     int `csv:"shark"`
	Dolphin   int `csv:"dolphin"`
	Jellyfish int `csv:"jellyfish"`
	Ray       int `csv:"ray"`
	Turtle    int `csv:"turtle"`
	Crab      int `csv:"crab"`
	Starfish  int `csv:"starfish"`
	Urchin    int `csv:"urchin"`
	Whale     int `csv:"whale"`

	// Events during the window.
	Spawns   int `csv:"spawns"`
	Despawns int `csv:"despawns"`
	Kills    int `csv:"kills"`

	// Behavioral state histogram at window end.
	Idle      int `csv:"idle"`
	Pursuing  int `csv:"pursuing"`
	Attacking int `csv:"attacking"`
	Fleeing   int `csv:"fleeing"`

	// Speed distribution at window end.
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Render pool occupancy.
	PoolInUse     int `csv:"pool_in_use"`
	PoolHighWater int `csv:"pool_high_water"`
}

// ComputeSpeedStats calculates mean, standard deviation, and percentiles
// from the sampled speed values. Returns zeros for an empty sample.
func ComputeSpeedStats(speeds []float64) (mean, std, p50, p90 float64) {
	if len(speeds) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(speeds, nil)
	if len(speeds) > 1 {
		std = stat.StdDev(speeds, nil)
	}

	sorted := make([]float64, len(speeds))
	copy(sorted, speeds)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("fish", s.Fish),
		slog.Int("shark", s.Shark),
		slog.Int("dolphin", s.Dolphin),
		slog.Int("jellyfish", s.Jellyfish),
		slog.Int("spawns", s.Spawns),
		slog.Int("despawns", s.Despawns),
		slog.Int("kills", s.Kills),
		slog.Int("pursuing", s.Pursuing),
		slog.Int("fleeing", s.Fleeing),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Int("pool_in_use", s.PoolInUse),
	)
}
