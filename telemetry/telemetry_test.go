package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/abyss/creatures"
)

func TestComputeSpeedStats(t *testing.T) {
	speeds := []float64{1, 2, 3, 4, 5}
	mean, std, p50, p90 := ComputeSpeedStats(speeds)

	if mean != 3 {
		t.Errorf("mean = %f, want 3", mean)
	}
	if std <= 0 {
		t.Errorf("std = %f, want positive", std)
	}
	if p50 != 3 {
		t.Errorf("p50 = %f, want 3", p50)
	}
	if p90 < 4 {
		t.Errorf("p90 = %f, want >= 4", p90)
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, std, p50, p90 := ComputeSpeedStats(nil)
	if mean != 0 || std != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("empty sample produced non-zero stats: %f %f %f %f", mean, std, p50, p90)
	}
}

func TestCollectorWindowing(t *testing.T) {
	// 5 second window at dt 0.1 = 50 ticks.
	c := NewCollector(5.0, 0.1)

	if c.ShouldFlush(49) {
		t.Error("flushed before the window completed")
	}
	if !c.ShouldFlush(50) {
		t.Error("did not flush at window end")
	}

	c.Flush(50, 5.0, Snapshot{})
	if c.ShouldFlush(51) {
		t.Error("window did not reset after flush")
	}
	if !c.ShouldFlush(100) {
		t.Error("second window never completed")
	}
}

func TestCollectorFlushResetsEvents(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	c.RecordSpawn(creatures.Fish)
	c.RecordSpawn(creatures.Shark)
	c.RecordDespawn(creatures.Fish)
	c.RecordKill()

	snap := Snapshot{
		Populations: [10]int{100, 2},
		Modes:       [4]int{90, 8, 2, 2},
		Speeds:      []float64{1, 2},
		PoolInUse:   100,
	}
	stats := c.Flush(10, 1.0, snap)

	if stats.Spawns != 2 || stats.Despawns != 1 || stats.Kills != 1 {
		t.Errorf("event counts: spawns=%d despawns=%d kills=%d", stats.Spawns, stats.Despawns, stats.Kills)
	}
	if stats.Fish != 100 || stats.Shark != 2 {
		t.Errorf("populations: fish=%d shark=%d", stats.Fish, stats.Shark)
	}
	if stats.Pursuing != 8 || stats.Fleeing != 2 {
		t.Errorf("modes: pursuing=%d fleeing=%d", stats.Pursuing, stats.Fleeing)
	}

	// Counters reset between windows.
	next := c.Flush(20, 2.0, Snapshot{})
	if next.Spawns != 0 || next.Kills != 0 {
		t.Errorf("counters survived flush: spawns=%d kills=%d", next.Spawns, next.Kills)
	}
}

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(10)

	p.StartTick()
	p.StartPhase(PhaseMovement)
	time.Sleep(2 * time.Millisecond)
	p.StartPhase(PhaseHunting)
	time.Sleep(1 * time.Millisecond)
	p.EndTick()

	stats := p.Stats()
	if stats.AvgTickDuration < 3*time.Millisecond {
		t.Errorf("avg tick %v, want >= 3ms", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseMovement] < 2*time.Millisecond {
		t.Errorf("movement phase %v, want >= 2ms", stats.PhaseAvg[PhaseMovement])
	}
	pctSum := stats.PhasePct[PhaseMovement] + stats.PhasePct[PhaseHunting]
	if pctSum < 90 || pctSum > 110 {
		t.Errorf("phase percentages sum to %f, want ~100", pctSum)
	}
}

func TestPerfCollectorEmptyWindow(t *testing.T) {
	p := NewPerfCollector(10)
	stats := p.Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector produced stats: %+v", stats)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 1, Fish: 10}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 2, Fish: 9}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "window_end") || !strings.Contains(lines[0], "fish") {
		t.Errorf("missing header columns: %q", lines[0])
	}
	if strings.Contains(lines[1], "window_end") {
		t.Error("header repeated in data rows")
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("disabled manager errored: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// All methods are nil-safe.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}
