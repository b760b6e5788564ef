package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/game"
	"github.com/pthm-cable/abyss/renderer"
	"github.com/pthm-cable/abyss/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Dump per-phase timings at each stats window")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if *headless {
		runHeadless(cfg, rngSeed, output, *maxTicks, *logStats)
		return
	}
	runGraphical(cfg, rngSeed, output, *maxTicks, *logStats)
}

// runHeadless steps the simulation at a fixed rate with no GPU work.
func runHeadless(cfg *config.Config, seed int64, output *telemetry.OutputManager, maxTicks int, logStats bool) {
	ocean, err := game.NewOcean(cfg, seed, nil, output)
	if err != nil {
		slog.Error("failed to create ocean", "error", err)
		os.Exit(1)
	}
	ocean.SetStatsLogging(logStats)

	slog.Info("starting headless simulation", "seed", seed, "max_ticks", maxTicks)

	const dt = 1.0 / 60.0
	for {
		ocean.Step(dt)
		if maxTicks > 0 && int(ocean.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", ocean.Tick())
			return
		}
	}
}

// runGraphical runs the raylib window loop with frame-time stepping.
func runGraphical(cfg *config.Config, seed int64, output *telemetry.OutputManager, maxTicks int, logStats bool) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Abyss")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	backend := renderer.NewRaylibBackend()
	defer backend.Close()

	ocean, err := game.NewOcean(cfg, seed, backend, output)
	if err != nil {
		slog.Error("failed to create ocean", "error", err)
		os.Exit(1)
	}
	ocean.SetStatsLogging(logStats)

	slog.Info("starting simulation", "seed", seed)

	cam := ocean.NewCamera()
	maxDT := float32(cfg.Physics.MaxDT)

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		if dt > maxDT {
			// A stall (window drag, debugger pause) must not turn into one
			// giant integration step.
			dt = maxDT
		}
		ocean.Step(dt)

		rl.UpdateCamera(&cam, rl.CameraOrbital)

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(8, 20, 38, 255))
		ocean.Draw(backend, cam)
		rl.DrawFPS(10, 10)
		rl.EndDrawing()

		if maxTicks > 0 && int(ocean.Tick()) >= maxTicks {
			break
		}
	}
}
