package game

import (
	"github.com/pthm-cable/abyss/telemetry"
)

// Step advances the simulation by dt seconds. The system order is fixed:
// the spatial grid is rebuilt first so every behavior system queries a
// consistent snapshot, forces accumulate before integration, and render
// dispatch runs after positions settle. Kills collected by the hunting
// pass are despawned at the end so no system observes a half-removed
// entity mid-iteration.
func (o *Ocean) Step(dt float32) {
	o.perf.StartTick()

	o.perf.StartPhase(telemetry.PhaseSpatialGrid)
	o.gridSys.Update()

	o.perf.StartPhase(telemetry.PhaseCurrent)
	o.current.Update(o.elapsed)

	o.perf.StartPhase(telemetry.PhaseFlocking)
	o.flocking.Update()

	o.perf.StartPhase(telemetry.PhaseHunting)
	o.hunting.Update(dt)

	o.perf.StartPhase(telemetry.PhaseMovement)
	o.movement.Update(dt)

	if o.dispatcher != nil {
		o.perf.StartPhase(telemetry.PhaseRender)
		o.dispatcher.Update(dt, o.elapsed)
	}

	o.perf.StartPhase(telemetry.PhaseTelemetry)
	for _, e := range o.hunting.Kills() {
		if o.world.Alive(e) {
			o.collector.RecordDespawn(o.id.Kind[e])
			o.collector.RecordKill()
			o.world.Despawn(e)
		}
	}
	o.updateTelemetry()

	o.perf.EndTick()

	o.tick++
	o.elapsed += float64(dt)
}
