package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/abyss/creatures"
	"github.com/pthm-cable/abyss/renderer"
)

// NewCamera positions a perspective camera looking into the volume center
// from above the near corner.
func (o *Ocean) NewCamera() rl.Camera3D {
	return rl.Camera3D{
		Position: rl.NewVector3(
			-o.bounds.Width*0.3,
			o.bounds.Depth*0.2,
			-o.bounds.Length*0.3,
		),
		Target: rl.NewVector3(
			o.bounds.Width*0.5,
			-o.bounds.Depth*0.4,
			o.bounds.Length*0.5,
		),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       55,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders one frame: the volume bounds, the sea floor, the instanced
// fish batch, and every individually dispatched creature. Must run between
// BeginDrawing/EndDrawing on the GL thread.
func (o *Ocean) Draw(backend *renderer.RaylibBackend, cam rl.Camera3D) {
	if o.dispatcher == nil {
		return
	}

	rl.BeginMode3D(cam)

	center := rl.NewVector3(o.bounds.Width/2, -o.bounds.Depth/2, o.bounds.Length/2)
	rl.DrawCubeWires(center, o.bounds.Width, o.bounds.Depth, o.bounds.Length, rl.NewColor(60, 120, 160, 120))
	rl.DrawPlane(
		rl.NewVector3(o.bounds.Width/2, o.bounds.FloorY(), o.bounds.Length/2),
		rl.NewVector2(o.bounds.Width, o.bounds.Length),
		rl.NewColor(40, 50, 45, 255),
	)

	fish := creatures.PaletteColor(creatures.Fish, 0)
	tint := rl.NewColor(uint8(fish.R*255), uint8(fish.G*255), uint8(fish.B*255), uint8(fish.A*255))
	backend.DrawInstanced(o.dispatcher.InstanceBatch(), tint)

	for _, d := range o.dispatcher.Individuals() {
		backend.DrawIndividual(d)
	}

	rl.EndMode3D()

	o.perf.RecordFrame()
}
