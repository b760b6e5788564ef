package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/abyss/config"
)

// OrientationParams holds the shared smoothing tunables, derived once from
// the render configuration and referenced by every per-entity Orientation.
type OrientationParams struct {
	Window     int     // velocity ring buffer length
	PitchLimit float32 // radians
	RollLimit  float32 // radians
	RollGain   float32 // roll per unit yaw rate
	SmoothRate float32 // slerp rate per second
}

// NewOrientationParams converts the render config into radians.
func NewOrientationParams(cfg config.RenderConfig) OrientationParams {
	return OrientationParams{
		Window:     cfg.VelocityWindow,
		PitchLimit: float32(cfg.PitchLimitDeg * math.Pi / 180),
		RollLimit:  float32(cfg.RollLimitDeg * math.Pi / 180),
		RollGain:   float32(cfg.RollGain),
		SmoothRate: float32(cfg.SmoothRate),
	}
}

// Orientation smooths one entity's facing over time. Velocity samples go
// into a fixed-size ring buffer; the moving average drives yaw, a clamped
// pitch, and a banking roll proportional to the yaw rate, blended by
// quaternion slerp so the mesh never snaps. It also carries the swimming
// animation parameters derived from current speed.
type Orientation struct {
	params *OrientationParams

	ring  []rl.Vector3
	head  int
	count int

	quat    rl.Quaternion
	lastYaw float32
	hasYaw  bool

	Phase       float32 // swimming phase, radians, monotonically advancing
	SpeedFactor float32 // current speed / kind max, in [0,1]
}

// NewOrientation creates the smoothing state for one entity.
func NewOrientation(params *OrientationParams) *Orientation {
	return &Orientation{
		params: params,
		ring:   make([]rl.Vector3, params.Window),
		quat:   rl.QuaternionIdentity(),
	}
}

// Quaternion returns the current smoothed orientation.
func (o *Orientation) Quaternion() rl.Quaternion { return o.quat }

// Update pushes a velocity sample and advances the smoothed orientation
// and animation parameters by dt seconds.
func (o *Orientation) Update(vel rl.Vector3, dt, maxSpeed float32) {
	o.ring[o.head] = vel
	o.head = (o.head + 1) % len(o.ring)
	if o.count < len(o.ring) {
		o.count++
	}

	var avg rl.Vector3
	for i := 0; i < o.count; i++ {
		avg = rl.Vector3Add(avg, o.ring[i])
	}
	avg = rl.Vector3Scale(avg, 1/float32(o.count))

	// Animation follows the instantaneous speed, not the smoothed one,
	// so a burst of acceleration reads immediately in the tail beat.
	speed := rl.Vector3Length(vel)
	if maxSpeed > 0 {
		o.SpeedFactor = clampf(speed/maxSpeed, 0, 1)
	}
	o.Phase += (1.5 + 6.0*o.SpeedFactor) * dt

	avgSpeed := rl.Vector3Length(avg)
	if avgSpeed < 1e-4 {
		return // keep the last orientation while hovering
	}

	yaw := float32(math.Atan2(float64(avg.X), float64(avg.Z)))
	horiz := float32(math.Sqrt(float64(avg.X*avg.X + avg.Z*avg.Z)))
	pitch := clampf(float32(-math.Atan2(float64(avg.Y), float64(horiz))),
		-o.params.PitchLimit, o.params.PitchLimit)

	var roll float32
	if o.hasYaw && dt > 0 {
		yawRate := wrapAngle(yaw-o.lastYaw) / dt
		roll = clampf(-yawRate*o.params.RollGain, -o.params.RollLimit, o.params.RollLimit)
	}
	o.lastYaw = yaw
	o.hasYaw = true

	target := rl.QuaternionFromEuler(pitch, yaw, roll)
	o.quat = rl.QuaternionSlerp(o.quat, target, clampf(o.params.SmoothRate*dt, 0, 1))
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapAngle maps an angle delta to [-pi, pi].
func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
