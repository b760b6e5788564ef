package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/abyss/components"
	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/creatures"
	"github.com/pthm-cable/abyss/ecs"
)

// CurrentSystem accumulates ambient ocean forces into Acceleration:
// a depth-scaled main current, slowly evolving turbulence eddies, and
// localized upwelling columns. The combined force is scaled by each kind's
// current susceptibility; bottom dwellers are skipped outright.
// It never touches Velocity or Position.
type CurrentSystem struct {
	cfg   config.OceanConfig
	noise opensimplex.Noise
	kin   *components.Kinematics
	id    *components.Identity
	query *ecs.Query

	dirX, dirY, dirZ float32
	factors          [10]float32 // per-kind current factor, overrides applied
}

// NewCurrentSystem creates the environmental force system. The ocean
// configuration is injected here, not read from globals, so tests and
// parallel instances can run different conditions.
func NewCurrentSystem(cfg config.OceanConfig, seed int64, kin *components.Kinematics, id *components.Identity) *CurrentSystem {
	s := &CurrentSystem{
		cfg:   cfg,
		noise: opensimplex.New(seed),
		kin:   kin,
		id:    id,
		query: ecs.NewQuery(kin.Set, id.Set),
	}

	dx, dy, dz := float32(cfg.CurrentX), float32(cfg.CurrentY), float32(cfg.CurrentZ)
	if mag := sqrt32(dx*dx + dy*dy + dz*dz); mag > 1e-6 {
		dx, dy, dz = dx/mag, dy/mag, dz/mag
	}
	s.dirX, s.dirY, s.dirZ = dx, dy, dz

	for _, k := range creatures.Kinds() {
		s.factors[k] = k.Profile().CurrentFactor
	}
	for name, f := range cfg.CurrentFactors {
		if k, ok := creatures.KindByName(name); ok {
			s.factors[k] = float32(f)
		}
	}
	return s
}

// Update accumulates forces for every susceptible entity. elapsed is the
// total simulation time in seconds, driving turbulence evolution.
func (s *CurrentSystem) Update(elapsed float64) {
	for _, e := range s.query.Entities() {
		kind := s.id.Kind[e]
		if kind.Profile().BottomDweller {
			continue
		}

		fx, fy, fz := s.forceAt(s.kin.PosX[e], s.kin.PosY[e], s.kin.PosZ[e], elapsed)
		factor := s.factors[kind]
		s.kin.AccX[e] += fx * factor
		s.kin.AccY[e] += fy * factor
		s.kin.AccZ[e] += fz * factor
	}
}

// forceAt computes the raw (unscaled) ambient force at a world position.
func (s *CurrentSystem) forceAt(x, y, z float32, elapsed float64) (fx, fy, fz float32) {
	// Main current, stronger near the surface. Full surface strength above
	// the transition depth, blending linearly down to the deep strength by
	// twice the transition depth.
	depth := -y
	transition := float32(s.cfg.TransitionDepth)
	var strength float32
	switch {
	case depth <= transition:
		strength = float32(s.cfg.SurfaceStrength)
	case depth >= 2*transition:
		strength = float32(s.cfg.DeepStrength)
	default:
		t := (depth - transition) / transition
		strength = lerp32(float32(s.cfg.SurfaceStrength), float32(s.cfg.DeepStrength), t)
	}
	fx = s.dirX * strength
	fy = s.dirY * strength
	fz = s.dirZ * strength

	// Multi-octave turbulence, sampled per axis with fixed offsets so the
	// three force components decorrelate. Time is the fourth noise axis.
	t := elapsed * s.cfg.TurbulenceFrequency
	scale := s.cfg.TurbulenceScale
	var nx, ny, nz, norm float64
	amp, freq := 1.0, 1.0
	for o := 0; o < s.cfg.TurbulenceOctaves; o++ {
		px := float64(x) * scale * freq
		py := float64(y) * scale * freq
		pz := float64(z) * scale * freq
		nx += s.noise.Eval4(px, py, pz, t) * amp
		ny += s.noise.Eval4(px+31.4, py+47.2, pz+12.9, t) * amp
		nz += s.noise.Eval4(px-17.3, py+88.1, pz+54.7, t) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	turb := float32(s.cfg.TurbulenceStrength)
	fx += float32(nx/norm) * turb
	fy += float32(ny/norm) * turb
	fz += float32(nz/norm) * turb

	// Upwelling columns: an upward push plus a mild horizontal pull toward
	// the column center, both fading linearly to zero at the cutoff radius.
	for _, u := range s.cfg.Upwellings {
		dx := x - float32(u.X)
		dz := z - float32(u.Z)
		d := sqrt32(dx*dx + dz*dz)
		radius := float32(u.Radius)
		if d >= radius {
			continue
		}
		atten := 1 - d/radius
		up := float32(u.Strength)
		fy += up * atten
		if d > 1e-4 {
			pull := up * 0.3 * atten / d
			fx -= dx * pull
			fz -= dz * pull
		}
	}

	return fx, fy, fz
}
