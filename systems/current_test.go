package systems

import (
	"testing"

	"github.com/pthm-cable/abyss/config"
	"github.com/pthm-cable/abyss/creatures"
)

// quietOcean returns a configuration with everything off, so individual
// force terms can be tested in isolation.
func quietOcean() config.OceanConfig {
	return config.OceanConfig{
		CurrentX:          1,
		TransitionDepth:   20,
		TurbulenceScale:   0.05,
		TurbulenceOctaves: 1,
	}
}

func TestSusceptibilityScaling(t *testing.T) {
	v := newTestEnv(t)
	jelly := v.spawn(t, creatures.Jellyfish, 80, -10, 80)
	shark := v.spawn(t, creatures.Shark, 80, -10, 80)

	cur := NewCurrentSystem(v.cfg.Ocean, 42, v.kin, v.id)
	cur.Update(1.0)

	// Same position, same tick: raw force is identical, so the ratio of
	// accumulated accelerations is exactly the susceptibility ratio.
	ratio := v.kin.AccX[jelly] / v.kin.AccX[shark]
	if absDiff(ratio, 1.5/0.5) > 1e-4 {
		t.Errorf("expected jellyfish/shark force ratio 3.0, got %f", ratio)
	}
}

func TestBottomDwellersSkipped(t *testing.T) {
	v := newTestEnv(t)
	crab := v.spawn(t, creatures.Crab, 80, v.bounds.FloorY(), 80)

	cur := NewCurrentSystem(v.cfg.Ocean, 42, v.kin, v.id)
	cur.Update(1.0)

	if v.kin.AccX[crab] != 0 || v.kin.AccY[crab] != 0 || v.kin.AccZ[crab] != 0 {
		t.Errorf("bottom dweller received current force: (%f, %f, %f)",
			v.kin.AccX[crab], v.kin.AccY[crab], v.kin.AccZ[crab])
	}
}

func TestDepthScaledCurrent(t *testing.T) {
	v := newTestEnv(t)
	cfg := quietOcean()
	cfg.SurfaceStrength = 1.0
	cfg.DeepStrength = 0.2

	cur := NewCurrentSystem(cfg, 42, v.kin, v.id)

	fxShallow, _, _ := cur.forceAt(100, -5, 100, 0)
	fxDeep, _, _ := cur.forceAt(100, -50, 100, 0)
	fxMid, _, _ := cur.forceAt(100, -30, 100, 0)

	if absDiff(fxShallow, 1.0) > 1e-5 {
		t.Errorf("above transition depth: expected full strength, got %f", fxShallow)
	}
	if absDiff(fxDeep, 0.2) > 1e-5 {
		t.Errorf("below 2x transition depth: expected deep strength, got %f", fxDeep)
	}
	// Halfway through the blend band: linear interpolation midpoint.
	if absDiff(fxMid, 0.6) > 1e-5 {
		t.Errorf("mid-blend: expected 0.6, got %f", fxMid)
	}
}

func TestUpwellingAttenuation(t *testing.T) {
	v := newTestEnv(t)
	cfg := quietOcean()
	cfg.SurfaceStrength = 0
	cfg.DeepStrength = 0
	cfg.Upwellings = []config.UpwellingConfig{{X: 100, Z: 100, Radius: 10, Strength: 2.0}}

	cur := NewCurrentSystem(cfg, 42, v.kin, v.id)

	// At the center: full upward force, no horizontal pull.
	fx, fy, _ := cur.forceAt(100, -30, 100, 0)
	if absDiff(fy, 2.0) > 1e-5 {
		t.Errorf("center upwelling: expected 2.0, got %f", fy)
	}
	if fx != 0 {
		t.Errorf("center upwelling: expected no horizontal pull, got %f", fx)
	}

	// Halfway out: linearly attenuated, pulled back toward the center.
	fx, fy, _ = cur.forceAt(105, -30, 100, 0)
	if absDiff(fy, 1.0) > 1e-5 {
		t.Errorf("half-radius upwelling: expected 1.0, got %f", fy)
	}
	if fx >= 0 {
		t.Errorf("expected inward pull (negative x), got %f", fx)
	}

	// Beyond the cutoff radius: exactly zero.
	fx, fy, fz := cur.forceAt(115, -30, 100, 0)
	if fx != 0 || fy != 0 || fz != 0 {
		t.Errorf("beyond radius: expected zero force, got (%f, %f, %f)", fx, fy, fz)
	}
}

func TestTurbulenceEvolvesOverTime(t *testing.T) {
	v := newTestEnv(t)
	cfg := quietOcean()
	cfg.TurbulenceStrength = 1.0
	cfg.TurbulenceFrequency = 0.5
	cfg.TurbulenceOctaves = 3

	cur := NewCurrentSystem(cfg, 42, v.kin, v.id)

	fx0, fy0, fz0 := cur.forceAt(50, -25, 50, 0)
	fx1, fy1, fz1 := cur.forceAt(50, -25, 50, 60)

	if fx0 == fx1 && fy0 == fy1 && fz0 == fz1 {
		t.Error("turbulence did not evolve with elapsed time")
	}

	// Determinism: same position and time always gives the same force.
	fx2, fy2, fz2 := cur.forceAt(50, -25, 50, 0)
	if fx0 != fx2 || fy0 != fy2 || fz0 != fz2 {
		t.Error("turbulence not deterministic for equal inputs")
	}
}

func TestCurrentFactorOverride(t *testing.T) {
	v := newTestEnv(t)
	cfg := quietOcean()
	cfg.SurfaceStrength = 1.0
	cfg.DeepStrength = 1.0
	cfg.CurrentFactors = map[string]float64{"turtle": 0.0}

	turtle := v.spawn(t, creatures.Turtle, 80, -10, 80)

	cur := NewCurrentSystem(cfg, 42, v.kin, v.id)
	cur.Update(0)

	if v.kin.AccX[turtle] != 0 {
		t.Errorf("override to zero ignored: acc.x=%f", v.kin.AccX[turtle])
	}
}
