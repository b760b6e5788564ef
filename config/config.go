// Package config provides configuration loading for the simulation.
// Defaults are embedded; a user file overlays them. The loaded Config is
// injected into systems at construction rather than exposed as a global,
// so parallel instances can run with different ocean conditions.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Ocean      OceanConfig      `yaml:"ocean"`
	Hunting    HuntingConfig    `yaml:"hunting"`
	Flocking   FlockingConfig   `yaml:"flocking"`
	Render     RenderConfig     `yaml:"render"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the ocean volume dimensions. The volume spans
// x in [0, width], z in [0, length], y in [-depth, 0] with the surface at 0.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Length float64 `yaml:"length"`
	Depth  float64 `yaml:"depth"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	Drag         float64 `yaml:"drag"`           // per-tick multiplicative velocity damping
	MaxDT        float64 `yaml:"max_dt"`         // frame delta clamp, seconds
	GridCellSize float64 `yaml:"grid_cell_size"` // spatial hash cell size
}

// UpwellingConfig places one localized upwelling column on the sea floor.
type UpwellingConfig struct {
	X        float64 `yaml:"x"`
	Z        float64 `yaml:"z"`
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
}

// OceanConfig holds the ambient current and turbulence parameters.
type OceanConfig struct {
	CurrentX        float64 `yaml:"current_x"` // main current direction (normalized at load)
	CurrentY        float64 `yaml:"current_y"`
	CurrentZ        float64 `yaml:"current_z"`
	SurfaceStrength float64 `yaml:"surface_strength"` // current strength above the transition depth
	DeepStrength    float64 `yaml:"deep_strength"`    // current strength at 2x transition depth and below
	TransitionDepth float64 `yaml:"transition_depth"`

	TurbulenceScale     float64 `yaml:"turbulence_scale"`     // spatial noise frequency
	TurbulenceStrength  float64 `yaml:"turbulence_strength"`  // force magnitude
	TurbulenceFrequency float64 `yaml:"turbulence_frequency"` // time evolution rate
	TurbulenceOctaves   int     `yaml:"turbulence_octaves"`

	Upwellings []UpwellingConfig `yaml:"upwellings"`

	// Optional per-kind overrides of the profile current factors,
	// keyed by kind name ("jellyfish", "ray", ...).
	CurrentFactors map[string]float64 `yaml:"current_factors"`
}

// HuntingConfig holds the predator/prey state machine tunables.
type HuntingConfig struct {
	AcquireRadius     float64 `yaml:"acquire_radius"`     // idle -> pursuing detection range
	SenseRange        float64 `yaml:"sense_range"`        // default visibility rule range
	StrikeRadius      float64 `yaml:"strike_radius"`      // pursuing -> attacking range
	ContactRadius     float64 `yaml:"contact_radius"`     // attack connects inside this
	ForgetTime        float64 `yaml:"forget_time"`        // seconds before a lost target is dropped
	FearRadius        float64 `yaml:"fear_radius"`        // prey flees predators inside this
	PursuitMultiplier float64 `yaml:"pursuit_multiplier"` // over cruise speed while pursuing
	FleeMultiplier    float64 `yaml:"flee_multiplier"`    // over cruise speed while fleeing
	SteerGain         float64 `yaml:"steer_gain"`         // pursuit acceleration gain
}

// FlockingConfig holds the schooling steering weights.
type FlockingConfig struct {
	ProtectedRange float64 `yaml:"protected_range"` // separation kicks in inside this
	VisionRange    float64 `yaml:"vision_range"`    // cohesion/alignment neighborhood
	Separation     float64 `yaml:"separation"`
	Alignment      float64 `yaml:"alignment"`
	Cohesion       float64 `yaml:"cohesion"`
	MaxSteer       float64 `yaml:"max_steer"` // steering acceleration clamp
}

// RenderConfig holds dispatch and orientation-smoothing parameters.
type RenderConfig struct {
	InstancePoolCapacity int     `yaml:"instance_pool_capacity"`
	VelocityWindow       int     `yaml:"velocity_window"`   // ring buffer samples for smoothing
	PitchLimitDeg        float64 `yaml:"pitch_limit_deg"`   // orientation pitch clamp
	RollLimitDeg         float64 `yaml:"roll_limit_deg"`    // banking clamp
	RollGain             float64 `yaml:"roll_gain"`         // roll per unit yaw rate
	SmoothRate           float64 `yaml:"smooth_rate"`       // slerp rate per second
	ReportInterval       float64 `yaml:"report_interval"`   // seconds between pool-exhaustion reports
}

// PopulationConfig holds entity capacity and the initial census.
type PopulationConfig struct {
	Capacity   int            `yaml:"capacity"`
	Initial    map[string]int `yaml:"initial"`     // kind name -> count
	SchoolSize int            `yaml:"school_size"` // spawn group size for schooling kinds
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	LogInterval float64 `yaml:"log_interval"` // seconds between world-state logs
}

// Load parses the embedded defaults and overlays the optional user file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Population.Capacity <= 0 {
		return fmt.Errorf("population.capacity must be positive, got %d", c.Population.Capacity)
	}
	if c.Render.InstancePoolCapacity <= 0 {
		return fmt.Errorf("render.instance_pool_capacity must be positive, got %d", c.Render.InstancePoolCapacity)
	}
	if c.Physics.Drag <= 0 || c.Physics.Drag > 1 {
		return fmt.Errorf("physics.drag must be in (0, 1], got %f", c.Physics.Drag)
	}
	if c.World.Width <= 0 || c.World.Length <= 0 || c.World.Depth <= 0 {
		return fmt.Errorf("world dimensions must be positive")
	}
	if c.Ocean.TransitionDepth <= 0 {
		return fmt.Errorf("ocean.transition_depth must be positive, got %f", c.Ocean.TransitionDepth)
	}
	if c.Ocean.TurbulenceOctaves < 1 {
		return fmt.Errorf("ocean.turbulence_octaves must be at least 1, got %d", c.Ocean.TurbulenceOctaves)
	}
	if c.Render.VelocityWindow < 1 {
		return fmt.Errorf("render.velocity_window must be at least 1, got %d", c.Render.VelocityWindow)
	}
	if c.Hunting.ForgetTime <= 0 {
		return fmt.Errorf("hunting.forget_time must be positive, got %f", c.Hunting.ForgetTime)
	}
	for name := range c.Population.Initial {
		if !validKindName(name) {
			return fmt.Errorf("population.initial: unknown kind %q", name)
		}
	}
	for name := range c.Ocean.CurrentFactors {
		if !validKindName(name) {
			return fmt.Errorf("ocean.current_factors: unknown kind %q", name)
		}
	}
	return nil
}

func validKindName(name string) bool {
	switch name {
	case "fish", "shark", "dolphin", "jellyfish", "ray",
		"turtle", "crab", "starfish", "urchin", "whale":
		return true
	}
	return false
}

// WriteYAML saves the effective configuration for experiment provenance.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
