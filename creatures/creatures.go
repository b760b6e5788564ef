// Package creatures defines the closed set of creature kinds, their
// behavioral profiles, and the geometry/material providers that turn a
// (kind, variant) pair into a renderable mesh description.
package creatures

// Kind discriminates creature species groups.
type Kind uint8

const (
	Fish Kind = iota
	Shark
	Dolphin
	Jellyfish
	Ray
	Turtle
	Crab
	Starfish
	Urchin
	Whale

	kindCount
)

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

var kindNames = [...]string{
	"fish", "shark", "dolphin", "jellyfish", "ray",
	"turtle", "crab", "starfish", "urchin", "whale",
}

// KindByName resolves a config name to a kind.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Profile describes the fixed capabilities of a kind. The set is closed:
// every kind owns exactly one profile, looked up in O(1).
type Profile struct {
	Name          string
	CurrentFactor float32 // susceptibility to ambient currents
	BottomDweller bool    // pinned to the sea floor, skipped by current forces
	Schooling     bool    // participates in flocking
	Predator      bool    // runs the hunting state machine
	Instanced     bool    // rendered through the GPU instance pool
	CruiseSpeed   float32 // unhurried swim speed, m/s
	MaxSpeed      float32 // hard velocity clamp, m/s
	BaseScale     float32 // world-space body scale at variant 0
	VariantCount  int     // species sub-variants per kind
}

var profiles = [kindCount]Profile{
	Fish:      {Name: "fish", CurrentFactor: 1.0, Schooling: true, Instanced: true, CruiseSpeed: 2.0, MaxSpeed: 5.0, BaseScale: 0.4, VariantCount: 6},
	Shark:     {Name: "shark", CurrentFactor: 0.5, Predator: true, CruiseSpeed: 3.0, MaxSpeed: 7.5, BaseScale: 2.8, VariantCount: 2},
	Dolphin:   {Name: "dolphin", CurrentFactor: 0.5, Predator: true, CruiseSpeed: 3.5, MaxSpeed: 8.0, BaseScale: 2.2, VariantCount: 2},
	Jellyfish: {Name: "jellyfish", CurrentFactor: 1.5, CruiseSpeed: 0.3, MaxSpeed: 1.5, BaseScale: 0.7, VariantCount: 3},
	Ray:       {Name: "ray", CurrentFactor: 0.3, CruiseSpeed: 1.2, MaxSpeed: 3.0, BaseScale: 1.6, VariantCount: 2},
	Turtle:    {Name: "turtle", CurrentFactor: 1.0, CruiseSpeed: 1.0, MaxSpeed: 2.5, BaseScale: 1.2, VariantCount: 2},
	Crab:      {Name: "crab", BottomDweller: true, CruiseSpeed: 0.2, MaxSpeed: 0.5, BaseScale: 0.3, VariantCount: 2},
	Starfish:  {Name: "starfish", BottomDweller: true, CruiseSpeed: 0.05, MaxSpeed: 0.1, BaseScale: 0.3, VariantCount: 3},
	Urchin:    {Name: "urchin", BottomDweller: true, CruiseSpeed: 0.02, MaxSpeed: 0.05, BaseScale: 0.2, VariantCount: 2},
	Whale:     {Name: "whale", CurrentFactor: 1.0, CruiseSpeed: 2.0, MaxSpeed: 4.0, BaseScale: 8.0, VariantCount: 1},
}

// Profile returns the kind's capability profile.
func (k Kind) Profile() *Profile {
	return &profiles[k]
}

// PreysOn reports whether a predator kind hunts the given kind.
// Sharks and dolphins both hunt ordinary fish; nothing else is prey.
func (k Kind) PreysOn(other Kind) bool {
	return profiles[k].Predator && other == Fish
}

// Color is an RGBA tint in [0,1] supplied to the material provider.
type Color struct {
	R, G, B, A float32
}

var palettes = [kindCount][]Color{
	Fish: {
		{0.95, 0.55, 0.20, 1}, {0.30, 0.60, 0.95, 1}, {0.90, 0.85, 0.30, 1},
		{0.60, 0.90, 0.70, 1}, {0.85, 0.35, 0.45, 1}, {0.55, 0.45, 0.90, 1},
	},
	Shark:     {{0.45, 0.50, 0.55, 1}, {0.35, 0.40, 0.48, 1}},
	Dolphin:   {{0.55, 0.62, 0.70, 1}, {0.62, 0.68, 0.75, 1}},
	Jellyfish: {{0.80, 0.50, 0.90, 0.55}, {0.50, 0.80, 0.95, 0.55}, {0.95, 0.65, 0.75, 0.55}},
	Ray:       {{0.40, 0.38, 0.35, 1}, {0.30, 0.32, 0.38, 1}},
	Turtle:    {{0.35, 0.55, 0.35, 1}, {0.45, 0.50, 0.30, 1}},
	Crab:      {{0.85, 0.35, 0.25, 1}, {0.75, 0.45, 0.30, 1}},
	Starfish:  {{0.95, 0.45, 0.30, 1}, {0.85, 0.30, 0.55, 1}, {0.90, 0.70, 0.25, 1}},
	Urchin:    {{0.20, 0.15, 0.25, 1}, {0.35, 0.15, 0.20, 1}},
	Whale:     {{0.30, 0.35, 0.45, 1}},
}

// PaletteColor returns the material tint for a (kind, variant) pair.
// Out-of-range variants wrap so spawning code never has to care.
func PaletteColor(kind Kind, variant uint8) Color {
	p := palettes[kind]
	return p[int(variant)%len(p)]
}
