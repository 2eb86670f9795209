// Package profile loads the render profile: resolution, sample and
// bounce counts, BRDF/tonemap selection, and the fallback background
// color used when a camera ray escapes the scene.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	rmath "pathtracer/math"
)

// BRDF selects the surface scattering model. CookTorrance is the only
// supported variant today; the field exists so a profile document can
// name its choice explicitly and so a future variant has somewhere to
// plug in.
type BRDF string

const (
	CookTorrance BRDF = "CookTorrance"
)

// Tonemap selects the HDR-to-display mapping applied after sample
// accumulation.
type Tonemap string

const (
	Reinhard Tonemap = "Reinhard"
	Filmic   Tonemap = "Filmic"
	Aces     Tonemap = "Aces"
)

// Resolution is the output image size in pixels.
type Resolution struct {
	W int `yaml:"width"`
	H int `yaml:"height"`
}

// Profile carries every tunable the sampler and integrator need, with
// defaults applied for anything a document leaves unset.
type Profile struct {
	Resolution Resolution `yaml:"resolution"`
	Samples    int        `yaml:"samples"`
	Bounces    int        `yaml:"bounces"`
	BRDF       BRDF       `yaml:"brdf"`
	Tonemap    Tonemap    `yaml:"tonemap"`
	Background [3]float32 `yaml:"background"`
}

// Default returns the profile spec.md names when no document is given:
// 800x800, 16 samples, 2 bounces, Cook-Torrance BRDF, Filmic tonemap,
// black background.
func Default() Profile {
	return Profile{
		Resolution: Resolution{W: 800, H: 800},
		Samples:    16,
		Bounces:    2,
		BRDF:       CookTorrance,
		Tonemap:    Filmic,
		Background: [3]float32{0, 0, 0},
	}
}

// Load reads a YAML profile document from path, filling any field left
// absent from the document with Default()'s value.
func Load(path string) (Profile, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile %q: %w", path, err)
	}

	var doc rawProfile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return p, fmt.Errorf("parse profile %q: %w", path, err)
	}
	doc.applyTo(&p)
	return p, nil
}

// rawProfile mirrors Profile but with pointer/zero-value fields so Load
// can tell "absent from the document" apart from "explicitly zero".
type rawProfile struct {
	Resolution *Resolution `yaml:"resolution"`
	Samples    *int        `yaml:"samples"`
	Bounces    *int        `yaml:"bounces"`
	BRDF       *BRDF       `yaml:"brdf"`
	Tonemap    *Tonemap    `yaml:"tonemap"`
	Background *[3]float32 `yaml:"background"`
}

func (r rawProfile) applyTo(p *Profile) {
	if r.Resolution != nil {
		p.Resolution = *r.Resolution
	}
	if r.Samples != nil {
		p.Samples = *r.Samples
	}
	if r.Bounces != nil {
		p.Bounces = *r.Bounces
	}
	if r.BRDF != nil {
		p.BRDF = *r.BRDF
	}
	if r.Tonemap != nil {
		p.Tonemap = *r.Tonemap
	}
	if r.Background != nil {
		p.Background = *r.Background
	}
}

// BackgroundVec3 converts the profile's raw [3]float32 background into a
// math.Vec3, for components that operate in the engine's vector type.
func (p Profile) BackgroundVec3() rmath.Vec3 {
	return rmath.NewVec3(p.Background[0], p.Background[1], p.Background[2])
}
