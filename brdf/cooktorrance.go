// Package brdf implements the microfacet bidirectional reflectance
// distribution function used to both evaluate and importance-sample
// surface scattering during path construction.
package brdf

import (
	"math"
	"math/rand"

	rmath "pathtracer/math"
)

// CookTorrance is a Cook-Torrance specular plus Lambertian diffuse BRDF,
// parameterized once per shading point from the resolved material
// sample. Construct one per hit point.
type CookTorrance struct {
	Albedo    rmath.Vec3
	Emissive  rmath.Vec3
	Metalness float32
	Roughness float32
	f0        rmath.Vec3
}

// New builds a CookTorrance BRDF from a resolved material sample.
// F0, the reflectance at normal incidence, interpolates between the
// 0.04 dielectric baseline and the albedo itself as metalness rises.
func New(albedo, emissive rmath.Vec3, metalness, roughness float32) *CookTorrance {
	dielectric := rmath.NewVec3(0.04, 0.04, 0.04)
	f0 := dielectric.Mul(1 - metalness).Add(albedo.Mul(metalness))
	return &CookTorrance{
		Albedo:    albedo,
		Emissive:  emissive,
		Metalness: metalness,
		Roughness: roughness,
		f0:        f0,
	}
}

// Sample draws an outgoing direction by importance-sampling the GGX
// microfacet normal around the shading normal n, then reflecting the
// view direction v about it.
func (c *CookTorrance) Sample(n, v rmath.Vec3, rng *rand.Rand) rmath.Vec3 {
	wm := c.sampleMicrofacetNormal(n, rng)
	return rmath.Reflect(v, wm).Normalize()
}

// EvalDirect evaluates the full BRDF term for a light arriving directly
// from l (next-event estimation), returning diffuse + specular + emissive.
func (c *CookTorrance) EvalDirect(n, v, l rmath.Vec3) rmath.Vec3 {
	return c.eval(n, v, l)
}

// EvalIndirect evaluates the same full term as EvalDirect for a direction
// sampled from Sample. No GGX pdf cancellation is applied to the
// returned value.
func (c *CookTorrance) EvalIndirect(n, v, l rmath.Vec3) rmath.Vec3 {
	return c.eval(n, v, l)
}

// Pdf is identically 1, so dividing EvalIndirect's result by it leaves
// that result unchanged.
func (c *CookTorrance) Pdf() float32 {
	return 1
}

func (c *CookTorrance) eval(n, v, l rmath.Vec3) rmath.Vec3 {
	h := v.Add(l).Normalize()
	d := c.distributionGGX(n, h)
	f := c.fresnelSchlick(maxf(h.Dot(v), 0))
	g := c.geometrySmith(n, v, l)

	nDotV := maxf(n.Dot(v), 0)
	nDotL := maxf(n.Dot(l), 0)
	specular := f.Mul(d * g / maxf(4*nDotV*nDotL, 1e-4)).Mul(nDotL)

	diffuse := c.diffuse(f, nDotL)

	return diffuse.Add(specular).Add(c.Emissive)
}

// diffuse is the Lambert term: kd = (1-F)*(1-metalness), scaled by
// albedo/pi and the light cosine.
func (c *CookTorrance) diffuse(f rmath.Vec3, nDotL float32) rmath.Vec3 {
	kd := rmath.NewVec3(1-f.X, 1-f.Y, 1-f.Z).Mul(1 - c.Metalness)
	return kd.MulVec(c.Albedo).Mul(nDotL / math.Pi)
}

func (c *CookTorrance) fresnelSchlick(cosTheta float32) rmath.Vec3 {
	inv := rmath.NewVec3(1-c.f0.X, 1-c.f0.Y, 1-c.f0.Z)
	return c.f0.Add(inv.Mul(pow5(1 - cosTheta)))
}

func (c *CookTorrance) geometrySmith(n, v, l rmath.Vec3) float32 {
	a := c.Roughness
	k := (a + 1) * (a + 1) / 8
	nDotV := maxf(n.Dot(v), 0)
	nDotL := maxf(n.Dot(l), 0)
	return geometrySchlickGGX(nDotV, k) * geometrySchlickGGX(nDotL, k)
}

func geometrySchlickGGX(nDotX, k float32) float32 {
	return nDotX / (nDotX*(1-k) + k)
}

func (c *CookTorrance) distributionGGX(n, h rmath.Vec3) float32 {
	a := c.Roughness * c.Roughness
	a2 := a * a
	nDotH := maxf(n.Dot(h), 0)
	nDotH2 := nDotH * nDotH

	denom := nDotH2*(a2-1) + 1
	denom = float32(math.Pi) * denom * denom
	return a2 / denom
}

// sampleMicrofacetNormal draws theta/phi from the GGX importance-sampling
// distribution in a local frame (z-up) and rotates it into world space
// around n.
func (c *CookTorrance) sampleMicrofacetNormal(n rmath.Vec3, rng *rand.Rand) rmath.Vec3 {
	a := c.Roughness * c.Roughness
	a2 := a * a
	r1 := rng.Float32()
	r2 := rng.Float32()

	theta := float32(math.Acos(math.Sqrt(float64((1 - r1) / (r1*(a2-1) + 1)))))
	phi := 2 * float32(math.Pi) * r2

	sinTheta := float32(math.Sin(float64(theta)))
	cosTheta := float32(math.Cos(float64(theta)))
	local := rmath.NewVec3(
		sinTheta*float32(math.Cos(float64(phi))),
		sinTheta*float32(math.Sin(float64(phi))),
		cosTheta,
	)

	t, b := rmath.TangentFrame(n)
	return rmath.ToWorld(local, t, b, n).Normalize()
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}
