package scene

import (
	"math"

	rmath "pathtracer/math"
)

const minRoughness = 1e-4

// channel is a texture-weighted value: factor * texel(uv) when a texture
// is present, else just factor. It backs Albedo, Emissive, Opacity,
// Metalness and Roughness, which differ only in how many components they
// read out of the texel and whether sRGB decoding applies.
type channel struct {
	Factor  rmath.Vec3
	Texture *Texture
}

func constChannel(v rmath.Vec3) channel { return channel{Factor: v} }

// Material holds the full set of shading inputs a BRDF needs, each
// resolved per UV. Materials are built once at scene load and shared
// read-only across every render worker.
type Material struct {
	Albedo    channel
	Emissive  channel
	Opacity   channel
	Metalness channel
	Roughness channel
	IOR       float32
	NormalMap *Texture
}

// NewMaterial builds a material from bare factors, with no textures —
// convenient for tests and procedurally built scenes.
func NewMaterial(albedo, emissive rmath.Vec3, opacity, metalness, roughness, ior float32) Material {
	return Material{
		Albedo:    constChannel(albedo),
		Emissive:  constChannel(emissive),
		Opacity:   constChannel(rmath.NewVec3(opacity, opacity, opacity)),
		Metalness: constChannel(rmath.NewVec3(metalness, metalness, metalness)),
		Roughness: constChannel(rmath.NewVec3(roughness, roughness, roughness)),
		IOR:       ior,
	}
}

// AlbedoAt computes the linear albedo at uv: texture color converted from
// sRGB to linear (x^2.2), multiplied by the factor.
func (m Material) AlbedoAt(uv rmath.Vec2) rmath.Vec3 {
	if m.Albedo.Texture == nil {
		return m.Albedo.Factor
	}
	r, g, b, _ := m.Albedo.Texture.texel(uv.X, uv.Y)
	linear := rmath.NewVec3(srgbToLinear(r), srgbToLinear(g), srgbToLinear(b))
	return linear.MulVec(m.Albedo.Factor)
}

func (m Material) SimpleAlbedo() rmath.Vec3 { return m.Albedo.Factor }

func (m Material) EmissiveAt(uv rmath.Vec2) rmath.Vec3 {
	if m.Emissive.Texture == nil {
		return m.Emissive.Factor
	}
	r, g, b, _ := m.Emissive.Texture.texel(uv.X, uv.Y)
	linear := rmath.NewVec3(float32(r)/255, float32(g)/255, float32(b)/255)
	return linear.MulVec(m.Emissive.Factor)
}

func (m Material) SimpleEmissive() rmath.Vec3 { return m.Emissive.Factor }

func (m Material) OpacityAt(uv rmath.Vec2) float32 {
	if m.Opacity.Texture == nil {
		return m.Opacity.Factor.X
	}
	r, _, _, _ := m.Opacity.Texture.texel(uv.X, uv.Y)
	return float32(r) / 255 * m.Opacity.Factor.X
}

func (m Material) SimpleOpacity() float32 { return m.Opacity.Factor.X }

func (m Material) MetalnessAt(uv rmath.Vec2) float32 {
	if m.Metalness.Texture == nil {
		return m.Metalness.Factor.X
	}
	r, _, _, _ := m.Metalness.Texture.texel(uv.X, uv.Y)
	return float32(r) / 255 * m.Metalness.Factor.X
}

func (m Material) SimpleMetalness() float32 { return m.Metalness.Factor.X }

// RoughnessAt returns the roughness clamped to minRoughness, so the GGX
// NDF never divides by a near-zero denominator.
func (m Material) RoughnessAt(uv rmath.Vec2) float32 {
	var r float32
	if m.Roughness.Texture == nil {
		r = m.Roughness.Factor.X
	} else {
		px, _, _, _ := m.Roughness.Texture.texel(uv.X, uv.Y)
		r = float32(px) / 255 * m.Roughness.Factor.X
	}
	return clampRoughness(r)
}

func (m Material) SimpleRoughness() float32 {
	return clampRoughness(m.Roughness.Factor.X)
}

func clampRoughness(r float32) float32 {
	if r < minRoughness {
		return minRoughness
	}
	return r
}

// Normal returns the tangent-space bump normal (2*rgb-1) at uv, or false
// if the material has no normal map, in which case the geometric normal
// should be used as-is.
func (m Material) Normal(uv rmath.Vec2) (rmath.Vec3, bool) {
	if m.NormalMap == nil {
		return rmath.Vec3{}, false
	}
	r, g, b, _ := m.NormalMap.texel(uv.X, uv.Y)
	return rmath.NewVec3(float32(r)/127.5-1, float32(g)/127.5-1, float32(b)/127.5-1), true
}

func srgbToLinear(c uint8) float32 {
	return float32(math.Pow(float64(c)/255.0, 2.2))
}

// Sample is the resolved set of shading inputs at one hit point, after
// UV lookup (triangles) or simple-channel lookup (spheres).
type Sample struct {
	Albedo    rmath.Vec3
	Emissive  rmath.Vec3
	Opacity   float32
	Metalness float32
	Roughness float32
}

// SampleMaterial resolves m at hit h: triangle hits sample every channel
// by UV; sphere hits use the constant ("simple") channel value, matching
// spec.md's rule that spheres don't carry texture coordinates.
func SampleMaterial(m Material, h Hit) Sample {
	if h.Kind != HitTriangle {
		return Sample{
			Albedo:    m.SimpleAlbedo(),
			Emissive:  m.SimpleEmissive(),
			Opacity:   m.SimpleOpacity(),
			Metalness: m.SimpleMetalness(),
			Roughness: m.SimpleRoughness(),
		}
	}
	return Sample{
		Albedo:    m.AlbedoAt(h.UV),
		Emissive:  m.EmissiveAt(h.UV),
		Opacity:   m.OpacityAt(h.UV),
		Metalness: m.MetalnessAt(h.UV),
		Roughness: m.RoughnessAt(h.UV),
	}
}
