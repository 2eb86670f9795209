package brdf_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"pathtracer/brdf"
	rmath "pathtracer/math"
)

// TestEvalDirectNonNegative checks that the full BRDF term never goes
// negative for any valid light/view configuration above the hemisphere,
// across a spread of roughness and metalness values.
func TestEvalDirectNonNegative(t *testing.T) {
	n := rmath.NewVec3(0, 0, 1)
	v := rmath.NewVec3(0, 0.3, 1).Normalize()
	rng := rand.New(rand.NewSource(7))

	for _, rough := range []float32{0.05, 0.3, 0.6, 1} {
		for _, metal := range []float32{0, 0.5, 1} {
			b := brdf.New(rmath.NewVec3(0.5, 0.5, 0.5), rmath.Vec3Zero, metal, rough)
			for i := 0; i < 64; i++ {
				l := rmath.NewVec3(rng.Float32()-0.5, rng.Float32()-0.5, rng.Float32()).Normalize()
				if n.Dot(l) <= 0 {
					continue
				}
				c := b.EvalDirect(n, v, l)
				assert.GreaterOrEqual(t, c.X, float32(0))
				assert.GreaterOrEqual(t, c.Y, float32(0))
				assert.GreaterOrEqual(t, c.Z, float32(0))
			}
		}
	}
}

// TestSampleStaysAboveHemisphere checks that GGX importance sampling
// around a fixed shading normal never produces a direction behind the
// surface, since Sample reflects the view vector about a microfacet
// normal drawn from the same hemisphere as n.
func TestSampleStaysAboveHemisphere(t *testing.T) {
	n := rmath.NewVec3(0, 0, 1)
	v := rmath.NewVec3(0, 0, 1)
	b := brdf.New(rmath.NewVec3(0.8, 0.8, 0.8), rmath.Vec3Zero, 0, 0.5)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 256; i++ {
		l := b.Sample(n, v, rng)
		assert.GreaterOrEqual(t, n.Dot(l), float32(-1e-3), "sampled direction fell below the hemisphere")
	}
}

// TestPdfIsOne documents the Pdf()==1 convention used with EvalIndirect.
func TestPdfIsOne(t *testing.T) {
	b := brdf.New(rmath.NewVec3(0.5, 0.5, 0.5), rmath.Vec3Zero, 0, 0.5)
	assert.Equal(t, float32(1), b.Pdf())
}
