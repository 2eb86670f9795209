package scene_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	rmath "pathtracer/math"
	"pathtracer/scene"
)

type fixtureVec = [3]float32

type fixtureRay struct {
	Direction fixtureVec `yaml:"direction"`
	Position  fixtureVec `yaml:"position"`
}

type fixtureTriangle struct {
	V0 fixtureVec `yaml:"v0"`
	V1 fixtureVec `yaml:"v1"`
	V2 fixtureVec `yaml:"v2"`
}

type fixtureHit struct {
	Dist float32 `yaml:"dist"`
	U    float32 `yaml:"u"`
	V    float32 `yaml:"v"`
}

type fixtureCase struct {
	Ray      fixtureRay      `yaml:"ray"`
	Triangle fixtureTriangle `yaml:"triangle"`
	Hit      *fixtureHit     `yaml:"hit"`
}

func toVec3(v fixtureVec) rmath.Vec3 {
	return rmath.NewVec3(v[0], v[1], v[2])
}

// toTriangle matches the fixture convention: v0 at uv (0,0), v1 at uv
// (1,0), v2 at uv (0,1).
func (c fixtureCase) toTriangle() scene.Triangle {
	return scene.Triangle{
		V0: scene.Vertex{Position: toVec3(c.Triangle.V0), UV: rmath.NewVec2(0, 0)},
		V1: scene.Vertex{Position: toVec3(c.Triangle.V1), UV: rmath.NewVec2(1, 0)},
		V2: scene.Vertex{Position: toVec3(c.Triangle.V2), UV: rmath.NewVec2(0, 1)},
	}
}

func (c fixtureCase) toRay() rmath.Ray {
	return rmath.NewRay(toVec3(c.Ray.Position), toVec3(c.Ray.Direction))
}

func loadFixture(t *testing.T, path string) []fixtureCase {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cases []fixtureCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	return cases
}

func TestTriangleIntersectHitFixtures(t *testing.T) {
	for _, c := range loadFixture(t, "testdata/moller_trumbore/hit_tests.yml") {
		tri := c.toTriangle()
		hit, ok := tri.Intersect(c.toRay())
		require.True(t, ok, "expected a hit")
		require.InDelta(t, c.Hit.Dist, hit.Dist, 1e-5)
		require.InDelta(t, c.Hit.U, hit.UV.X, 1e-5)
		require.InDelta(t, c.Hit.V, hit.UV.Y, 1e-5)
	}
}

func TestTriangleIntersectMissFixtures(t *testing.T) {
	for _, c := range loadFixture(t, "testdata/moller_trumbore/miss_tests.yml") {
		tri := c.toTriangle()
		_, ok := tri.Intersect(c.toRay())
		require.False(t, ok, "expected a miss")
	}
}
