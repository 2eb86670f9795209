package math

import (
	"math"
	"math/rand"
	"testing"
)

func TestRayAt(t *testing.T) {
	r := NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0))
	p := r.At(5)
	expected := NewVec3(5, 0, 0)
	if p != expected {
		t.Errorf("At: expected %v, got %v", expected, p)
	}
}

func TestReflect(t *testing.T) {
	// Direction back toward the origin (-1,1,0) reflected off the Y-up
	// normal, giving (1,1,0) normalized.
	i := NewVec3(-1, 1, 0).Normalize()
	n := Vec3Up
	result := Reflect(i, n)
	if result.Y <= 0 {
		t.Errorf("Reflect: expected result to point away from the surface, got %v", result)
	}
	if math.Abs(float64(result.Length()-1)) > 0.001 {
		t.Errorf("Reflect: expected unit length, got %v", result.Length())
	}
}

func TestTangentFrameOrthonormal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		n := NewVec3(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1)
		if n.LengthSqr() < 1e-8 {
			continue
		}
		n = n.Normalize()
		tan, b := TangentFrame(n)

		tol := float32(0.001)
		if math.Abs(float64(tan.Dot(n))) > float64(tol) {
			t.Fatalf("TangentFrame: tangent not perpendicular to normal %v: t=%v", n, tan)
		}
		if math.Abs(float64(b.Dot(n))) > float64(tol) {
			t.Fatalf("TangentFrame: bitangent not perpendicular to normal %v: b=%v", n, b)
		}
		if math.Abs(float64(tan.Dot(b))) > float64(tol) {
			t.Fatalf("TangentFrame: tangent/bitangent not perpendicular for normal %v", n)
		}
		if math.Abs(float64(tan.Length()-1)) > float64(tol) {
			t.Fatalf("TangentFrame: tangent not unit length for normal %v: %v", n, tan.Length())
		}
	}
}

func TestToWorldRoundTrip(t *testing.T) {
	n := NewVec3(0, 0, 1)
	tan, b := TangentFrame(n)
	local := NewVec3(0, 0, 1) // straight up the hemisphere
	world := ToWorld(local, tan, b, n)
	if math.Abs(float64(world.Sub(n).Length())) > 0.001 {
		t.Errorf("ToWorld: local +Z should map to the normal itself, got %v", world)
	}
}
