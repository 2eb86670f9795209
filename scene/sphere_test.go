package scene_test

import (
	"testing"

	rmath "pathtracer/math"
	"pathtracer/scene"
)

func TestSphereIntersectFromOutside(t *testing.T) {
	s := scene.Sphere{Center: rmath.NewVec3(0, 0, 0), Radius: 1}
	r := rmath.NewRay(rmath.NewVec3(0, 0, -5), rmath.NewVec3(0, 0, 1))

	hits, ok := s.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(hits) != 2 {
		t.Fatalf("expected both entry and exit hits, got %d", len(hits))
	}
	entry := hits[0]
	if entry.Dist < 3.999 || entry.Dist > 4.001 {
		t.Errorf("expected entry dist ~4, got %v", entry.Dist)
	}
	if entry.Normal.Dot(rmath.NewVec3(0, 0, -1)) < 0.999 {
		t.Errorf("expected entry normal facing the ray origin, got %v", entry.Normal)
	}
}

// TestSphereIntersectBothRootsInFront checks spec.md's two-roots-in-front
// requirement: when the ray origin is outside the sphere and both the
// entry and exit point lie ahead of it, Intersect emits both, nearest
// first, so a caller walking hits for alpha transparency can reach the
// far side of the sphere.
func TestSphereIntersectBothRootsInFront(t *testing.T) {
	s := scene.Sphere{Center: rmath.NewVec3(0, 0, 0), Radius: 1}
	r := rmath.NewRay(rmath.NewVec3(0, 0, -5), rmath.NewVec3(0, 0, 1))

	hits, ok := s.Intersect(r)
	if !ok {
		t.Fatal("expected hits")
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Dist >= hits[1].Dist {
		t.Errorf("expected hits sorted nearest first, got %v then %v", hits[0].Dist, hits[1].Dist)
	}
	if hits[0].Dist < 3.999 || hits[0].Dist > 4.001 {
		t.Errorf("expected near dist ~4, got %v", hits[0].Dist)
	}
	if hits[1].Dist < 5.999 || hits[1].Dist > 6.001 {
		t.Errorf("expected far dist ~6, got %v", hits[1].Dist)
	}
	// Both normals should point outward from the sphere center since the
	// ray origin is outside it.
	if hits[0].Normal.Dot(rmath.NewVec3(0, 0, -1)) < 0.999 {
		t.Errorf("expected near-hit normal facing the ray origin, got %v", hits[0].Normal)
	}
	if hits[1].Normal.Dot(rmath.NewVec3(0, 0, 1)) < 0.999 {
		t.Errorf("expected far-hit normal facing outward, got %v", hits[1].Normal)
	}
}

func TestSphereIntersectFromInside(t *testing.T) {
	s := scene.Sphere{Center: rmath.NewVec3(0, 0, 0), Radius: 1}
	r := rmath.NewRay(rmath.NewVec3(0, 0, 0), rmath.NewVec3(0, 0, 1))

	hits, ok := s.Intersect(r)
	if !ok {
		t.Fatal("expected an exit hit when the ray starts inside the sphere")
	}
	if len(hits) != 1 {
		t.Fatalf("expected exactly the exit hit from inside the sphere, got %d", len(hits))
	}
	hit := hits[0]
	if hit.Dist < 0.999 || hit.Dist > 1.001 {
		t.Errorf("expected exit dist ~1, got %v", hit.Dist)
	}
	// Normal should face back toward the ray origin, i.e. opposite of the
	// outward surface normal.
	if hit.Normal.Dot(rmath.NewVec3(0, 0, 1)) > -0.999 {
		t.Errorf("expected inward-facing normal, got %v", hit.Normal)
	}
}

func TestSphereIntersectMiss(t *testing.T) {
	s := scene.Sphere{Center: rmath.NewVec3(0, 0, 0), Radius: 1}
	r := rmath.NewRay(rmath.NewVec3(10, 10, -5), rmath.NewVec3(0, 0, 1))

	if _, ok := s.Intersect(r); ok {
		t.Error("expected a miss")
	}
}
