package scene

import (
	"math"

	rmath "pathtracer/math"
)

// Sphere is an analytic primitive: center, radius. Unlike Triangle it has
// no k-d tree of its own — it's a leaf of the top-level model tree.
type Sphere struct {
	Center rmath.Vec3
	Radius float32
}

func (s Sphere) Bound() rmath.AABB {
	r := rmath.NewVec3(s.Radius, s.Radius, s.Radius)
	return rmath.AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Intersect solves the ray/sphere quadratic. When the origin is inside the
// sphere (t1 < 0 < t2) it emits only the exit hit, with an inward-facing
// normal so the integrator can see through the surface from inside. When
// both roots are in front it emits both, nearest first, so a caller
// walking hits for alpha transparency can reach the far side of the
// sphere even if it skips past the near one.
func (s Sphere) Intersect(r rmath.Ray) ([]Hit, bool) {
	toCenter := s.Center.Sub(r.Origin)
	a := r.Direction.Dot(r.Direction)
	b := 2 * toCenter.Dot(r.Direction)
	c := toCenter.Dot(toCenter) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	if t2 < triangleDistEpsilon {
		return nil, false
	}

	exit := Hit{Kind: HitSphere, Dist: t2, Position: r.At(t2), Normal: r.At(t2).Sub(s.Center).Normalize().Negate()}

	if t1 < triangleDistEpsilon {
		// Origin inside the sphere: emit only the exit point.
		return []Hit{exit}, true
	}

	entry := Hit{Kind: HitSphere, Dist: t1, Position: r.At(t1), Normal: r.At(t1).Sub(s.Center).Normalize()}
	// Exit normal should still face outward when both roots are in
	// front of the ray (the origin is outside the sphere).
	exit.Normal = exit.Normal.Negate()
	return []Hit{entry, exit}, true
}
