package scene

import rmath "pathtracer/math"

// Vertex is a single point of a triangle mesh: position, shading normal
// (expected unit length) and texture coordinates (unconstrained, sampled
// with wraparound).
type Vertex struct {
	Position rmath.Vec3
	Normal   rmath.Vec3
	UV       rmath.Vec2
}
