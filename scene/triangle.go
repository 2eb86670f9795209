package scene

import rmath "pathtracer/math"

const (
	triangleDetEpsilon  = 1e-6
	triangleDistEpsilon = 1e-6
)

// Triangle is a single mesh face. It is immutable once built and is the
// leaf item type of each mesh's triangle k-d tree.
type Triangle struct {
	V0, V1, V2 Vertex
}

// Bound returns the triangle's axis-aligned bounding box, used by the
// k-d tree build.
func (t Triangle) Bound() rmath.AABB {
	b := rmath.EmptyAABB()
	b = b.UnionPoint(t.V0.Position)
	b = b.UnionPoint(t.V1.Position)
	b = b.UnionPoint(t.V2.Position)
	return b
}

// Intersect runs the Möller–Trumbore test. Backface culling is
// intentionally disabled: both winding orders produce a hit, since the
// integrator relies on seeing backfaces (e.g. the inside of a box).
func (t Triangle) Intersect(r rmath.Ray) (Hit, bool) {
	e1 := t.V1.Position.Sub(t.V0.Position)
	e2 := t.V2.Position.Sub(t.V0.Position)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)

	if det < triangleDetEpsilon && det > -triangleDetEpsilon {
		return Hit{}, false
	}
	invDet := 1 / det

	tv := r.Origin.Sub(t.V0.Position)
	u := tv.Dot(p) * invDet
	if u < 0 || u > 1 {
		return Hit{}, false
	}

	q := tv.Cross(e1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}

	dist := e2.Dot(q) * invDet
	if dist < triangleDistEpsilon {
		return Hit{}, false
	}

	w := 1 - u - v
	normal := t.V0.Normal.Mul(w).Add(t.V1.Normal.Mul(u)).Add(t.V2.Normal.Mul(v))
	uv := t.V0.UV.Add(t.V1.UV.Sub(t.V0.UV).Mul(u)).Add(t.V2.UV.Sub(t.V0.UV).Mul(v))

	deltaUV1 := t.V1.UV.Sub(t.V0.UV)
	deltaUV2 := t.V2.UV.Sub(t.V0.UV)
	denom := deltaUV1.X*deltaUV2.Y - deltaUV2.X*deltaUV1.Y
	var tangent rmath.Vec3
	if denom < -1e-12 || denom > 1e-12 {
		f := 1 / denom
		tangent = e1.Mul(deltaUV2.Y).Sub(e2.Mul(deltaUV1.Y)).Mul(f).Normalize()
	} else {
		tangent, _ = rmath.TangentFrame(normal.Normalize())
	}

	return Hit{
		Kind:     HitTriangle,
		Dist:     dist,
		Position: r.At(dist),
		Normal:   normal.Normalize(),
		Tangent:  tangent,
		UV:       uv,
	}, true
}
