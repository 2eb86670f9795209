package math

// AABB is an axis-aligned bounding box, inclusive on both ends.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a box with Min > Max on every axis, the identity element
// for Union — unioning it with anything yields that thing unchanged.
func EmptyAABB() AABB {
	const inf = float32(3.0e38)
	return AABB{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{X: minf(b.Min.X, other.Min.X), Y: minf(b.Min.Y, other.Min.Y), Z: minf(b.Min.Z, other.Min.Z)},
		Max: Vec3{X: maxf(b.Max.X, other.Max.X), Y: maxf(b.Max.Y, other.Max.Y), Z: maxf(b.Max.Z, other.Max.Z)},
	}
}

func (b AABB) UnionPoint(p Vec3) AABB {
	return AABB{
		Min: Vec3{X: minf(b.Min.X, p.X), Y: minf(b.Min.Y, p.Y), Z: minf(b.Min.Z, p.Z)},
		Max: Vec3{X: maxf(b.Max.X, p.X), Y: maxf(b.Max.Y, p.Y), Z: maxf(b.Max.Z, p.Z)},
	}
}

// SurfaceArea is the total area of the six faces. A degenerate (flat) box
// still has a well-defined, finite area.
func (b AABB) SurfaceArea() float32 {
	d := b.Max.Sub(b.Min)
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Axis returns the min/max bound of the box along axis 0=X, 1=Y, 2=Z.
func (b AABB) Axis(axis int) (lo, hi float32) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

// Intersect implements the slab method: for each axis it computes the two
// t-values at which the ray crosses that axis's bounding planes, swaps them
// into (tLo, tHi) order, and tightens a running [tMin, tMax] interval. A
// division by zero (ray parallel to a slab) produces +/-Inf, which still
// compares correctly against the running interval, so no special case is
// needed for axis-parallel rays. The box is missed once the interval goes
// empty, or if it lies entirely behind the ray origin.
func (b AABB) Intersect(r Ray) (tMin, tMax float32, ok bool) {
	tMin, tMax = 0, float32(3.0e38)
	for axis := 0; axis < 3; axis++ {
		lo, hi := b.Axis(axis)
		var o, d float32
		switch axis {
		case 0:
			o, d = r.Origin.X, r.Direction.X
		case 1:
			o, d = r.Origin.Y, r.Direction.Y
		default:
			o, d = r.Origin.Z, r.Direction.Z
		}
		invD := 1 / d
		t0 := (lo - o) * invD
		t1 := (hi - o) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
