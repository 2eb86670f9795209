package scene

import (
	stdmath "math"

	rmath "pathtracer/math"
)

// UVSphereTriangles tessellates a sphere into a triangle mesh. Not used
// by scene loading (Sphere is its own analytic primitive) — this exists
// to build synthetic meshes for tests and hand-authored scenes that want
// a textured, interpolated-normal sphere rather than the exact analytic
// one.
func UVSphereTriangles(radius float32, segments, rings int) []Triangle {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	verts := make([]Vertex, 0, (rings+1)*(segments+1))
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi, cosPhi := float32(stdmath.Sin(phi)), float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			sinTheta, cosTheta := float32(stdmath.Sin(theta)), float32(stdmath.Cos(theta))

			normal := rmath.NewVec3(sinPhi*cosTheta, cosPhi, sinPhi*sinTheta)
			verts = append(verts, Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       rmath.NewVec2(float32(seg)/float32(segments), float32(ring)/float32(rings)),
			})
		}
	}

	var tris []Triangle
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := ring*(segments+1) + seg
			next := current + segments + 1

			tris = append(tris, Triangle{V0: verts[current], V1: verts[next], V2: verts[current+1]})
			tris = append(tris, Triangle{V0: verts[current+1], V1: verts[next], V2: verts[next+1]})
		}
	}
	return tris
}

// PlaneTriangles builds a flat, Y-up, subdivided quad centered on the
// origin — the standard ground-plane fixture for lighting tests.
func PlaneTriangles(width, depth float32, subdivisions int) []Triangle {
	if subdivisions < 1 {
		subdivisions = 1
	}
	halfW, halfD := width/2, depth/2

	verts := make([]Vertex, 0, (subdivisions+1)*(subdivisions+1))
	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			verts = append(verts, Vertex{
				Position: rmath.NewVec3(-halfW+u*width, 0, -halfD+v*depth),
				Normal:   rmath.Vec3Up,
				UV:       rmath.NewVec2(u, v),
			})
		}
	}

	var tris []Triangle
	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := z*(subdivisions+1) + x
			topRight := topLeft + 1
			bottomLeft := topLeft + subdivisions + 1
			bottomRight := bottomLeft + 1

			tris = append(tris, Triangle{V0: verts[topLeft], V1: verts[bottomLeft], V2: verts[topRight]})
			tris = append(tris, Triangle{V0: verts[topRight], V1: verts[bottomLeft], V2: verts[bottomRight]})
		}
	}
	return tris
}
