package scene

import (
	"pathtracer/kdtree"
	rmath "pathtracer/math"
)

// ModelKind tags which variant of Model is populated.
type ModelKind uint8

const (
	ModelMesh ModelKind = iota
	ModelSphere
)

// Model is a tagged union over the two renderable shapes: a triangle mesh
// (with its own per-mesh k-d tree) or an analytic sphere. Models are
// immutable once built and are the leaf item type of the scene's
// top-level k-d tree.
type Model struct {
	Kind     ModelKind
	Material Material

	// Mesh
	Triangles *kdtree.Tree[Triangle]

	// Sphere
	Sphere Sphere

	bound rmath.AABB
}

// NewMeshModel builds a mesh model, constructing its triangle k-d tree
// immediately.
func NewMeshModel(triangles []Triangle, material Material) Model {
	tree := kdtree.Build(triangles)
	return Model{Kind: ModelMesh, Material: material, Triangles: tree, bound: tree.Bound()}
}

func NewSphereModel(s Sphere, material Material) Model {
	return Model{Kind: ModelSphere, Material: material, Sphere: s, bound: s.Bound()}
}

func (m Model) Bound() rmath.AABB { return m.bound }

// Intersect returns every hit this ray makes on this model, nearest
// first. A sphere can contribute up to two (entry and exit); a mesh
// contributes its single nearest triangle hit, found by querying the
// mesh's own triangle tree and keeping the closest candidate.
func (m Model) Intersect(r rmath.Ray) ([]Hit, bool) {
	if m.Kind == ModelSphere {
		return m.Sphere.Intersect(r)
	}

	var best Hit
	found := false
	for _, tri := range m.Triangles.Query(r) {
		hit, ok := tri.Intersect(r)
		if !ok {
			continue
		}
		if !found || hit.Dist < best.Dist {
			best = hit
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return []Hit{best}, true
}
