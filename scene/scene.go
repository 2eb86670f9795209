package scene

import (
	"pathtracer/kdtree"
	rmath "pathtracer/math"
)

// Scene is the top-level, immutable world description the integrator
// renders against: a spatial index over models, a list of lights, a flat
// background color for camera rays that escape the scene, and the
// camera itself. Once built it is shared read-only across every render
// worker — nothing in Scene is mutated during a render.
type Scene struct {
	Models     *kdtree.Tree[Model]
	Lights     []Light
	Background rmath.Vec3
	Camera     Camera
}

// NewScene builds the top-level model k-d tree from models and returns
// the assembled scene. Call once at load time.
func NewScene(models []Model, lights []Light, background rmath.Vec3, camera Camera) *Scene {
	return &Scene{
		Models:     kdtree.Build(models),
		Lights:     lights,
		Background: background,
		Camera:     camera,
	}
}

// ModelHit pairs a Hit with the Model it was found on, since the
// integrator needs both the geometric record and the material it
// belongs to.
type ModelHit struct {
	Hit   Hit
	Model *Model
}

// RayCast queries the top-level tree and, for every candidate model,
// keeps every hit that model produces (a mesh's per-triangle resolution
// already collapsed to its single nearest hit inside Model.Intersect; a
// sphere can contribute both its entry and exit hit). The result is
// sorted by distance ascending so the integrator can walk it for alpha
// resolution, including through to a sphere's far side.
func (s *Scene) RayCast(r rmath.Ray) []ModelHit {
	candidates := s.Models.Query(r)
	hits := make([]ModelHit, 0, len(candidates))
	for i := range candidates {
		m := &candidates[i]
		modelHits, ok := m.Intersect(r)
		if !ok {
			continue
		}
		for _, hit := range modelHits {
			hits = append(hits, ModelHit{Hit: hit, Model: m})
		}
	}
	insertionSortByDist(hits)
	return hits
}

// insertionSortByDist sorts in place without allocating, for the small hit
// counts typical of a single ray (usually a handful of overlapping
// models), where it beats sort.Slice's function-call overhead.
func insertionSortByDist(hits []ModelHit) {
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Hit.Dist < hits[j-1].Hit.Dist; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}
