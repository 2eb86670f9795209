package scene

import rmath "pathtracer/math"

type LightKind uint8

const (
	LightDirectional LightKind = iota
	LightPoint
)

// Light is a tagged union over the two supported light types.
type Light struct {
	Kind LightKind

	// Directional
	Direction rmath.Vec3 // unit, the direction the light travels (from the light toward the scene)

	// Point
	Position rmath.Vec3
	Size     float32

	Color rmath.Vec3 // components >= 0, shared by both kinds
}
