package scene

import (
	rmath "pathtracer/math"
)

// Camera is an immutable pinhole camera: a world transform plus a vertical
// field of view. The transform is expected to be invertible and is never
// mutated after a Scene is built, so it can be shared across render
// workers without synchronization.
type Camera struct {
	Transform rmath.Mat4
	FOV       float32 // vertical field of view, radians
	ZNear     float32
	ZFar      float32
}

// Position reads the camera's world-space location out of its transform.
func (c Camera) Position() rmath.Vec3 {
	return c.Transform.Translation()
}

// TransformDirection rotates a local-space direction (e.g. a camera-space
// ray direction) into world space, ignoring translation.
func (c Camera) TransformDirection(v rmath.Vec3) rmath.Vec3 {
	return c.Transform.MulDir(v)
}
