package integrator

import (
	rmath "pathtracer/math"
	"pathtracer/scene"
)

// DebugChannel names one of the per-channel visualizations DebugRender
// produces.
type DebugChannel string

const (
	ChannelNormal    DebugChannel = "normal"
	ChannelAlbedo    DebugChannel = "albedo"
	ChannelMetalness DebugChannel = "metalness"
	ChannelRoughness DebugChannel = "roughness"
	ChannelOpacity   DebugChannel = "opacity"
	ChannelEmissive  DebugChannel = "emissive"
	ChannelIOR       DebugChannel = "ior"
)

var debugChannels = []DebugChannel{
	ChannelNormal, ChannelAlbedo, ChannelMetalness,
	ChannelRoughness, ChannelOpacity, ChannelEmissive, ChannelIOR,
}

// DebugRender fires a single primary ray per pixel (no integration) and
// returns one width*height Vec3 buffer per channel, each visualized in
// [0,1] (normals remapped (n+1)/2, IOR divided by 3 as a display-range
// compromise since it is otherwise unbounded).
func DebugRender(sc *scene.Scene, w, h int) map[DebugChannel][]rmath.Vec3 {
	buffers := make(map[DebugChannel][]rmath.Vec3, len(debugChannels))
	for _, ch := range debugChannels {
		buffers[ch] = make([]rmath.Vec3, w*h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ray := CameraRay(sc.Camera, w, h, x, y, 0.5, 0.5)
			idx := y*w + x
			hits := sc.RayCast(ray)
			if len(hits) == 0 {
				continue
			}
			mh := hits[0]
			sample := scene.SampleMaterial(mh.Model.Material, mh.Hit)
			n := mh.Hit.ShadingNormal(&mh.Model.Material)

			buffers[ChannelNormal][idx] = n.Mul(0.5).Add(rmath.NewVec3(0.5, 0.5, 0.5))
			buffers[ChannelAlbedo][idx] = sample.Albedo
			buffers[ChannelMetalness][idx] = rmath.NewVec3(sample.Metalness, sample.Metalness, sample.Metalness)
			buffers[ChannelRoughness][idx] = rmath.NewVec3(sample.Roughness, sample.Roughness, sample.Roughness)
			buffers[ChannelOpacity][idx] = rmath.NewVec3(sample.Opacity, sample.Opacity, sample.Opacity)
			buffers[ChannelEmissive][idx] = sample.Emissive
			ior := mh.Model.Material.IOR / 3
			buffers[ChannelIOR][idx] = rmath.NewVec3(ior, ior, ior)
		}
	}
	return buffers
}
