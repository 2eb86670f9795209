// Package integrator builds camera rays and evaluates the per-pixel
// Monte-Carlo path integral: next-event estimation for direct light,
// BRDF-sampled indirect bounces, alpha-transparency walking and
// Russian-roulette termination.
package integrator

import (
	"math"
	"math/rand"

	"pathtracer/brdf"
	rmath "pathtracer/math"
	"pathtracer/scene"
)

// selfIntersectionBias offsets secondary-ray origins along the geometric
// normal so a ray leaving a surface doesn't immediately re-intersect the
// triangle or sphere it just left to floating-point rounding.
const selfIntersectionBias = 1e-3

// throughputFloorSq and rouletteStartBounce gate path termination: below
// the floor a path can no longer contribute enough to be worth tracing,
// and past rouletteStartBounce bounces the remainder are pruned
// stochastically rather than by a hard cap.
const (
	throughputFloorSq  = 1e-5
	rouletteStartBounce = 4
)

// CameraRay builds the primary ray through pixel (x, y) of a w x h image,
// jittered within the pixel by (jitterX, jitterY) in [0,1). Screen space
// is scaled by tan(fov/2) and the image aspect ratio, then rotated into
// world space by the camera transform.
func CameraRay(cam scene.Camera, w, h int, x, y int, jitterX, jitterY float32) rmath.Ray {
	widthF, heightF := float32(w), float32(h)
	aspect := widthF / heightF
	halfFOV := float32(math.Tan(float64(cam.FOV) / 2))

	screenX := (float32(x)+jitterX)/widthF*2 - 1
	screenX *= halfFOV * aspect

	screenY := 1 - (float32(y)+jitterY)/heightF*2
	screenY *= halfFOV

	dir := rmath.NewVec3(screenX, screenY, -1).Normalize()
	dir = cam.TransformDirection(dir)
	return rmath.NewRay(cam.Position(), dir)
}

// Render traces one sample of the path integral starting at ray, for up
// to bounces+1 iterations, and returns the accumulated (pre-tonemap)
// color.
func Render(sc *scene.Scene, ray rmath.Ray, bounces int, rng *rand.Rand) rmath.Vec3 {
	color := rmath.Vec3Zero
	throughput := rmath.Vec3One

	for bounce := 0; bounce <= bounces; bounce++ {
		mh, ok := resolveHit(sc, ray, rng)
		if !ok {
			color = color.Add(throughput.MulVec(sc.Background))
			return color
		}

		sample := scene.SampleMaterial(mh.Model.Material, mh.Hit)
		n := mh.Hit.ShadingNormal(&mh.Model.Material)
		geoN := mh.Hit.GeometricNormal()
		v := ray.Direction.Mul(-1).Normalize()

		color = color.Add(throughput.MulVec(sample.Emissive))

		b := brdf.New(sample.Albedo, sample.Emissive, sample.Metalness, sample.Roughness)

		color = color.Add(throughput.MulVec(directLighting(sc, mh.Hit.Position, geoN, n, v, b)))

		if bounce == bounces {
			return color
		}

		l := b.Sample(n, v, rng)
		nDotL := maxf(n.Dot(l), 0)
		if nDotL <= 0 {
			return color
		}
		throughput = throughput.MulVec(b.EvalIndirect(n, v, l)).Mul(1 / b.Pdf())

		ray = rmath.NewRay(mh.Hit.Position.Add(geoN.Mul(selfIntersectionBias)), l)

		if throughput.LengthSqr() < throughputFloorSq {
			return color
		}
		if bounce+1 >= rouletteStartBounce {
			var survived bool
			throughput, survived = RussianRoulette(throughput, rng)
			if !survived {
				return color
			}
		}
	}
	return color
}

// RussianRoulette stochastically terminates a path with probability
// 1-q, where q is the path's own survival chance (the largest throughput
// channel, capped at 1). A surviving path is compensated by 1/q so its
// expected contribution over many trials equals what an untruncated path
// would have contributed: unbiased, at the cost of per-sample variance.
func RussianRoulette(throughput rmath.Vec3, rng *rand.Rand) (updated rmath.Vec3, survived bool) {
	q := maxComponent(throughput)
	if q > 1 {
		q = 1
	}
	if q <= 0 || rng.Float32() > q {
		return throughput, false
	}
	return throughput.Mul(1 / q), true
}

// resolveHit walks ray_cast's sorted hits front-to-back, stochastically
// skipping any whose opacity rolls below a fresh uniform draw, and
// returns the first surface adopted as the real interaction.
func resolveHit(sc *scene.Scene, ray rmath.Ray, rng *rand.Rand) (scene.ModelHit, bool) {
	for _, mh := range sc.RayCast(ray) {
		opacity := scene.SampleMaterial(mh.Model.Material, mh.Hit).Opacity
		if opacity >= 1 || rng.Float32() < opacity {
			return mh, true
		}
	}
	return scene.ModelHit{}, false
}

// directLighting sums next-event-estimation contributions from every
// light in the scene, shadow-testing each against occluders between the
// hit and the light.
func directLighting(sc *scene.Scene, pos, geoN, n, v rmath.Vec3, b *brdf.CookTorrance) rmath.Vec3 {
	total := rmath.Vec3Zero
	origin := pos.Add(geoN.Mul(selfIntersectionBias))

	for _, light := range sc.Lights {
		radiance, lDir, dist, isPoint := lightSample(light, pos)
		if radiance == rmath.Vec3Zero {
			continue
		}

		attenuation := shadowAttenuation(sc, origin, lDir.Mul(-1), dist, isPoint)
		if attenuation == rmath.Vec3Zero {
			continue
		}
		radiance = radiance.MulVec(attenuation)

		l := lDir.Mul(-1).Normalize()
		total = total.Add(b.EvalDirect(n, v, l).MulVec(radiance))
	}
	return total
}

// lightSample returns (radiance, direction-from-hit-to-light reversed per
// spec.md's L_dir convention, distance, isPoint) for a light. dist is
// only meaningful for point lights.
func lightSample(light scene.Light, pos rmath.Vec3) (radiance, lDir rmath.Vec3, dist float32, isPoint bool) {
	if light.Kind == scene.LightDirectional {
		return light.Color, light.Direction, 0, false
	}
	toHit := pos.Sub(light.Position)
	d := toHit.Length()
	if d == 0 {
		return rmath.Vec3Zero, rmath.Vec3Zero, 0, true
	}
	dir := toHit.Normalize()
	attenuation := 1 / (4 * float32(math.Pi) * d * d)
	return light.Color.Mul(attenuation), dir, d, true
}

// shadowAttenuation casts one shadow ray and multiplies (1-opacity) over
// every occluder it passes through. For point lights, occluders beyond
// the light itself (distance to hit > dist) are ignored.
func shadowAttenuation(sc *scene.Scene, origin, toLight rmath.Vec3, dist float32, isPoint bool) rmath.Vec3 {
	attenuation := rmath.Vec3One
	ray := rmath.NewRay(origin, toLight)

	for _, mh := range sc.RayCast(ray) {
		if isPoint && mh.Hit.Dist > dist {
			continue
		}
		opacity := scene.SampleMaterial(mh.Model.Material, mh.Hit).Opacity
		if opacity <= 0 {
			continue
		}
		attenuation = attenuation.Mul(1 - opacity)
		if attenuation == rmath.Vec3Zero {
			return rmath.Vec3Zero
		}
	}
	return attenuation
}

func maxComponent(v rmath.Vec3) float32 {
	m := v.X
	if v.Y > m {
		m = v.Y
	}
	if v.Z > m {
		m = v.Z
	}
	return m
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
