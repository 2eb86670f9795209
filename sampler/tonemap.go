package sampler

import (
	rmath "pathtracer/math"
	"pathtracer/profile"
)

// Tonemap maps unbounded HDR radiance into [0,1] display range using the
// operator named by mode.
func Tonemap(mode profile.Tonemap, c rmath.Vec3) rmath.Vec3 {
	switch mode {
	case profile.Reinhard:
		return reinhard(c)
	case profile.Aces:
		return aces(c)
	default:
		return filmic(c)
	}
}

func reinhard(c rmath.Vec3) rmath.Vec3 {
	return rmath.NewVec3(c.X/(c.X+1), c.Y/(c.Y+1), c.Z/(c.Z+1))
}

// filmic subtracts a small black-level floor before applying the
// Uncharted-2-style curve c(6.2c+0.5)/(c(6.2c+1.7)+0.06).
func filmic(c rmath.Vec3) rmath.Vec3 {
	c = rmath.NewVec3(maxf(c.X-0.004, 0), maxf(c.Y-0.004, 0), maxf(c.Z-0.004, 0))
	num := c.MulVec(c.Mul(6.2).Add(rmath.NewVec3(0.5, 0.5, 0.5)))
	denom := c.MulVec(c.Mul(6.2).Add(rmath.NewVec3(1.7, 1.7, 1.7))).Add(rmath.NewVec3(0.06, 0.06, 0.06))
	return rmath.NewVec3(num.X/denom.X, num.Y/denom.Y, num.Z/denom.Z)
}

// aces is the standard fitted ACES filmic approximation, clamped to
// [0,1].
func aces(c rmath.Vec3) rmath.Vec3 {
	const a, cc, e = 2.51, 2.43, 0.14
	b := rmath.NewVec3(0.03, 0.03, 0.03)
	d := rmath.NewVec3(0.59, 0.59, 0.59)
	num := c.MulVec(c.Mul(a).Add(b))
	denom := c.MulVec(c.Mul(cc).Add(d)).Add(rmath.NewVec3(e, e, e))
	res := rmath.NewVec3(num.X/denom.X, num.Y/denom.Y, num.Z/denom.Z)
	return rmath.NewVec3(clamp01(res.X), clamp01(res.Y), clamp01(res.Z))
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
