// Package sampler owns the framebuffer accumulator and the parallel,
// sample-indexed render loop: one worker pool pass per sample, a
// barrier between passes, and tonemap/gamma/quantize once all samples
// have landed.
package sampler

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"pathtracer/integrator"
	rmath "pathtracer/math"
	"pathtracer/profile"
	"pathtracer/scene"
)

// PixelUpdate is one incremental result published to an optional viewer
// channel: the pixel coordinates and its tonemapped, quantized color so
// far.
type PixelUpdate struct {
	X, Y uint32
	RGB  [3]uint8
}

// Framebuffer accumulates per-pixel radiance across samples before the
// final divide-by-S and tonemap.
type Framebuffer struct {
	Width, Height int
	pixels        []rmath.Vec3
}

func newFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{Width: w, Height: h, pixels: make([]rmath.Vec3, w*h)}
}

func (f *Framebuffer) at(x, y int) rmath.Vec3 { return f.pixels[y*f.Width+x] }
func (f *Framebuffer) add(x, y int, c rmath.Vec3) {
	f.pixels[y*f.Width+x] = f.pixels[y*f.Width+x].Add(c)
}

// Render runs p.Samples passes over sc at the profile's resolution,
// publishing incremental PixelUpdate values to viewer (if non-nil) after
// every sample, and returns the final 8-bit RGB image as a flat
// width*height*3 byte slice, row-major, top-to-bottom.
//
// Determinism: every pixel's sample stream is seeded only from
// (sampleIndex, pixelIndex, p.Samples), so the result is bit-identical
// regardless of GOMAXPROCS or scheduling order.
func Render(sc *scene.Scene, p profile.Profile, viewer chan<- PixelUpdate) []byte {
	w, h := p.Resolution.W, p.Resolution.H
	fb := newFramebuffer(w, h)
	viewerOpen := viewer != nil

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	for s := 1; s <= p.Samples; s++ {
		runPass(sc, p, fb, s, workers)

		if viewerOpen {
			viewerOpen = publishPass(fb, s, p, viewer)
		}
	}

	return quantize(fb, p)
}

// runPass computes one full-frame sample and accumulates it into fb. Work
// is split into row bands across `workers` goroutines; within a band,
// pixels are independent and share no mutable state.
func runPass(sc *scene.Scene, p profile.Profile, fb *Framebuffer, s, workers int) {
	var wg sync.WaitGroup
	rowsPerWorker := (fb.Height + workers - 1) / workers

	for wIdx := 0; wIdx < workers; wIdx++ {
		y0 := wIdx * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y1 > fb.Height {
			y1 = fb.Height
		}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < fb.Width; x++ {
					pixelIndex := y*fb.Width + x
					rng := rand.New(rand.NewSource(seed(s, pixelIndex, p.Samples)))
					jitterX, jitterY := rng.Float32(), rng.Float32()
					ray := integrator.CameraRay(sc.Camera, fb.Width, fb.Height, x, y, jitterX, jitterY)
					c := integrator.Render(sc, ray, p.Bounces, rng)
					fb.add(x, y, c)
				}
			}
		}(y0, y1)
	}
	wg.Wait()
}

// seed derives a deterministic 64-bit stream seed from the sample index,
// flattened pixel index and total sample count, so re-running with a
// different worker count cannot change any pixel's sample stream.
func seed(s, pixelIndex, totalSamples int) int64 {
	return int64(s)*1_000_000_007 + int64(pixelIndex)*int64(totalSamples) + 1
}

// publishPass tonemaps the current per-sample average and sends one
// PixelUpdate per pixel to viewer. If the channel is closed (a send
// panics) publishing is disabled for the rest of the render; detecting a
// closed channel requires recovering from that panic since Go offers no
// non-panicking send.
func publishPass(fb *Framebuffer, s int, p profile.Profile, viewer chan<- PixelUpdate) (stillOpen bool) {
	defer func() {
		if recover() != nil {
			stillOpen = false
		}
	}()
	stillOpen = true
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			avg := fb.at(x, y).Mul(1 / float32(s))
			tone := Tonemap(p.Tonemap, avg)
			rgb := quantizePixel(tone)
			viewer <- PixelUpdate{X: uint32(x), Y: uint32(y), RGB: rgb}
		}
	}
	return stillOpen
}

// quantize divides the accumulator by the sample count, tonemaps, gamma
// corrects (gamma=2.2) and quantizes every pixel to 8-bit RGB.
func quantize(fb *Framebuffer, p profile.Profile) []byte {
	out := make([]byte, fb.Width*fb.Height*3)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			avg := fb.at(x, y).Mul(1 / float32(p.Samples))
			tone := Tonemap(p.Tonemap, avg)
			rgb := quantizePixel(tone)
			i := (y*fb.Width + x) * 3
			out[i], out[i+1], out[i+2] = rgb[0], rgb[1], rgb[2]
		}
	}
	return out
}

const invGamma = 1.0 / 2.2

func quantizePixel(c rmath.Vec3) [3]uint8 {
	return [3]uint8{
		gammaQuantize(c.X),
		gammaQuantize(c.Y),
		gammaQuantize(c.Z),
	}
}

func gammaQuantize(c float32) uint8 {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	corrected := float32(math.Pow(float64(c), invGamma))
	return uint8(corrected*255 + 0.5)
}
