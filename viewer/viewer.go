// Package viewer defines the pixel-update channel contract the sampler
// publishes progress on, plus a minimal consumer for headless runs.
// A graphical window (the teacher's original SFML-backed preview) is out
// of scope here; this package only needs to drain the channel so the
// sampler's publish step never blocks.
package viewer

import (
	"log"

	"pathtracer/sampler"
)

// Drain reads every PixelUpdate from updates until it is closed,
// discarding them. Used when no interactive preview is attached but the
// sampler was still given a channel (e.g. for progress logging).
func Drain(updates <-chan sampler.PixelUpdate) {
	for range updates {
	}
}

// LogProgress reads updates and logs one line every `every` pixels
// received, then returns when the channel closes. A crude substitute for
// an interactive preview, useful when running headless (-viewer=log).
func LogProgress(updates <-chan sampler.PixelUpdate, every int) {
	if every <= 0 {
		every = 10000
	}
	count := 0
	for u := range updates {
		count++
		if count%every == 0 {
			log.Printf("viewer: %d pixel updates received (last x=%d y=%d rgb=%v)", count, u.X, u.Y, u.RGB)
		}
	}
}
