// Command pathtrace renders a scene file to a PNG image using the
// offline Monte-Carlo path tracer in this module.
package main

import (
	"crypto/sha1"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pathtracer/integrator"
	"pathtracer/profile"
	"pathtracer/sampler"
	"pathtracer/scene"
	"pathtracer/sceneio"
	"pathtracer/viewer"
)

func main() {
	input := flag.String("input", "", "scene file to render (.gltf, .glb or .psf)")
	output := flag.String("output", "out.png", "output PNG path")
	profilePath := flag.String("profile", "", "render profile YAML (defaults applied if absent)")
	debug := flag.Bool("debug", false, "render per-channel debug images instead of a full path trace")
	viewerMode := flag.String("viewer", "", "progress viewer: \"\" (none) or \"log\"")
	quiet := flag.Bool("quiet", false, "suppress progress logging")
	hash := flag.Bool("hash", false, "print the sha1 of the output image bytes instead of a success message")
	flag.Parse()

	if err := run(*input, *output, *profilePath, *debug, *viewerMode, *quiet, *hash); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(input, output, profilePath string, debug bool, viewerMode string, quiet, hash bool) error {
	if input == "" {
		return fmt.Errorf("missing -input")
	}

	p := profile.Default()
	if profilePath != "" {
		loaded, err := profile.Load(profilePath)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		p = loaded
	}

	sc, err := loadScene(input)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	if debug {
		return runDebug(sc, p, output)
	}

	var updates chan sampler.PixelUpdate
	if viewerMode == "log" {
		updates = make(chan sampler.PixelUpdate, 1024)
		go viewer.LogProgress(updates, p.Resolution.W*p.Resolution.H)
	}

	if !quiet {
		log.Printf("rendering %dx%d, %d samples, %d bounces", p.Resolution.W, p.Resolution.H, p.Samples, p.Bounces)
	}

	pixels := sampler.Render(sc, p, updates)
	if updates != nil {
		close(updates)
	}

	if err := writePNG(output, p.Resolution.W, p.Resolution.H, pixels); err != nil {
		return err
	}

	if hash {
		fmt.Printf("%x\n", sha1.Sum(pixels))
	} else if !quiet {
		log.Printf("wrote %s", output)
	}
	return nil
}

func loadScene(path string) (*scene.Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return sceneio.LoadGLTF(path)
	case ".psf", ".yml", ".yaml":
		return sceneio.LoadPSF(path)
	default:
		return nil, fmt.Errorf("unrecognized scene file extension %q", filepath.Ext(path))
	}
}

// runDebug produces one PNG per debug channel, named "<output-stem>.<channel>.png".
func runDebug(sc *scene.Scene, p profile.Profile, output string) error {
	buffers := integrator.DebugRender(sc, p.Resolution.W, p.Resolution.H)
	stem := strings.TrimSuffix(output, filepath.Ext(output))

	for channel, buf := range buffers {
		path := fmt.Sprintf("%s.%s.png", stem, channel)
		pixels := make([]byte, len(buf)*3)
		for i, c := range buf {
			pixels[i*3] = quantizeDebug(c.X)
			pixels[i*3+1] = quantizeDebug(c.Y)
			pixels[i*3+2] = quantizeDebug(c.Z)
		}
		if err := writePNG(path, p.Resolution.W, p.Resolution.H, pixels); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func quantizeDebug(c float32) uint8 {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return uint8(c*255 + 0.5)
}

func writePNG(path string, w, h int, rgb []byte) error {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4] = rgb[i*3]
		img.Pix[i*4+1] = rgb[i*3+1]
		img.Pix[i*4+2] = rgb[i*3+2]
		img.Pix[i*4+3] = 255
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
