package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtracer/profile"
)

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	p := profile.Default()
	assert.Equal(t, profile.Resolution{W: 800, H: 800}, p.Resolution)
	assert.Equal(t, 16, p.Samples)
	assert.Equal(t, 2, p.Bounces)
	assert.Equal(t, profile.CookTorrance, p.BRDF)
	assert.Equal(t, profile.Filmic, p.Tonemap)
	assert.Equal(t, [3]float32{0, 0, 0}, p.Background)
}

// TestLoadLayersOverDefaults checks that a document naming only some
// fields leaves the rest at Default()'s values, rather than zeroing
// them, since a partial document is the common case.
func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yml")
	doc := "samples: 64\ntonemap: Aces\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := profile.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, p.Samples)
	assert.Equal(t, profile.Aces, p.Tonemap)
	// untouched fields keep their defaults
	assert.Equal(t, profile.Resolution{W: 800, H: 800}, p.Resolution)
	assert.Equal(t, 2, p.Bounces)
	assert.Equal(t, profile.CookTorrance, p.BRDF)
}

func TestBackgroundVec3Conversion(t *testing.T) {
	p := profile.Default()
	p.Background = [3]float32{0.2, 0.4, 0.6}
	v := p.BackgroundVec3()
	assert.Equal(t, float32(0.2), v.X)
	assert.Equal(t, float32(0.4), v.Y)
	assert.Equal(t, float32(0.6), v.Z)
}
