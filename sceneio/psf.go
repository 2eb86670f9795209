package sceneio

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	rmath "pathtracer/math"
	"pathtracer/scene"
)

// psfDocument is the on-disk shape of the engine's own YAML scene format,
// following original_source/src/scene/isf.rs: a flat list of tagged
// models, a camera, a list of tagged lights and a background color.
type psfDocument struct {
	Models     []psfModel `yaml:"models"`
	Camera     psfCamera  `yaml:"camera"`
	Lights     []psfLight `yaml:"lights"`
	Background [3]float32 `yaml:"background"`
}

type psfCamera struct {
	Transform [4][4]float32 `yaml:"transform"`
	FOV       float32       `yaml:"fov"`
	ZNear     float32       `yaml:"znear"`
	ZFar      float32       `yaml:"zfar"`
}

type psfModel struct {
	Type      string        `yaml:"type"`
	Radius    float32       `yaml:"radius"`
	Center    [3]float32    `yaml:"center"`
	Triangles []psfTriangle `yaml:"triangles"`
	Material  psfMaterial   `yaml:"material"`
}

type psfTriangle struct {
	V0 psfVertex `yaml:"v0"`
	V1 psfVertex `yaml:"v1"`
	V2 psfVertex `yaml:"v2"`
}

type psfVertex struct {
	Position [3]float32 `yaml:"position"`
	Normal   [3]float32 `yaml:"normal"`
	UV       [2]float32 `yaml:"tex_coords"`
}

type psfLight struct {
	Type      string     `yaml:"type"`
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
	Color     [3]float32 `yaml:"color"`
	Size      float32    `yaml:"size"`
}

type psfMaterial struct {
	Albedo        psfChannel `yaml:"albedo"`
	Emissive      psfChannel `yaml:"emissive"`
	Opacity       psfChannel `yaml:"opacity"`
	Metalness     psfChannel `yaml:"metalness"`
	Roughness     psfChannel `yaml:"roughness"`
	IOR           float32    `yaml:"ior"`
	NormalTexture string     `yaml:"normal_texture"`
}

// psfChannel decodes either a bare value (a number, a 3-vector, or a
// texture path string) or an explicit {factor, texture} mapping,
// mirroring isf.rs's untagged Albedo/Emissive/Opacity/Metalness/Roughness
// enums.
type psfChannel struct {
	Factor  [3]float32
	Texture string
}

func (c *psfChannel) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.ShortTag() == "!!str" && value.Value != "" {
			c.Texture = value.Value
			c.Factor = [3]float32{1, 1, 1}
			return nil
		}
		var f float32
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("channel scalar: %w", err)
		}
		c.Factor = [3]float32{f, f, f}
		return nil
	case yaml.SequenceNode:
		var arr [3]float32
		if err := value.Decode(&arr); err != nil {
			var one [1]float32
			if err2 := value.Decode(&one); err2 != nil {
				return fmt.Errorf("channel array: %w", err)
			}
			arr = [3]float32{one[0], one[0], one[0]}
		}
		c.Factor = arr
		return nil
	case yaml.MappingNode:
		var explicit struct {
			Factor  []float32 `yaml:"factor"`
			Texture string    `yaml:"texture"`
		}
		if err := value.Decode(&explicit); err != nil {
			return fmt.Errorf("channel mapping: %w", err)
		}
		c.Texture = explicit.Texture
		switch len(explicit.Factor) {
		case 1:
			c.Factor = [3]float32{explicit.Factor[0], explicit.Factor[0], explicit.Factor[0]}
		case 3:
			c.Factor = [3]float32{explicit.Factor[0], explicit.Factor[1], explicit.Factor[2]}
		default:
			c.Factor = [3]float32{1, 1, 1}
		}
		return nil
	default:
		return fmt.Errorf("unsupported channel node kind %v", value.Kind)
	}
}

// LoadPSF reads a persisted scene format YAML file from disk and builds a
// scene.Scene from it. Texture paths in the document are resolved
// relative to the document's own directory.
func LoadPSF(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read psf %q: %w", path, err)
	}

	var doc psfDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse psf %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	models := make([]scene.Model, 0, len(doc.Models))
	for i, pm := range doc.Models {
		mat, err := buildPSFMaterial(pm.Material, dir)
		if err != nil {
			return nil, fmt.Errorf("psf model %d material: %w", i, err)
		}
		switch pm.Type {
		case "sphere":
			models = append(models, scene.NewSphereModel(scene.Sphere{
				Center: vecFromArray(pm.Center),
				Radius: pm.Radius,
			}, mat))
		case "mesh":
			tris := make([]scene.Triangle, len(pm.Triangles))
			for j, pt := range pm.Triangles {
				tris[j] = scene.Triangle{
					V0: vertexFromPSF(pt.V0),
					V1: vertexFromPSF(pt.V1),
					V2: vertexFromPSF(pt.V2),
				}
			}
			models = append(models, scene.NewMeshModel(tris, mat))
		default:
			return nil, fmt.Errorf("psf model %d: unknown type %q", i, pm.Type)
		}
	}

	lights := make([]scene.Light, 0, len(doc.Lights))
	for i, pl := range doc.Lights {
		switch pl.Type {
		case "point":
			lights = append(lights, scene.Light{
				Kind:     scene.LightPoint,
				Position: vecFromArray(pl.Position),
				Size:     pl.Size,
				Color:    vecFromArray(pl.Color),
			})
		case "directional":
			lights = append(lights, scene.Light{
				Kind:      scene.LightDirectional,
				Direction: vecFromArray(pl.Direction),
				Color:     vecFromArray(pl.Color),
			})
		default:
			return nil, fmt.Errorf("psf light %d: unknown type %q", i, pl.Type)
		}
	}

	camera := scene.Camera{
		Transform: mat4FromArray(doc.Camera.Transform),
		FOV:       doc.Camera.FOV,
		ZNear:     doc.Camera.ZNear,
		ZFar:      doc.Camera.ZFar,
	}

	return scene.NewScene(models, lights, vecFromArray(doc.Background), camera), nil
}

func buildPSFMaterial(pm psfMaterial, dir string) (scene.Material, error) {
	mat := scene.NewMaterial(
		vecFromArray(pm.Albedo.Factor),
		vecFromArray(pm.Emissive.Factor),
		pm.Opacity.Factor[0],
		pm.Metalness.Factor[0],
		pm.Roughness.Factor[0],
		pm.IOR,
	)

	var err error
	if mat.Albedo.Texture, err = loadPSFTexture(pm.Albedo.Texture, dir); err != nil {
		return mat, err
	}
	if mat.Emissive.Texture, err = loadPSFTexture(pm.Emissive.Texture, dir); err != nil {
		return mat, err
	}
	if mat.Opacity.Texture, err = loadPSFTexture(pm.Opacity.Texture, dir); err != nil {
		return mat, err
	}
	if mat.Metalness.Texture, err = loadPSFTexture(pm.Metalness.Texture, dir); err != nil {
		return mat, err
	}
	if mat.Roughness.Texture, err = loadPSFTexture(pm.Roughness.Texture, dir); err != nil {
		return mat, err
	}
	if mat.NormalMap, err = loadPSFTexture(pm.NormalTexture, dir); err != nil {
		return mat, err
	}
	return mat, nil
}

func loadPSFTexture(relPath, dir string) (*scene.Texture, error) {
	if relPath == "" {
		return nil, nil
	}
	tex, err := scene.LoadTexture(filepath.Join(dir, relPath))
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func vecFromArray(a [3]float32) rmath.Vec3 {
	return rmath.NewVec3(a[0], a[1], a[2])
}

func vertexFromPSF(v psfVertex) scene.Vertex {
	return scene.Vertex{
		Position: vecFromArray(v.Position),
		Normal:   vecFromArray(v.Normal),
		UV:       rmath.NewVec2(v.UV[0], v.UV[1]),
	}
}

func mat4FromArray(a [4][4]float32) rmath.Mat4 {
	var m rmath.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = a[i][j]
		}
	}
	return m
}
