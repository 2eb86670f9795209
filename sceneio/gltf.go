// Package sceneio loads scene.Scene values from on-disk formats: glTF and
// the engine's own persisted scene format.
package sceneio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	rmath "pathtracer/math"
	"pathtracer/scene"
)

// LoadGLTF opens a .glb or .gltf file and builds a scene.Scene from its
// node hierarchy. Mesh geometry, metallic-roughness materials and their
// textures are read directly into scene.Material — no Blinn-Phong
// approximation is needed since the renderer implements Cook-Torrance
// natively. glTF carries no punctual-light or background-color concept
// in its core spec, so Lights is left empty and Background defaults to
// black; callers that need either should add them after loading.
func LoadGLTF(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	textures, err := loadGLTFTextures(doc, dir)
	if err != nil {
		return nil, err
	}
	materials := loadGLTFMaterials(doc, textures)

	meshTriangles := make([][]scene.Triangle, len(doc.Meshes))
	meshMaterial := make([][]int, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			tris, err := loadGLTFPrimitive(doc, *prim)
			if err != nil {
				return nil, fmt.Errorf("gltf mesh %d: %w", mi, err)
			}
			meshTriangles[mi] = append(meshTriangles[mi], tris...)
			matIdx := -1
			if prim.Material != nil {
				matIdx = *prim.Material
			}
			for range tris {
				meshMaterial[mi] = append(meshMaterial[mi], matIdx)
			}
		}
	}

	var models []scene.Model
	var camera scene.Camera
	haveCamera := false

	var walk func(nodeIdx int, parent rmath.Mat4)
	walk = func(nodeIdx int, parent rmath.Mat4) {
		gn := doc.Nodes[nodeIdx]
		local := nodeLocalTransform(gn)
		world := local.Mul(parent)

		if gn.Mesh != nil {
			tris := meshTriangles[*gn.Mesh]
			mats := meshMaterial[*gn.Mesh]
			byMaterial := make(map[int][]scene.Triangle)
			for i, t := range tris {
				byMaterial[mats[i]] = append(byMaterial[mats[i]], transformTriangle(t, world))
			}
			for matIdx, group := range byMaterial {
				mat := scene.NewMaterial(rmath.NewVec3(0.8, 0.8, 0.8), rmath.Vec3Zero, 1, 0, 0.5, 1.5)
				if matIdx >= 0 && matIdx < len(materials) {
					mat = materials[matIdx]
				}
				models = append(models, scene.NewMeshModel(group, mat))
			}
		}

		if gn.Camera != nil && !haveCamera {
			gc := doc.Cameras[*gn.Camera]
			if gc.Perspective != nil {
				fov := float32(gc.Perspective.Yfov)
				var near, far float32 = 0.1, 1000
				if gc.Perspective.Znear != 0 {
					near = float32(gc.Perspective.Znear)
				}
				if gc.Perspective.Zfar != nil {
					far = float32(*gc.Perspective.Zfar)
				}
				camera = scene.Camera{Transform: world, FOV: fov, ZNear: near, ZFar: far}
				haveCamera = true
			}
		}

		for _, c := range gn.Children {
			walk(c, world)
		}
	}

	roots := sceneRoots(doc)
	for _, r := range roots {
		walk(r, rmath.Mat4Identity())
	}

	if !haveCamera {
		camera = scene.Camera{
			Transform: rmath.Mat4Translation(rmath.NewVec3(0, 0, 5)),
			FOV:       0.8,
			ZNear:     0.1,
			ZFar:      1000,
		}
	}

	return scene.NewScene(models, nil, rmath.Vec3Zero, camera), nil
}

func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		roots := make([]int, len(doc.Scenes[*doc.Scene].Nodes))
		for i, idx := range doc.Scenes[*doc.Scene].Nodes {
			roots[i] = int(idx)
		}
		return roots
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			hasParent[c] = true
		}
	}
	var roots []int
	for i, has := range hasParent {
		if !has {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeLocalTransform builds the node's TRS (or explicit matrix) as a
// row-vector transform, matching this repository's Mat4 convention.
func nodeLocalTransform(gn *gltf.Node) rmath.Mat4 {
	if gn.Matrix != [16]float64{} {
		m := gn.Matrix
		var out rmath.Mat4
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				out[col][row] = float32(m[col*4+row])
			}
		}
		return out
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()

	scaleM := rmath.Mat4Scale(rmath.NewVec3(float32(s[0]), float32(s[1]), float32(s[2])))
	rotM := quatToMat4(float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3]))
	transM := rmath.Mat4Translation(rmath.NewVec3(float32(t[0]), float32(t[1]), float32(t[2])))

	return scaleM.Mul(rotM).Mul(transM)
}

// quatToMat4 builds a row-vector rotation matrix from a glTF [x,y,z,w]
// quaternion.
func quatToMat4(x, y, z, w float32) rmath.Mat4 {
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return rmath.Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

func transformTriangle(t scene.Triangle, m rmath.Mat4) scene.Triangle {
	return scene.Triangle{
		V0: transformVertex(t.V0, m),
		V1: transformVertex(t.V1, m),
		V2: transformVertex(t.V2, m),
	}
}

func transformVertex(v scene.Vertex, m rmath.Mat4) scene.Vertex {
	return scene.Vertex{
		Position: m.MulVec3(v.Position),
		Normal:   m.MulDir(v.Normal).Normalize(),
		UV:       v.UV,
	}
}

func loadGLTFTextures(doc *gltf.Document, dir string) ([]*scene.Texture, error) {
	textures := make([]*scene.Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		var tex *scene.Texture
		var err error
		switch {
		case img.BufferView != nil:
			raw, rerr := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if rerr != nil {
				return nil, fmt.Errorf("gltf image %d bufferview: %w", *gt.Source, rerr)
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("gltf_img_%d", *gt.Source)
			}
			tex, err = decodeImageBytes(name, raw)
		case img.URI != "" && !img.IsEmbeddedResource():
			tex, err = scene.LoadTexture(filepath.Join(dir, img.URI))
		}
		if err != nil {
			return nil, fmt.Errorf("gltf image %d: %w", *gt.Source, err)
		}
		textures[i] = tex
	}
	return textures, nil
}

func loadGLTFMaterials(doc *gltf.Document, textures []*scene.Texture) []scene.Material {
	materials := make([]scene.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := scene.NewMaterial(rmath.NewVec3(0.8, 0.8, 0.8), rmath.Vec3Zero, 1, 0, 0.5, 1.5)

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat = scene.NewMaterial(
				rmath.NewVec3(float32(cf[0]), float32(cf[1]), float32(cf[2])),
				rmath.Vec3Zero,
				float32(cf[3]),
				float32(pbr.MetallicFactorOrDefault()),
				float32(pbr.RoughnessFactorOrDefault()),
				1.5,
			)
			if pbr.BaseColorTexture != nil {
				mat.Albedo.Texture = textureAt(textures, pbr.BaseColorTexture.Index)
			}
		}
		if ef := gm.EmissiveFactor; ef != [3]float32{} {
			mat.Emissive.Factor = rmath.NewVec3(ef[0], ef[1], ef[2])
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			mat.NormalMap = textureAt(textures, *gm.NormalTexture.Index)
		}
		materials[i] = mat
	}
	return materials
}

func textureAt(textures []*scene.Texture, idx int) *scene.Texture {
	if idx >= 0 && idx < len(textures) {
		return textures[idx]
	}
	return nil
}

func loadGLTFPrimitive(doc *gltf.Document, prim gltf.Primitive) ([]scene.Triangle, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive missing POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]scene.Vertex, len(positions))
	for i, p := range positions {
		v := scene.Vertex{Position: rmath.NewVec3(p[0], p[1], p[2]), Normal: rmath.Vec3Up}
		if i < len(normals) {
			n := normals[i]
			v.Normal = rmath.NewVec3(n[0], n[1], n[2])
		}
		if i < len(uvs) {
			v.UV = rmath.NewVec2(uvs[i][0], uvs[i][1])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	tris := make([]scene.Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tris = append(tris, scene.Triangle{
			V0: verts[indices[i]],
			V1: verts[indices[i+1]],
			V2: verts[indices[i+2]],
		})
	}
	return tris, nil
}

func decodeImageBytes(name string, data []byte) (*scene.Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return &scene.Texture{Name: name, Width: bounds.Dx(), Height: bounds.Dy(), Pixels: rgba.Pix}, nil
}
