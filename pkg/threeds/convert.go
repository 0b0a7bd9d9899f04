package threeds

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/pkg/math"
	"github.com/Faultbox/scene3ds/pkg/scene"
)

const (
	// DefaultMaterialName names the material given to faces without one.
	// It is dropped from the scene if no face ends up using it.
	DefaultMaterialName = "DefaultMaterial"

	// RootNodeName names the synthetic scene root.
	RootNodeName = "3DSRoot"
)

// Values substituted for material channels the file does not specify.
var (
	DefaultAmbient           = scene.Color{}
	DefaultDiffuse           = scene.Color{R: 0.6, G: 0.6, B: 0.6}
	DefaultSpecular          = scene.Color{}
	DefaultShininess         float32
	DefaultShininessStrength float32 = 1
	DefaultShading                   = scene.ShadingGouraud
)

// converter carries the state of one Convert call.
type converter struct {
	log   *zap.Logger
	model *Model
	out   *scene.Scene

	defaultMaterial int
	materialUsed    []bool
	meshUsed        []bool
}

// Convert builds the output scene from a decoded model and its node graph.
// Meshes should already have been passed through NormalizeMesh. Meshes are
// split so that each output mesh uses one material, attached to the graph
// node whose object name matches, and moved into that node's local space.
// Meshes no node refers to hang off the root in world space.
func Convert(model *Model, graph *NodeGraph, log *zap.Logger) *scene.Scene {
	if log == nil {
		log = zap.NewNop()
	}
	cv := &converter{
		log:   log,
		model: model,
		out: &scene.Scene{
			Ambient:         model.Ambient.Or(DefaultAmbient),
			BackgroundImage: model.BackgroundImage,
		},
		meshUsed: make([]bool, len(model.Meshes)),
	}
	if model.BackgroundColor.Present {
		bg := model.BackgroundColor.Value
		cv.out.BackgroundColor = &bg
	}

	cv.convertMaterials()

	root := &scene.Node{Name: RootNodeName, Transform: math.Identity()}
	if graph != nil {
		for _, child := range graph.Root.Children {
			root.AddChild(cv.convertNode(child))
		}
	}
	for i, mesh := range model.Meshes {
		if cv.meshUsed[i] {
			continue
		}
		node := &scene.Node{Name: mesh.Name, Transform: math.Identity()}
		node.Meshes = cv.emitMesh(mesh, math.Identity(), math.Identity(), math.Vec3{})
		root.AddChild(node)
	}

	scale := model.MasterScale.Or(1)
	root.Transform = math.Scale(scale, scale, scale).Mul(root.Transform)
	cv.out.Root = root

	if !cv.materialUsed[cv.defaultMaterial] {
		cv.out.Materials = cv.out.Materials[:cv.defaultMaterial]
	}
	return cv.out
}

func (cv *converter) convertMaterials() {
	ambient := cv.out.Ambient
	for i := range cv.model.Materials {
		cv.out.Materials = append(cv.out.Materials, convertMaterial(&cv.model.Materials[i], ambient))
	}
	cv.defaultMaterial = len(cv.out.Materials)
	cv.out.Materials = append(cv.out.Materials, convertMaterial(&Material{Name: DefaultMaterialName}, ambient))
	cv.materialUsed = make([]bool, len(cv.out.Materials))
}

// convertMaterial replaces every absent channel with its default. A missing
// ambient colour takes the scene ambient.
func convertMaterial(m *Material, sceneAmbient scene.Color) *scene.Material {
	diffuse := m.Diffuse.Or(DefaultDiffuse)
	selfIllum := clamp01(m.SelfIllum.Or(0))
	out := &scene.Material{
		Name:              m.Name,
		Ambient:           m.Ambient.Or(sceneAmbient),
		Diffuse:           diffuse,
		Specular:          m.Specular.Or(DefaultSpecular),
		Emissive:          scene.Color{R: diffuse.R * selfIllum, G: diffuse.G * selfIllum, B: diffuse.B * selfIllum},
		Shininess:         m.Shininess.Or(DefaultShininess),
		ShininessStrength: m.ShininessStrength.Or(DefaultShininessStrength),
		Opacity:           1 - clamp01(m.Transparency.Or(0)),
		TwoSided:          m.TwoSided,
		Wireframe:         m.Wireframe,
		Shading:           m.Shading.Or(DefaultShading),
		Textures:          make(map[scene.TextureSlot]scene.Texture),
	}
	for slot, tex := range m.Maps {
		if tex == nil || tex.Path == "" {
			continue
		}
		out.Textures[slot] = scene.Texture{Path: tex.Path, Strength: tex.Strength.Or(1)}
	}
	return out
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func (cv *converter) convertNode(g *GraphNode) *scene.Node {
	rec := &cv.model.Nodes[g.Record]
	node := &scene.Node{
		Name:      rec.DisplayName(),
		Transform: rec.LocalTransform(),
	}

	if rec.Kind == NodeObject {
		if i := cv.meshIndex(rec.Name); i >= 0 {
			mesh := cv.model.Meshes[i]
			toLocal, normalMat := math.Identity(), math.Identity()
			if mesh.HasMatrix {
				// Normals take the inverse transpose of toLocal.
				toLocal = mesh.Matrix.Inverse()
				normalMat = mesh.Matrix.Transpose()
			}
			node.Meshes = cv.emitMesh(mesh, toLocal, normalMat, rec.Pivot)
			cv.meshUsed[i] = true
		}
	}

	for _, child := range g.Children {
		node.AddChild(cv.convertNode(child))
	}
	return node
}

func (cv *converter) meshIndex(name string) int {
	for i, mesh := range cv.model.Meshes {
		if mesh.Name == name {
			return i
		}
	}
	return -1
}

// emitMesh splits mesh by face material, transforms each part by toLocal
// followed by subtracting pivot, and appends the parts to the scene. Normals
// are transformed by normalMat. It returns the new scene mesh indices.
func (cv *converter) emitMesh(mesh *Mesh, toLocal, normalMat math.Mat4, pivot math.Vec3) []int {
	order, groups := cv.groupFaces(mesh)
	indices := make([]int, 0, len(order))
	for _, mat := range order {
		part := buildPart(mesh, groups[mat], toLocal, normalMat, pivot)
		part.MaterialIndex = mat
		cv.materialUsed[mat] = true
		indices = append(indices, len(cv.out.Meshes))
		cv.out.Meshes = append(cv.out.Meshes, part)
	}
	if len(order) > 1 {
		cv.log.Debug("split mesh by material",
			zap.String("mesh", mesh.Name), zap.Int("parts", len(order)))
	}
	return indices
}

// groupFaces buckets face indices by output material, in order of first use.
func (cv *converter) groupFaces(mesh *Mesh) ([]int, map[int][]int) {
	var order []int
	groups := make(map[int][]int)
	for f := range mesh.Faces {
		mat := faceMaterial(mesh, f)
		if mat < 0 || mat >= cv.defaultMaterial {
			mat = cv.defaultMaterial
		}
		if _, ok := groups[mat]; !ok {
			order = append(order, mat)
		}
		groups[mat] = append(groups[mat], f)
	}
	return order, groups
}

func buildPart(mesh *Mesh, faces []int, toLocal, normalMat math.Mat4, pivot math.Vec3) *scene.Mesh {
	part := &scene.Mesh{
		Name:  mesh.Name,
		Faces: make([][3]uint32, 0, len(faces)),
	}
	hasUVs := len(mesh.UVs) == len(mesh.Vertices)
	hasNormals := len(mesh.Normals) == len(mesh.Vertices)
	remap := make(map[uint32]uint32)

	for _, f := range faces {
		var tri [3]uint32
		for k, v := range mesh.Faces[f] {
			idx, ok := remap[v]
			if !ok {
				idx = uint32(len(part.Positions))
				remap[v] = idx
				part.Positions = append(part.Positions, toLocal.TransformVec3(mesh.Vertices[v]).Sub(pivot))
				if hasNormals {
					part.Normals = append(part.Normals, normalMat.TransformDirection(mesh.Normals[v]).Normalize())
				}
				if hasUVs {
					part.UVs = append(part.UVs, mesh.UVs[v])
				}
			}
			tri[k] = idx
		}
		part.Faces = append(part.Faces, tri)
	}
	return part
}
