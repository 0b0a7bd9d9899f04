// Package scene defines the engine-neutral scene graph produced by importers.
package scene

import (
	"fmt"

	"github.com/Faultbox/scene3ds/pkg/math"
)

// Color is a linear RGB colour with channels in 0..1.
type Color struct {
	R, G, B float32
}

// Scene is a fully converted scene.
type Scene struct {
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material

	Ambient         Color
	BackgroundImage string // empty if the file has none
	BackgroundColor *Color // nil if the file has none
}

// Node is a named, transformed node in the scene tree.
type Node struct {
	Name      string
	Transform math.Mat4 // local transform relative to Parent
	Meshes    []int     // indices into Scene.Meshes
	Parent    *Node
	Children  []*Node
}

// Mesh is a triangle mesh using a single material.
type Mesh struct {
	Name          string
	Positions     []math.Vec3
	Normals       []math.Vec3
	UVs           []math.Vec2 // empty, or one per position
	Faces         [][3]uint32
	MaterialIndex int // index into Scene.Materials
}

// ShadingMode is the material shading model.
type ShadingMode int

const (
	ShadingWire    ShadingMode = 0
	ShadingFlat    ShadingMode = 1
	ShadingGouraud ShadingMode = 2
	ShadingPhong   ShadingMode = 3
	ShadingMetal   ShadingMode = 4
)

// String returns a human-readable shading mode name.
func (s ShadingMode) String() string {
	switch s {
	case ShadingWire:
		return "Wire"
	case ShadingFlat:
		return "Flat"
	case ShadingGouraud:
		return "Gouraud"
	case ShadingPhong:
		return "Phong"
	case ShadingMetal:
		return "Metal"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// TextureSlot names the purpose of a texture on a material.
type TextureSlot string

const (
	SlotDiffuse      TextureSlot = "diffuse"
	SlotDiffuse2     TextureSlot = "diffuse2"
	SlotSpecular     TextureSlot = "specular"
	SlotOpacity      TextureSlot = "opacity"
	SlotReflection   TextureSlot = "reflection"
	SlotBump         TextureSlot = "bump"
	SlotShininess    TextureSlot = "shininess"
	SlotSelfIllumine TextureSlot = "self_illumination"
)

// Texture references an image file. UV transforms are already baked into the
// mesh texture coordinates.
type Texture struct {
	Path     string
	Strength float32
}

// Material is a converted surface description. Every field carries a value;
// absent source values have been replaced by defaults.
type Material struct {
	Name              string
	Ambient           Color
	Diffuse           Color
	Specular          Color
	Emissive          Color
	Shininess         float32
	ShininessStrength float32
	Opacity           float32
	TwoSided          bool
	Wireframe         bool
	Shading           ShadingMode
	Textures          map[TextureSlot]Texture
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn stops the descent into that node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// AddChild appends child to n and sets its parent.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Find returns the first node named name in depth-first order, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// GlobalTransform returns the product of the transforms from the root to n.
func (n *Node) GlobalTransform() math.Mat4 {
	m := n.Transform
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Transform.Mul(m)
	}
	return m
}

// NodeCount returns the number of nodes in the tree, including the root.
func (s *Scene) NodeCount() int {
	if s.Root == nil {
		return 0
	}
	count := 0
	s.Root.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// VertexCount returns the total number of vertices across all meshes.
func (s *Scene) VertexCount() int {
	total := 0
	for _, m := range s.Meshes {
		total += len(m.Positions)
	}
	return total
}

// FaceCount returns the total number of faces across all meshes.
func (s *Scene) FaceCount() int {
	total := 0
	for _, m := range s.Meshes {
		total += len(m.Faces)
	}
	return total
}
