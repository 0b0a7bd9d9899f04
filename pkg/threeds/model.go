package threeds

import (
	"fmt"

	"github.com/Faultbox/scene3ds/pkg/math"
	"github.com/Faultbox/scene3ds/pkg/scene"
)

// RootHierarchy is the hierarchy position (0xFFFF) of a node without a parent.
const RootHierarchy int16 = -1

// DummyName is the object name 3D Studio gives to dummy helper nodes; their
// display name is carried in INSTANCE_NAME.
const DummyName = "$$$DUMMY"

// NodeKind is the keyframer node tag a record came from.
type NodeKind int

const (
	NodeObject NodeKind = iota
	NodeAmbient
	NodeCamera
	NodeCameraTarget
	NodeLight
	NodeLightTarget
	NodeSpotlight
)

// String returns a human-readable node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeObject:
		return "Object"
	case NodeAmbient:
		return "Ambient"
	case NodeCamera:
		return "Camera"
	case NodeCameraTarget:
		return "CameraTarget"
	case NodeLight:
		return "Light"
	case NodeLightTarget:
		return "LightTarget"
	case NodeSpotlight:
		return "Spotlight"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// NodeRecord is one keyframer node, in file order. Its parent is not stored;
// it is implied by Hierarchy relative to the records before it.
type NodeRecord struct {
	Name         string
	InstanceName string
	Kind         NodeKind
	Hierarchy    int16 // depth position; RootHierarchy for none
	NodeID       int16 // NODE_ID value, -1 if absent
	Flags1       uint16
	Flags2       uint16

	Pivot    math.Vec3
	Position math.Vec3 // first position key
	Rotation math.Quat // first rotation key
	Scale    math.Vec3 // first scale key
}

func newNodeRecord(kind NodeKind) NodeRecord {
	return NodeRecord{
		Kind:      kind,
		Hierarchy: RootHierarchy,
		NodeID:    -1,
		Rotation:  math.QuatIdentity(),
		Scale:     math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// DisplayName returns the instance name for dummy nodes, otherwise Name.
func (r *NodeRecord) DisplayName() string {
	if r.Name == DummyName && r.InstanceName != "" {
		return r.InstanceName
	}
	return r.Name
}

// LocalTransform returns T(position) * R(rotation) * S(scale).
func (r *NodeRecord) LocalTransform() math.Mat4 {
	return math.Compose(r.Position, r.Rotation, r.Scale)
}

// MaterialGroup assigns the listed faces to a material by name.
type MaterialGroup struct {
	Name  string
	Faces []uint32
}

// Mesh is a triangle mesh as read from a TRIMESH chunk.
type Mesh struct {
	Name      string
	Vertices  []math.Vec3
	UVs       []math.Vec2
	Normals   []math.Vec3 // empty until generated
	Faces     [][3]uint32
	FaceFlags []uint16

	MaterialGroups  []MaterialGroup
	FaceMaterials   []int    // per face index into Model.Materials; -1 for none
	SmoothingGroups []uint32 // per face bitmask; empty if absent

	Matrix    math.Mat4 // local axes and origin from MESH_MATRIX
	HasMatrix bool

	UVsBaked bool // texture transforms already applied to UVs
}

// Texture is one material map slot.
type Texture struct {
	Path     string
	Strength Percent
	Offset   math.Vec2
	Scale    math.Vec2
	Rotation float32 // radians
	Tiling   uint16
}

func newTexture() *Texture {
	return &Texture{Scale: math.Vec2{X: 1, Y: 1}}
}

// HasTransform reports whether the UV transform differs from identity.
func (t *Texture) HasTransform() bool {
	return t.Offset != (math.Vec2{}) || t.Scale != (math.Vec2{X: 1, Y: 1}) || t.Rotation != 0
}

// TransformUV applies scale, then rotation about the origin, then offset.
func (t *Texture) TransformUV(uv math.Vec2) math.Vec2 {
	return uv.Mul(t.Scale).Rotate(t.Rotation).Add(t.Offset)
}

// Material is a material as read from a MATERIAL chunk. Channels missing from
// the file stay absent; defaults are applied by Convert.
type Material struct {
	Name              string
	Ambient           OptColor
	Diffuse           OptColor
	Specular          OptColor
	Shininess         Percent
	ShininessStrength Percent
	Transparency      Percent
	SelfIllum         Percent
	TwoSided          bool
	Wireframe         bool
	Shading           Optional[scene.ShadingMode]
	Maps              map[scene.TextureSlot]*Texture
}

// DiffuseMap returns the primary diffuse texture, or nil.
func (m *Material) DiffuseMap() *Texture {
	return m.Maps[scene.SlotDiffuse]
}

// Model is the intermediate scene filled in by the chunk decoders. It lives
// for a single import.
type Model struct {
	Version     uint32
	MeshVersion uint32

	Nodes     []NodeRecord
	Meshes    []*Mesh
	Materials []Material

	Ambient            OptColor
	MasterScale        Optional[float32]
	BackgroundImage    string
	UseBackgroundImage bool
	BackgroundColor    OptColor

	Warnings int // recovered anomalies
}

// MaterialIndex returns the index of the material named name, or -1.
func (m *Model) MaterialIndex(name string) int {
	for i := range m.Materials {
		if m.Materials[i].Name == name {
			return i
		}
	}
	return -1
}

// MeshByName returns the first mesh named name, or nil.
func (m *Model) MeshByName(name string) *Mesh {
	for _, mesh := range m.Meshes {
		if mesh.Name == name {
			return mesh
		}
	}
	return nil
}

// resolveFaceMaterials fills Mesh.FaceMaterials from the material groups.
// Faces without a group, or whose group names an unknown material, get -1.
// Out-of-range face indices in a group are ignored.
func (m *Model) resolveFaceMaterials(mesh *Mesh) {
	mesh.FaceMaterials = make([]int, len(mesh.Faces))
	for i := range mesh.FaceMaterials {
		mesh.FaceMaterials[i] = -1
	}
	for _, g := range mesh.MaterialGroups {
		idx := m.MaterialIndex(g.Name)
		for _, f := range g.Faces {
			if int(f) < len(mesh.FaceMaterials) {
				mesh.FaceMaterials[f] = idx
			}
		}
	}
}
