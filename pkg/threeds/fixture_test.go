package threeds

import (
	"testing"

	"github.com/Faultbox/scene3ds/pkg/scene"
)

func TestImportBoxFixture(t *testing.T) {
	s, err := ImportFile("testdata/box.3ds", DefaultOptions())
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	group := s.Root.Find("Group")
	if group == nil || group.Parent != s.Root {
		t.Fatalf("Group = %+v", group)
	}
	if got := group.Transform.TransformVec3(vec3(0, 0, 0)); got != vec3(0, 0, 5) {
		t.Errorf("Group origin = %v, want (0, 0, 5)", got)
	}
	if len(group.Children) != 1 || group.Children[0].Name != "Box" {
		t.Fatalf("Group children = %+v", group.Children)
	}

	box := group.Children[0]
	if len(box.Meshes) != 1 {
		t.Fatalf("Box meshes = %d, want 1", len(box.Meshes))
	}
	mesh := s.Meshes[box.Meshes[0]]
	// Six hard-edged sides of four corners each.
	if len(mesh.Positions) != 24 || len(mesh.Faces) != 12 {
		t.Errorf("positions = %d, faces = %d, want 24 and 12", len(mesh.Positions), len(mesh.Faces))
	}
	if len(mesh.Normals) != 24 || len(mesh.UVs) != 24 {
		t.Errorf("normals = %d, UVs = %d", len(mesh.Normals), len(mesh.UVs))
	}
	for _, uv := range mesh.UVs {
		if uv.X != 0 && uv.X != 2 {
			t.Errorf("UV %v not scaled by the map's U scale", uv)
			break
		}
	}
	for i, n := range mesh.Normals {
		if !near(n.Length(), 1) {
			t.Errorf("normal %d = %v is not unit length", i, n)
		}
	}

	if len(s.Materials) != 1 {
		t.Fatalf("materials = %d, want 1", len(s.Materials))
	}
	crate := s.Materials[0]
	if crate.Name != "Crate" || crate.Shading != scene.ShadingPhong || !near(crate.Shininess, 0.25) {
		t.Errorf("material = %+v", crate)
	}
	if tex := crate.Textures[scene.SlotDiffuse]; tex.Path != "crate.tga" || tex.Strength != 1 {
		t.Errorf("diffuse texture = %+v", tex)
	}
	if crate.Ambient != DefaultAmbient {
		t.Errorf("ambient = %+v, want default", crate.Ambient)
	}
}

func TestChunkTreeBoxFixture(t *testing.T) {
	data := mustRead(t, "testdata/box.3ds")
	root, err := ReadChunkTree(data)
	if err != nil {
		t.Fatalf("ReadChunkTree: %v", err)
	}
	count := 0
	root.Walk(func(n *ChunkNode, _ int) {
		count++
		if n.Damaged {
			t.Errorf("%s at %d marked damaged", n.Header.Kind, n.Header.Offset)
		}
	})
	if int(root.Header.Length) != len(data) {
		t.Errorf("main length = %d, file is %d bytes", root.Header.Length, len(data))
	}
	if count < 30 {
		t.Errorf("only %d chunks found", count)
	}
}
