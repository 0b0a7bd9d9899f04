package threeds

import (
	"errors"
	"testing"

	"github.com/Faultbox/scene3ds/pkg/math"
)

func TestParseFatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty buffer", nil, ErrEmptyBuffer},
		{"short header", []byte{0x4D, 0x4D, 0x10}, ErrTruncatedChunk},
		{"not a main chunk", chunk(ChunkEditor), ErrNotMainChunk},
		{"main shorter than header", rawHeader(ChunkMain, 2), ErrMalformedChunk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := Parse(tt.data, DefaultOptions())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if model != nil {
				t.Errorf("model = %+v, want nil", model)
			}
		})
	}
}

func TestParseMainLongerThanBuffer(t *testing.T) {
	data := file([][]byte{object("Box", vertList(vec3(0, 0, 0)))})
	// Declare twice the real size.
	copy(data[2:], u32(uint32(2*len(data))))

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(model.Meshes) != 1 {
		t.Errorf("meshes = %d, want 1", len(model.Meshes))
	}
	if model.Warnings == 0 {
		t.Error("expected a warning for the oversized main chunk")
	}
}

func TestParseMinimalMesh(t *testing.T) {
	data := file([][]byte{
		object("Box",
			vertList(vec3(0, 0, 0), vec3(1, 0, 0)),
			faceList([][3]uint16{{0, 1, 1}})),
	})

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if model.Version != 3 {
		t.Errorf("version = %d, want 3", model.Version)
	}
	if len(model.Meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(model.Meshes))
	}
	mesh := model.Meshes[0]
	if mesh.Name != "Box" {
		t.Errorf("name = %q", mesh.Name)
	}
	if len(mesh.Vertices) != 2 || mesh.Vertices[1] != vec3(1, 0, 0) {
		t.Errorf("vertices = %v", mesh.Vertices)
	}
	if len(mesh.Faces) != 1 || mesh.Faces[0] != [3]uint32{0, 1, 1} {
		t.Errorf("faces = %v", mesh.Faces)
	}
	if len(mesh.FaceMaterials) != 1 || mesh.FaceMaterials[0] != -1 {
		t.Errorf("face materials = %v, want [-1]", mesh.FaceMaterials)
	}
	if mesh.HasMatrix || !mesh.Matrix.IsIdentity() {
		t.Error("mesh without MESH_MATRIX should have identity matrix")
	}
	if model.Warnings != 0 {
		t.Errorf("warnings = %d, want 0", model.Warnings)
	}

	s, err := Import(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(s.Meshes) != 1 {
		t.Fatalf("scene meshes = %d, want 1", len(s.Meshes))
	}
	out := s.Meshes[0]
	if len(out.Normals) != len(out.Positions) || len(out.Normals) == 0 {
		t.Errorf("normals = %d for %d positions", len(out.Normals), len(out.Positions))
	}
	if len(out.UVs) != 0 {
		t.Errorf("UVs = %v, want none", out.UVs)
	}
}

func TestParseSkipsUnknownChunks(t *testing.T) {
	data := file([][]byte{
		chunk(ChunkKind(0x1234), []byte{1, 2, 3, 4, 5}),
		object("Box",
			chunk(ChunkKind(0x4111), u16(1, 2, 3)),
			vertList(vec3(1, 2, 3))),
	})

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(model.Meshes) != 1 || len(model.Meshes[0].Vertices) != 1 {
		t.Fatalf("meshes = %+v", model.Meshes)
	}
	if model.Warnings != 0 {
		t.Errorf("warnings = %d, want 0", model.Warnings)
	}
}

func TestParseContainsMalformedChunk(t *testing.T) {
	// The second material child declares more bytes than the material holds.
	broken := chunk(ChunkMaterial,
		chunk(ChunkMatName, cstr("Broken")),
		rawHeader(ChunkMatDiffuse, 1000),
		color24(1, 2, 3))

	data := file([][]byte{
		broken,
		object("Box", vertList(vec3(1, 2, 3))),
	})

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(model.Materials) != 1 || model.Materials[0].Name != "Broken" {
		t.Errorf("materials = %+v", model.Materials)
	}
	if model.Materials[0].Diffuse.Present {
		t.Error("diffuse decoded from malformed chunk")
	}
	if len(model.Meshes) != 1 {
		t.Errorf("sibling after malformed subtree lost: meshes = %d", len(model.Meshes))
	}
	if model.Warnings == 0 {
		t.Error("expected a warning")
	}
}

func TestParseTruncatedLists(t *testing.T) {
	// Vertex list declares 5 entries but carries 2; face list declares 3
	// faces but carries 1.
	verts := chunk(ChunkVertList, u16(5), f32(0, 0, 0, 1, 1, 1))
	faces := chunk(ChunkFaceList, u16(3), u16(0, 1, 0, 0))

	data := file([][]byte{object("Box", verts, faces)})
	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mesh := model.Meshes[0]
	if len(mesh.Vertices) != 2 {
		t.Errorf("vertices = %d, want 2", len(mesh.Vertices))
	}
	if len(mesh.Faces) != 1 {
		t.Errorf("faces = %d, want 1", len(mesh.Faces))
	}
	if model.Warnings != 2 {
		t.Errorf("warnings = %d, want 2", model.Warnings)
	}
}

func TestParseMeshMatrixAndUVs(t *testing.T) {
	matrix := chunk(ChunkMeshMatrix, f32(
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		10, 20, 30))

	data := file([][]byte{object("Box",
		vertList(vec3(10, 20, 30)),
		uvList(math.Vec2{X: 0.5, Y: 0.25}),
		matrix)})

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mesh := model.Meshes[0]
	if !mesh.HasMatrix {
		t.Fatal("matrix not recorded")
	}
	if got := mesh.Matrix.TransformVec3(vec3(0, 0, 0)); got != vec3(10, 20, 30) {
		t.Errorf("matrix origin = %v", got)
	}
	if len(mesh.UVs) != 1 || mesh.UVs[0] != (math.Vec2{X: 0.5, Y: 0.25}) {
		t.Errorf("UVs = %v", mesh.UVs)
	}
}

func TestParseFaceMaterialsAndSmoothing(t *testing.T) {
	data := file([][]byte{
		material("Red", chunk(ChunkMatDiffuse, color24(255, 0, 0))),
		material("Blue", chunk(ChunkMatDiffuse, color24(0, 0, 255))),
		object("Quad",
			vertList(vec3(0, 0, 0), vec3(1, 0, 0), vec3(1, 1, 0), vec3(0, 1, 0)),
			faceList([][3]uint16{{0, 1, 2}, {0, 2, 3}, {1, 2, 3}},
				faceMat("Blue", 1),
				faceMat("Red", 0, 7),
				faceMat("Missing", 2),
				chunk(ChunkSmoothList, u32(1, 1, 2)))),
	})

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mesh := model.Meshes[0]
	want := []int{0, 1, -1}
	for i, w := range want {
		if mesh.FaceMaterials[i] != w {
			t.Errorf("face %d material = %d, want %d", i, mesh.FaceMaterials[i], w)
		}
	}
	if len(mesh.SmoothingGroups) != 3 || mesh.SmoothingGroups[2] != 2 {
		t.Errorf("smoothing groups = %v", mesh.SmoothingGroups)
	}
}

func TestParseEditorSettings(t *testing.T) {
	data := file([][]byte{
		chunk(ChunkMeshVersion, u32(3)),
		chunk(ChunkMasterScale, f32(2.5)),
		chunk(ChunkAmbient, colorF(0.1, 0.1, 0.1)),
		chunk(ChunkBitmap, cstr("sky.tga")),
		chunk(ChunkUseBitmap),
		chunk(ChunkSolidBgnd, color24(0, 0, 255)),
	})

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if model.MeshVersion != 3 {
		t.Errorf("mesh version = %d", model.MeshVersion)
	}
	if model.MasterScale != Some(float32(2.5)) {
		t.Errorf("master scale = %+v", model.MasterScale)
	}
	if !model.Ambient.Present || !near(model.Ambient.Value.R, 0.1) {
		t.Errorf("ambient = %+v", model.Ambient)
	}
	if model.BackgroundImage != "sky.tga" || !model.UseBackgroundImage {
		t.Errorf("background = %q, use = %v", model.BackgroundImage, model.UseBackgroundImage)
	}
	if !model.BackgroundColor.Present || model.BackgroundColor.Value.B != 1 {
		t.Errorf("background colour = %+v", model.BackgroundColor)
	}
}

func TestParseInvalidMasterScale(t *testing.T) {
	for _, scale := range []float32{0, -1} {
		data := file([][]byte{chunk(ChunkMasterScale, f32(scale))})
		model, err := Parse(data, DefaultOptions())
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if model.MasterScale.Present {
			t.Errorf("scale %v accepted", scale)
		}
		if model.Warnings != 1 {
			t.Errorf("scale %v: warnings = %d, want 1", scale, model.Warnings)
		}
	}
}

func TestParseNameEncoding(t *testing.T) {
	// 0xC0 is CYRILLIC CAPITAL LETTER A in windows-1251.
	data := file([][]byte{object("\xc0", vertList(vec3(0, 0, 0)))})

	opts := DefaultOptions()
	opts.NameEncoding = "windows-1251"
	model, err := Parse(data, opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := model.Meshes[0].Name; got != "А" {
		t.Errorf("name = %q, want %q", got, "А")
	}

	opts.NameEncoding = "no-such-code-page"
	if _, err := Parse(data, opts); err == nil {
		t.Error("expected error for unknown code page")
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	editor := append(object("Box", vertList(vec3(0, 0, 0))), 0xAA, 0xBB)
	data := chunk(ChunkMain, chunk(ChunkEditor, editor))

	model, err := Parse(data, DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(model.Meshes) != 1 {
		t.Errorf("meshes = %d, want 1", len(model.Meshes))
	}
	if model.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", model.Warnings)
	}
}
