package threeds

import (
	"encoding/binary"
	gomath "math"
	"os"
	"testing"

	"github.com/Faultbox/scene3ds/pkg/math"
)

// chunk encodes a chunk with the concatenated parts as payload.
func chunk(kind ChunkKind, parts ...[]byte) []byte {
	var payload []byte
	for _, p := range parts {
		payload = append(payload, p...)
	}
	out := make([]byte, HeaderSize, HeaderSize+len(payload))
	binary.LittleEndian.PutUint16(out, uint16(kind))
	binary.LittleEndian.PutUint32(out[2:], uint32(HeaderSize+len(payload)))
	return append(out, payload...)
}

// rawHeader encodes a header with an arbitrary declared length.
func rawHeader(kind ChunkKind, length uint32) []byte {
	out := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(out, uint16(kind))
	binary.LittleEndian.PutUint32(out[2:], length)
	return out
}

func u16(vs ...uint16) []byte {
	out := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint16(out[2*i:], v)
	}
	return out
}

func i16(v int16) []byte {
	return u16(uint16(v))
}

func u32(vs ...uint32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func f32(vs ...float32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[4*i:], gomath.Float32bits(v))
	}
	return out
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

// file wraps editor chunks and keyframer chunks into a MAIN chunk.
func file(editor [][]byte, keyframer ...[]byte) []byte {
	parts := [][]byte{chunk(ChunkVersion, u32(3)), chunk(ChunkEditor, editor...)}
	if len(keyframer) > 0 {
		parts = append(parts, chunk(ChunkKeyframer, keyframer...))
	}
	return chunk(ChunkMain, parts...)
}

func object(name string, trimesh ...[]byte) []byte {
	return chunk(ChunkObject, cstr(name), chunk(ChunkTriMesh, trimesh...))
}

func vertList(vs ...math.Vec3) []byte {
	parts := [][]byte{u16(uint16(len(vs)))}
	for _, v := range vs {
		parts = append(parts, f32(v.X, v.Y, v.Z))
	}
	return chunk(ChunkVertList, parts...)
}

func uvList(uvs ...math.Vec2) []byte {
	parts := [][]byte{u16(uint16(len(uvs)))}
	for _, uv := range uvs {
		parts = append(parts, f32(uv.X, uv.Y))
	}
	return chunk(ChunkMapList, parts...)
}

// faceList encodes faces with zero flags followed by sub-chunks.
func faceList(faces [][3]uint16, subs ...[]byte) []byte {
	parts := [][]byte{u16(uint16(len(faces)))}
	for _, f := range faces {
		parts = append(parts, u16(f[0], f[1], f[2], 0))
	}
	parts = append(parts, subs...)
	return chunk(ChunkFaceList, parts...)
}

func faceMat(name string, faces ...uint16) []byte {
	return chunk(ChunkFaceMat, cstr(name), u16(uint16(len(faces))), u16(faces...))
}

func material(name string, subs ...[]byte) []byte {
	return chunk(ChunkMaterial, append([][]byte{chunk(ChunkMatName, cstr(name))}, subs...)...)
}

func color24(r, g, b byte) []byte {
	return chunk(ChunkColor24, []byte{r, g, b})
}

func colorF(r, g, b float32) []byte {
	return chunk(ChunkColorF, f32(r, g, b))
}

func percentW(v int16) []byte {
	return chunk(ChunkPercentW, i16(v))
}

// track encodes a keyframe track holding one key with the given spline
// flags; extra carries the spline floats those flags announce.
func track(kind ChunkKind, splineFlags uint16, extra []float32, value ...float32) []byte {
	return chunk(kind,
		u16(0), u32(0, 0), // flags, reserved
		u32(1),            // key count
		u32(0),            // frame
		u16(splineFlags),
		f32(extra...),
		f32(value...))
}

func nodeTag(kind ChunkKind, name string, hierarchy int16, subs ...[]byte) []byte {
	hdr := chunk(ChunkNodeHeader, cstr(name), u16(0, 0), i16(hierarchy))
	return chunk(kind, append([][]byte{hdr}, subs...)...)
}

func vec3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-4 && d > -1e-4
}

func nearVec3(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}
