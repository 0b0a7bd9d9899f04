//go:build ignore

// This program generates a test 3DS file for unit tests.
// Run with: go run generate_box.go
package main

import (
	"bytes"
	"encoding/binary"
	"os"
)

// chunk encodes a chunk header followed by the concatenated parts.
func chunk(kind uint16, parts ...[]byte) []byte {
	payload := bytes.Join(parts, nil)
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, kind)
	binary.Write(&buf, binary.LittleEndian, uint32(6+len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func le(values ...any) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func track(kind uint16, value ...float32) []byte {
	return chunk(kind,
		le(uint16(0), uint32(0), uint32(0)), // flags, reserved
		le(uint32(1), uint32(0), uint16(0)), // one key at frame 0, no spline data
		le(value))
}

func main() {
	// Unit cube around the origin.
	var verts [][3]float32
	for _, z := range []float32{-1, 1} {
		verts = append(verts, [3]float32{-1, -1, z}, [3]float32{1, -1, z}, [3]float32{1, 1, z}, [3]float32{-1, 1, z})
	}
	faces := [][3]uint16{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{2, 3, 7}, {2, 7, 6}, // back
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	}

	vertList := le(uint16(len(verts)))
	mapList := le(uint16(len(verts)))
	for _, v := range verts {
		vertList = append(vertList, le(v)...)
		mapList = append(mapList, le((v[0]+1)/2, (v[1]+1)/2)...)
	}

	faceList := le(uint16(len(faces)))
	faceIDs := le(uint16(len(faces)))
	smoothing := []byte{}
	for i, f := range faces {
		faceList = append(faceList, le(f, uint16(0))...)
		faceIDs = append(faceIDs, le(uint16(i))...)
		smoothing = append(smoothing, le(uint32(1)<<(i/2))...)
	}

	trimesh := chunk(0x4100,
		chunk(0x4110, vertList),
		chunk(0x4140, mapList),
		chunk(0x4160, le([12]float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0})),
		chunk(0x4120, faceList,
			chunk(0x4130, cstr("Crate"), faceIDs),
			chunk(0x4150, smoothing)))

	material := chunk(0xAFFF,
		chunk(0xA000, cstr("Crate")),
		chunk(0xA020, chunk(0x0011, []byte{200, 160, 120})),
		chunk(0xA030, chunk(0x0011, []byte{255, 255, 255})),
		chunk(0xA040, chunk(0x0030, le(int16(25)))),
		chunk(0xA100, le(uint16(3))),
		chunk(0xA200,
			chunk(0x0030, le(int16(100))),
			chunk(0xA300, cstr("crate.tga")),
			chunk(0xA354, le(float32(2)))))

	editor := chunk(0x3D3D,
		chunk(0x3D3E, le(uint32(3))),
		chunk(0x0100, le(float32(1))),
		material,
		chunk(0x4000, cstr("Box"), trimesh))

	group := chunk(0xB002,
		chunk(0xB030, le(int16(0))),
		chunk(0xB010, cstr("$$$DUMMY"), le(uint16(0), uint16(0), int16(0))),
		chunk(0xB011, cstr("Group")),
		track(0xB020, 0, 0, 5))
	box := chunk(0xB002,
		chunk(0xB030, le(int16(1))),
		chunk(0xB010, cstr("Box"), le(uint16(0), uint16(0), int16(1))),
		chunk(0xB013, le(float32(0), float32(0), float32(0))),
		track(0xB020, 0, 0, 0),
		track(0xB021, 0, 0, 0, 1),
		track(0xB022, 1, 1, 1))
	keyframer := chunk(0xB000,
		chunk(0xB00A, le(uint16(5)), cstr("box"), le(uint32(100))),
		group,
		box)

	data := chunk(0x4D4D, chunk(0x0002, le(uint32(3))), editor, keyframer)

	if err := os.WriteFile("box.3ds", data, 0644); err != nil {
		panic(err)
	}

	println("Generated box.3ds:", len(data), "bytes")
	println("  - 1 mesh (Box: 8 vertices, 12 faces, 6 smoothing groups)")
	println("  - 1 material (Crate, diffuse map crate.tga)")
	println("  - 2 nodes (Group > Box)")
}
