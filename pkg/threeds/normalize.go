package threeds

import (
	gomath "math"

	"github.com/Faultbox/scene3ds/pkg/math"
)

// fallbackNormal is given to corners whose faces have no area.
var fallbackNormal = math.Vec3{Z: 1}

// NormalizeStats reports what NormalizeMesh changed.
type NormalizeStats struct {
	ClampedIndices  int  // face indices moved onto the last vertex
	DroppedFaces    int  // faces removed from a mesh without vertices
	UVsResized      bool // UV list padded or truncated to the vertex count
	NormalsComputed bool
	VerticesBefore  int
	VerticesAfter   int
}

// corner is one face corner with its full attribute set.
type corner struct {
	pos    math.Vec3
	uv     math.Vec2
	normal math.Vec3
}

// cornerKey compares corners bit for bit.
type cornerKey [8]uint32

func (c *corner) key() cornerKey {
	return cornerKey{
		gomath.Float32bits(c.pos.X), gomath.Float32bits(c.pos.Y), gomath.Float32bits(c.pos.Z),
		gomath.Float32bits(c.uv.X), gomath.Float32bits(c.uv.Y),
		gomath.Float32bits(c.normal.X), gomath.Float32bits(c.normal.Y), gomath.Float32bits(c.normal.Z),
	}
}

type positionKey [3]uint32

func posKey(v math.Vec3) positionKey {
	return positionKey{gomath.Float32bits(v.X), gomath.Float32bits(v.Y), gomath.Float32bits(v.Z)}
}

// NormalizeMesh makes a decoded mesh safe to convert. In order it clamps face
// indices into the vertex range, aligns the UV list with the vertex list,
// bakes the diffuse texture transform of each face's material into its UVs,
// generates smoothing-group aware normals when the mesh has none, and merges
// corners that are identical in position, UV and normal when deduplicate is
// set. Running it again on its own output changes nothing.
func NormalizeMesh(mesh *Mesh, materials []Material, deduplicate bool) NormalizeStats {
	st := NormalizeStats{VerticesBefore: len(mesh.Vertices)}
	st.ClampedIndices, st.DroppedFaces = clampIndices(mesh)
	st.UVsResized = alignUVs(mesh)

	if len(mesh.Faces) == 0 {
		if len(mesh.Normals) != len(mesh.Vertices) {
			mesh.Normals = make([]math.Vec3, len(mesh.Vertices))
			for i := range mesh.Normals {
				mesh.Normals[i] = fallbackNormal
			}
			st.NormalsComputed = true
		}
		mesh.UVsBaked = true
		st.VerticesAfter = len(mesh.Vertices)
		return st
	}

	hasUVs := len(mesh.UVs) > 0
	hasNormals := len(mesh.Normals) == len(mesh.Vertices)
	corners := unweld(mesh, hasUVs, hasNormals)

	if hasUVs && !mesh.UVsBaked {
		bakeUVs(mesh, materials, corners)
	}
	mesh.UVsBaked = true

	if !hasNormals {
		computeNormals(mesh, corners)
		st.NormalsComputed = true
	}

	if deduplicate {
		weld(mesh, corners, hasUVs)
	} else {
		expand(mesh, corners, hasUVs)
	}
	st.VerticesAfter = len(mesh.Vertices)
	return st
}

// clampIndices moves out-of-range face indices onto the last vertex. A mesh
// without vertices loses all its faces.
func clampIndices(mesh *Mesh) (clamped, dropped int) {
	if len(mesh.Vertices) == 0 {
		dropped = len(mesh.Faces)
		mesh.Faces = nil
		mesh.FaceFlags = nil
		mesh.FaceMaterials = nil
		mesh.SmoothingGroups = nil
		return 0, dropped
	}
	last := uint32(len(mesh.Vertices) - 1)
	for i := range mesh.Faces {
		for k := range mesh.Faces[i] {
			if mesh.Faces[i][k] > last {
				mesh.Faces[i][k] = last
				clamped++
			}
		}
	}
	return clamped, 0
}

// alignUVs pads with zeros or truncates a non-empty UV list so it has one
// entry per vertex.
func alignUVs(mesh *Mesh) bool {
	n := len(mesh.Vertices)
	switch {
	case len(mesh.UVs) == 0 || len(mesh.UVs) == n:
		return false
	case n == 0:
		mesh.UVs = nil
	case len(mesh.UVs) > n:
		mesh.UVs = mesh.UVs[:n]
	default:
		mesh.UVs = append(mesh.UVs, make([]math.Vec2, n-len(mesh.UVs))...)
	}
	return true
}

func unweld(mesh *Mesh, hasUVs, hasNormals bool) []corner {
	corners := make([]corner, 0, len(mesh.Faces)*3)
	for _, face := range mesh.Faces {
		for _, v := range face {
			c := corner{pos: mesh.Vertices[v]}
			if hasUVs {
				c.uv = mesh.UVs[v]
			}
			if hasNormals {
				c.normal = mesh.Normals[v]
			}
			corners = append(corners, c)
		}
	}
	return corners
}

func faceMaterial(mesh *Mesh, face int) int {
	if face < len(mesh.FaceMaterials) {
		return mesh.FaceMaterials[face]
	}
	return -1
}

func faceSmoothing(mesh *Mesh, face int) uint32 {
	if face < len(mesh.SmoothingGroups) {
		return mesh.SmoothingGroups[face]
	}
	return 0
}

// bakeUVs applies the diffuse map transform of each face's material to that
// face's corners.
func bakeUVs(mesh *Mesh, materials []Material, corners []corner) {
	for f := range mesh.Faces {
		mat := faceMaterial(mesh, f)
		if mat < 0 || mat >= len(materials) {
			continue
		}
		tex := materials[mat].DiffuseMap()
		if tex == nil || !tex.HasTransform() {
			continue
		}
		for k := 0; k < 3; k++ {
			c := &corners[f*3+k]
			c.uv = tex.TransformUV(c.uv)
		}
	}
}

// computeNormals gives every corner the normalized sum of the area-weighted
// normals of the faces that touch its position and share a smoothing group
// with its face. Faces in group 0 are flat.
func computeNormals(mesh *Mesh, corners []corner) {
	faceNormals := make([]math.Vec3, len(mesh.Faces))
	for f := range mesh.Faces {
		p0, p1, p2 := corners[f*3].pos, corners[f*3+1].pos, corners[f*3+2].pos
		faceNormals[f] = p1.Sub(p0).Cross(p2.Sub(p0))
	}

	touching := make(map[positionKey][]int)
	for f := range mesh.Faces {
		for k := 0; k < 3; k++ {
			key := posKey(corners[f*3+k].pos)
			faces := touching[key]
			if len(faces) > 0 && faces[len(faces)-1] == f {
				continue
			}
			touching[key] = append(faces, f)
		}
	}

	for f := range mesh.Faces {
		group := faceSmoothing(mesh, f)
		for k := 0; k < 3; k++ {
			c := &corners[f*3+k]
			sum := faceNormals[f]
			if group != 0 {
				for _, other := range touching[posKey(c.pos)] {
					if other != f && faceSmoothing(mesh, other)&group != 0 {
						sum = sum.Add(faceNormals[other])
					}
				}
			}
			n := sum.Normalize()
			if n == (math.Vec3{}) || !n.IsFinite() {
				n = fallbackNormal
			}
			c.normal = n
		}
	}
}

// weld rebuilds the vertex arrays with one vertex per distinct corner, in
// order of first use.
func weld(mesh *Mesh, corners []corner, hasUVs bool) {
	index := make(map[cornerKey]uint32, len(corners))
	vertices := make([]math.Vec3, 0, len(corners))
	normals := make([]math.Vec3, 0, len(corners))
	var uvs []math.Vec2
	if hasUVs {
		uvs = make([]math.Vec2, 0, len(corners))
	}

	for i := range corners {
		c := &corners[i]
		key := c.key()
		idx, ok := index[key]
		if !ok {
			idx = uint32(len(vertices))
			index[key] = idx
			vertices = append(vertices, c.pos)
			normals = append(normals, c.normal)
			if hasUVs {
				uvs = append(uvs, c.uv)
			}
		}
		mesh.Faces[i/3][i%3] = idx
	}

	mesh.Vertices = vertices
	mesh.Normals = normals
	mesh.UVs = uvs
}

// expand stores one vertex per corner.
func expand(mesh *Mesh, corners []corner, hasUVs bool) {
	mesh.Vertices = make([]math.Vec3, len(corners))
	mesh.Normals = make([]math.Vec3, len(corners))
	mesh.UVs = nil
	if hasUVs {
		mesh.UVs = make([]math.Vec2, len(corners))
	}
	for i := range corners {
		mesh.Vertices[i] = corners[i].pos
		mesh.Normals[i] = corners[i].normal
		if hasUVs {
			mesh.UVs[i] = corners[i].uv
		}
		mesh.Faces[i/3][i%3] = uint32(i)
	}
}
