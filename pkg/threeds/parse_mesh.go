package threeds

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/pkg/math"
)

// Record sizes inside mesh chunks.
const (
	vertexSize = 12 // 3 x float32
	uvSize     = 8  // 2 x float32
	faceSize   = 8  // 3 x uint16 indices + uint16 flags
)

func (p *parser) parseObject(c *Cursor) {
	name := p.name(c.CString())
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkTriMesh:
			mesh := &Mesh{Name: name, Matrix: math.Identity()}
			p.model.Meshes = append(p.model.Meshes, mesh)
			p.parseTriMesh(sub, mesh)
		case ChunkLight, ChunkCamera:
			p.log.Debug("skipping object", zap.String("name", name), zap.Stringer("kind", h.Kind))
		}
		return nil
	})
}

func (p *parser) parseTriMesh(c *Cursor, mesh *Mesh) {
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkVertList:
			return p.parseVertices(sub, mesh)
		case ChunkMapList:
			return p.parseUVs(sub, mesh)
		case ChunkMeshMatrix:
			return p.parseMeshMatrix(sub, mesh)
		case ChunkFaceList:
			return p.parseFaces(sub, mesh)
		}
		return nil
	})
}

// count reads a uint16 element count and clamps it to the number of
// records of the given size left in the budget.
func (p *parser) count(c *Cursor, size int, what string) (int, error) {
	n, err := c.U16()
	if err != nil {
		return 0, err
	}
	count := int(n)
	if fit := c.Remaining() / size; count > fit {
		p.warn("list truncated",
			zap.String("list", what), zap.Int("declared", count), zap.Int("present", fit))
		count = fit
	}
	return count, nil
}

func (p *parser) parseVertices(c *Cursor, mesh *Mesh) error {
	n, err := p.count(c, vertexSize, "vertices")
	if err != nil {
		return err
	}
	mesh.Vertices = make([]math.Vec3, n)
	for i := range mesh.Vertices {
		if mesh.Vertices[i], err = c.Vec3(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseUVs(c *Cursor, mesh *Mesh) error {
	n, err := p.count(c, uvSize, "texture coordinates")
	if err != nil {
		return err
	}
	mesh.UVs = make([]math.Vec2, n)
	for i := range mesh.UVs {
		u, err := c.F32()
		if err != nil {
			return err
		}
		v, err := c.F32()
		if err != nil {
			return err
		}
		mesh.UVs[i] = math.Vec2{X: u, Y: v}
	}
	return nil
}

func (p *parser) parseMeshMatrix(c *Cursor, mesh *Mesh) error {
	var axes [4]math.Vec3
	for i := range axes {
		v, err := c.Vec3()
		if err != nil {
			return err
		}
		axes[i] = v
	}
	mesh.Matrix = math.FromAxes(axes[0], axes[1], axes[2], axes[3])
	mesh.HasMatrix = true
	return nil
}

func (p *parser) parseFaces(c *Cursor, mesh *Mesh) error {
	n, err := p.count(c, faceSize, "faces")
	if err != nil {
		return err
	}
	mesh.Faces = make([][3]uint32, n)
	mesh.FaceFlags = make([]uint16, n)
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			idx, err := c.U16()
			if err != nil {
				return err
			}
			mesh.Faces[i][j] = uint32(idx)
		}
		if mesh.FaceFlags[i], err = c.U16(); err != nil {
			return err
		}
	}

	// Material groups and smoothing groups follow the face records.
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkFaceMat:
			return p.parseFaceMaterial(sub, mesh)
		case ChunkSmoothList:
			return p.parseSmoothing(sub, mesh)
		}
		return nil
	})
	return nil
}

func (p *parser) parseFaceMaterial(c *Cursor, mesh *Mesh) error {
	group := MaterialGroup{Name: p.name(c.CString())}
	n, err := p.count(c, 2, "material faces")
	if err != nil {
		return err
	}
	group.Faces = make([]uint32, n)
	for i := range group.Faces {
		f, err := c.U16()
		if err != nil {
			return err
		}
		group.Faces[i] = uint32(f)
	}
	mesh.MaterialGroups = append(mesh.MaterialGroups, group)
	return nil
}

func (p *parser) parseSmoothing(c *Cursor, mesh *Mesh) error {
	n := len(mesh.Faces)
	if fit := c.Remaining() / 4; n > fit {
		p.warn("smoothing groups truncated", zap.Int("faces", n), zap.Int("present", fit))
		n = fit
	}
	mesh.SmoothingGroups = make([]uint32, n)
	for i := range mesh.SmoothingGroups {
		v, err := c.U32()
		if err != nil {
			return err
		}
		mesh.SmoothingGroups[i] = v
	}
	return nil
}
