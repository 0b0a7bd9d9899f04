package threeds

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/pkg/encoding"
)

type parser struct {
	log   *zap.Logger
	names *encoding.Decoder
	model *Model
}

func newParser(opts Options) (*parser, error) {
	names, err := encoding.NewDecoder(opts.NameEncoding)
	if err != nil {
		return nil, fmt.Errorf("name encoding: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &parser{log: log, names: names, model: &Model{}}, nil
}

// Parse decodes a 3DS buffer into the intermediate model. It fails only if
// the buffer is empty or the MAIN chunk header is unusable; damage below the
// top level is logged and skipped.
func Parse(data []byte, opts Options) (*Model, error) {
	if len(data) == 0 {
		return nil, ErrEmptyBuffer
	}
	p, err := newParser(opts)
	if err != nil {
		return nil, err
	}

	c := NewCursor(data)
	h, err := c.ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("reading main chunk: %w", err)
	}
	if h.Kind != ChunkMain {
		return nil, fmt.Errorf("%w: found %s", ErrNotMainChunk, h.Kind)
	}
	if h.Length < HeaderSize {
		return nil, fmt.Errorf("%w: main chunk declares %d bytes", ErrMalformedChunk, h.Length)
	}
	if int(h.Length) > len(data) {
		p.warn("main chunk exceeds buffer, reading what is present",
			zap.Uint32("declared", h.Length), zap.Int("size", len(data)))
		h.Length = uint32(len(data))
	}

	main, err := c.Enter(h)
	if err != nil {
		return nil, err
	}
	p.parseMain(main)
	if c.Remaining() > 0 {
		p.log.Debug("ignoring data after main chunk", zap.Int("bytes", c.Remaining()))
	}

	for _, mesh := range p.model.Meshes {
		p.model.resolveFaceMaterials(mesh)
	}

	p.log.Debug("parsed 3DS model",
		zap.Int("meshes", len(p.model.Meshes)),
		zap.Int("materials", len(p.model.Materials)),
		zap.Int("nodes", len(p.model.Nodes)),
		zap.Int("warnings", p.model.Warnings))
	return p.model, nil
}

// ParseFile parses a 3DS file from disk.
func ParseFile(path string, opts Options) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading 3DS file: %w", err)
	}
	return Parse(data, opts)
}

// walk iterates the chunks in c's budget and calls fn for each with a cursor
// bounded to its payload. An error from fn abandons only that chunk. A
// header that does not fit abandons the rest of c, since no later sibling
// can be located.
func (p *parser) walk(c *Cursor, fn func(h ChunkHeader, sub *Cursor) error) {
	for c.Remaining() > 0 {
		if c.Remaining() < HeaderSize {
			p.warn("ignoring trailing bytes",
				zap.Int("offset", c.Offset()), zap.Int("bytes", c.Remaining()))
			c.SkipRest()
			return
		}
		h, err := c.ReadHeader()
		if err != nil {
			p.warn("reading chunk header", zap.Error(err))
			return
		}
		sub, err := c.Enter(h)
		if err != nil {
			p.warn("skipping rest of enclosing chunk", zap.Error(err))
			return
		}
		if err := fn(h, sub); err != nil {
			p.warn("skipping damaged chunk",
				zap.Stringer("chunk", h.Kind), zap.Int("offset", h.Offset), zap.Error(err))
		}
	}
}

func (p *parser) warn(msg string, fields ...zap.Field) {
	p.model.Warnings++
	p.log.Warn(msg, fields...)
}

func (p *parser) name(b []byte) string {
	return p.names.Decode(b)
}

func (p *parser) parseMain(c *Cursor) {
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkVersion:
			v, err := sub.U32()
			p.model.Version = v
			return err
		case ChunkEditor:
			p.parseEditor(sub)
		case ChunkKeyframer:
			p.parseKeyframer(sub)
		}
		return nil
	})
}

func (p *parser) parseEditor(c *Cursor) {
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkMeshVersion:
			v, err := sub.U32()
			p.model.MeshVersion = v
			return err
		case ChunkMasterScale:
			v, err := sub.F32()
			if err != nil {
				return err
			}
			if !finite(v) || v <= 0 {
				p.warn("ignoring invalid master scale", zap.Float32("scale", v))
				return nil
			}
			p.model.MasterScale = Some(v)
		case ChunkAmbient:
			p.model.Ambient = p.parseColor(sub, false)
		case ChunkBitmap:
			p.model.BackgroundImage = p.name(sub.CString())
		case ChunkUseBitmap:
			p.model.UseBackgroundImage = true
		case ChunkSolidBgnd:
			p.model.BackgroundColor = p.parseColor(sub, false)
		case ChunkObject:
			p.parseObject(sub)
		case ChunkMaterial:
			p.parseMaterial(sub)
		}
		return nil
	})
}
