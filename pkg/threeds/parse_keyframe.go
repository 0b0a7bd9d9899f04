package threeds

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/pkg/math"
)

// trackHeaderSize covers the track flags and two reserved words ahead of
// the key count.
const trackHeaderSize = 2 + 8

// parseKeyframer reads the node tags. KFHDR, KFSEG and KFCURTIME carry
// animation timing only and are consumed without interpretation.
func (p *parser) parseKeyframer(c *Cursor) {
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		if kind, ok := nodeTagKinds[h.Kind]; ok {
			p.parseNodeTag(sub, kind)
		}
		return nil
	})
}

// parseNodeTag emits one NodeRecord for a node tag that carries a NODE_HDR.
func (p *parser) parseNodeTag(c *Cursor, kind NodeKind) {
	rec := newNodeRecord(kind)
	hasHeader := false

	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkNodeHeader:
			hasHeader = true
			return p.parseHierarchy(sub, &rec)
		case ChunkInstanceName:
			rec.InstanceName = p.name(sub.CString())
		case ChunkNodeID:
			id, err := sub.I16()
			if err == nil {
				rec.NodeID = id
			}
			return err
		case ChunkPivot:
			v, err := sub.Vec3()
			if err == nil {
				rec.Pivot = v
			}
			return err
		case ChunkPosTrack:
			key, err := readFirstKey(sub, 3)
			if key != nil {
				rec.Position = math.Vec3{X: key[0], Y: key[1], Z: key[2]}
			}
			return err
		case ChunkRotTrack:
			key, err := readFirstKey(sub, 4)
			if key != nil {
				axis := math.Vec3{X: key[1], Y: key[2], Z: key[3]}
				rec.Rotation = math.QuatFromAxisAngle(axis, key[0])
			}
			return err
		case ChunkScaleTrack:
			key, err := readFirstKey(sub, 3)
			if key != nil {
				rec.Scale = math.Vec3{X: key[0], Y: key[1], Z: key[2]}
			}
			return err
		}
		return nil
	})

	if !hasHeader {
		p.warn("node tag without NODE_HDR", zap.Stringer("kind", kind))
		return
	}
	p.model.Nodes = append(p.model.Nodes, rec)
}

// parseHierarchy reads a NODE_HDR: name, two flag words and the hierarchy
// position. A truncated header keeps whatever was read before the cut.
func (p *parser) parseHierarchy(c *Cursor, rec *NodeRecord) error {
	rec.Name = p.name(c.CString())
	var err error
	if rec.Flags1, err = c.U16(); err != nil {
		return err
	}
	if rec.Flags2, err = c.U16(); err != nil {
		return err
	}
	pos, err := c.I16()
	if err != nil {
		return err
	}
	rec.Hierarchy = pos
	return nil
}

// readFirstKey returns the value of the first key of a track, width floats
// wide, or nil if the track has no keys. Later keys are not needed.
func readFirstKey(c *Cursor, width int) ([]float32, error) {
	if _, err := c.take(trackHeaderSize); err != nil {
		return nil, err
	}
	keys, err := c.U32()
	if err != nil || keys == 0 {
		return nil, err
	}
	if _, err := c.U32(); err != nil { // frame number
		return nil, err
	}
	flags, err := c.U16()
	if err != nil {
		return nil, err
	}
	// Tension, continuity, bias, ease-to and ease-from, one float each.
	for bit := 0; bit < 5; bit++ {
		if flags&(1<<bit) != 0 {
			if _, err := c.F32(); err != nil {
				return nil, err
			}
		}
	}
	key := make([]float32, width)
	for i := range key {
		if key[i], err = c.F32(); err != nil {
			return nil, err
		}
		if !finite(key[i]) {
			return nil, nil
		}
	}
	return key, nil
}
