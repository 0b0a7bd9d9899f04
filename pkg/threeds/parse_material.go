package threeds

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/pkg/scene"
)

// mapSlots maps texture map chunks to material slots.
var mapSlots = map[ChunkKind]scene.TextureSlot{
	ChunkMatTexMap:   scene.SlotDiffuse,
	ChunkMatTex2Map:  scene.SlotDiffuse2,
	ChunkMatSpecMap:  scene.SlotSpecular,
	ChunkMatOpacMap:  scene.SlotOpacity,
	ChunkMatReflMap:  scene.SlotReflection,
	ChunkMatBumpMap:  scene.SlotBump,
	ChunkMatShinMap:  scene.SlotShininess,
	ChunkMatSelfIMap: scene.SlotSelfIllumine,
}

func (p *parser) parseMaterial(c *Cursor) {
	mat := Material{Maps: make(map[scene.TextureSlot]*Texture)}
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkMatName:
			mat.Name = p.name(sub.CString())
		case ChunkMatAmbient:
			mat.Ambient = p.parseColor(sub, true)
		case ChunkMatDiffuse:
			mat.Diffuse = p.parseColor(sub, true)
		case ChunkMatSpecular:
			mat.Specular = p.parseColor(sub, true)
		case ChunkMatShininess:
			mat.Shininess = p.parsePercentage(sub)
		case ChunkMatShinStr:
			mat.ShininessStrength = p.parsePercentage(sub)
		case ChunkMatTransp:
			mat.Transparency = p.parsePercentage(sub)
		case ChunkMatSelfIllum:
			mat.SelfIllum = p.parsePercentage(sub)
		case ChunkMatTwoSide:
			mat.TwoSided = true
		case ChunkMatWire:
			mat.Wireframe = true
		case ChunkMatShading:
			v, err := sub.U16()
			if err != nil {
				return err
			}
			mat.Shading = Some(scene.ShadingMode(v))
		default:
			if slot, ok := mapSlots[h.Kind]; ok {
				mat.Maps[slot] = p.parseTexture(sub)
			}
		}
		return nil
	})

	if mat.Name == "" {
		p.warn("material without a name", zap.Int("index", len(p.model.Materials)))
	}
	p.model.Materials = append(p.model.Materials, mat)
}

// parseTexture reads one map slot. Missing transform fields keep their
// identity values.
func (p *parser) parseTexture(c *Cursor) *Texture {
	tex := newTexture()
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		switch h.Kind {
		case ChunkPercentW, ChunkPercentF:
			pct, err := readPercent(h.Kind, sub)
			if pct.Present {
				tex.Strength = pct
			}
			return err
		case ChunkMapName:
			tex.Path = p.name(sub.CString())
		case ChunkMapTiling:
			v, err := sub.U16()
			tex.Tiling = v
			return err
		case ChunkMapUScale, ChunkMapVScale, ChunkMapUOffset, ChunkMapVOffset, ChunkMapAngle:
			v, err := sub.F32()
			if err != nil {
				return err
			}
			if !finite(v) {
				p.warn("ignoring non-finite texture parameter", zap.Stringer("chunk", h.Kind))
				return nil
			}
			p.setTextureParam(tex, h.Kind, v)
		}
		return nil
	})
	return tex
}

func (p *parser) setTextureParam(tex *Texture, kind ChunkKind, v float32) {
	switch kind {
	case ChunkMapUScale, ChunkMapVScale:
		// A zero scale would collapse every coordinate; keep identity instead.
		if v == 0 {
			p.warn("ignoring zero texture scale", zap.Stringer("chunk", kind))
			return
		}
		if kind == ChunkMapUScale {
			tex.Scale.X = v
		} else {
			tex.Scale.Y = v
		}
	case ChunkMapUOffset:
		tex.Offset.X = v
	case ChunkMapVOffset:
		tex.Offset.Y = v
	case ChunkMapAngle:
		tex.Rotation = float32(float64(v) * gomath.Pi / 180)
	}
}
