package threeds

import (
	"math"

	"github.com/Faultbox/scene3ds/pkg/scene"
)

// Optional holds a value that may be absent from the file. Zero is a
// legitimate value for most fields (a fully transparent material), so
// absence is tracked explicitly rather than encoded in the value.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// Or returns the value if present, otherwise def.
func (o Optional[T]) Or(def T) T {
	if o.Present {
		return o.Value
	}
	return def
}

// Percent is an optional fraction; PERCENT_W values are stored divided by 100.
type Percent = Optional[float32]

// OptColor is an optional RGB colour.
type OptColor = Optional[scene.Color]

// parsePercentage scans the budget for the first percentage micro-chunk.
func (p *parser) parsePercentage(c *Cursor) Percent {
	var out Percent
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		if out.Present {
			return nil
		}
		pct, err := readPercent(h.Kind, sub)
		out = pct
		return err
	})
	return out
}

// readPercent decodes a single PERCENT_W or PERCENT_F payload. Other kinds
// and non-finite floats yield an absent value.
func readPercent(kind ChunkKind, sub *Cursor) (Percent, error) {
	switch kind {
	case ChunkPercentW:
		v, err := sub.I16()
		if err != nil {
			return Percent{}, err
		}
		return Some(float32(v) / 100), nil
	case ChunkPercentF:
		v, err := sub.F32()
		if err != nil || !finite(v) {
			return Percent{}, err
		}
		return Some(v), nil
	}
	return Percent{}, nil
}

// parseColor scans the budget for the first colour micro-chunk. With
// acceptPercent, a percentage chunk is read as a grey level.
func (p *parser) parseColor(c *Cursor, acceptPercent bool) OptColor {
	var out OptColor
	p.walk(c, func(h ChunkHeader, sub *Cursor) error {
		if out.Present {
			return nil
		}
		switch h.Kind {
		case ChunkColorF, ChunkLinColorF:
			v, err := sub.Vec3()
			if err != nil {
				return err
			}
			if v.IsFinite() {
				out = Some(scene.Color{R: v.X, G: v.Y, B: v.Z})
			}
		case ChunkColor24, ChunkLinColor24:
			b, err := sub.take(3)
			if err != nil {
				return err
			}
			out = Some(scene.Color{
				R: float32(b[0]) / 255,
				G: float32(b[1]) / 255,
				B: float32(b[2]) / 255,
			})
		case ChunkPercentW, ChunkPercentF:
			if !acceptPercent {
				return nil
			}
			pct, err := readPercent(h.Kind, sub)
			if pct.Present {
				out = Some(scene.Color{R: pct.Value, G: pct.Value, B: pct.Value})
			}
			return err
		}
		return nil
	})
	return out
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
