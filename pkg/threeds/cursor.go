package threeds

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Faultbox/scene3ds/pkg/math"
)

// HeaderSize is the size of a chunk header: 2-byte kind + 4-byte length.
const HeaderSize = 6

// ChunkHeader is the header preceding every chunk.
type ChunkHeader struct {
	Kind   ChunkKind
	Length uint32 // total length including the header
	Offset int    // absolute offset of the header in the buffer
}

// PayloadLength returns the number of bytes following the header.
func (h ChunkHeader) PayloadLength() int {
	return int(h.Length) - HeaderSize
}

// Cursor reads little-endian values from a bounded window of the file
// buffer. The window is the length budget of the chunk being decoded; no
// read ever crosses it.
type Cursor struct {
	data []byte
	base int // absolute offset of data[0]
	off  int
}

// NewCursor returns a cursor over the whole buffer.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining returns the number of unread bytes in the budget.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}

// Offset returns the absolute offset of the next unread byte.
func (c *Cursor) Offset() int {
	return c.base + c.off
}

// Skip advances n bytes, stopping at the end of the budget.
func (c *Cursor) Skip(n int) {
	if n > c.Remaining() {
		n = c.Remaining()
	}
	c.off += n
}

// SkipRest consumes the remaining budget.
func (c *Cursor) SkipRest() {
	c.off = len(c.data)
}

// ReadHeader reads the next chunk header.
func (c *Cursor) ReadHeader() (ChunkHeader, error) {
	if c.Remaining() < HeaderSize {
		return ChunkHeader{}, fmt.Errorf("%w: header needs %d bytes at offset %d, %d left",
			ErrTruncatedChunk, HeaderSize, c.Offset(), c.Remaining())
	}
	h := ChunkHeader{
		Kind:   ChunkKind(binary.LittleEndian.Uint16(c.data[c.off:])),
		Length: binary.LittleEndian.Uint32(c.data[c.off+2:]),
		Offset: c.Offset(),
	}
	c.off += HeaderSize
	return h, nil
}

// Enter returns a cursor bounded to the payload of h, whose header was just
// read, and advances c past the chunk. If the declared length is shorter
// than a header or does not fit the remaining budget, c skips to its end
// (there is no way to locate the next sibling) and ErrMalformedChunk is
// returned.
func (c *Cursor) Enter(h ChunkHeader) (*Cursor, error) {
	payload := h.PayloadLength()
	if h.Length < HeaderSize || payload > c.Remaining() {
		left := c.Remaining()
		c.SkipRest()
		return nil, fmt.Errorf("%w: %s at offset %d declares %d bytes, %d left",
			ErrMalformedChunk, h.Kind, h.Offset, h.Length, left+HeaderSize)
	}
	sub := &Cursor{
		data: c.data[c.off : c.off+payload],
		base: c.Offset(),
	}
	c.off += payload
	return sub, nil
}

// take returns the next n bytes.
func (c *Cursor) take(n int) ([]byte, error) {
	if n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d left",
			ErrTruncatedChunk, n, c.Offset(), c.Remaining())
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// U8 reads an unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// I16 reads a little-endian int16.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// F32 reads a little-endian IEEE 754 float32.
func (c *Cursor) F32() (float32, error) {
	v, err := c.U32()
	return gomath.Float32frombits(v), err
}

// Vec3 reads three float32 values.
func (c *Cursor) Vec3() (math.Vec3, error) {
	b, err := c.take(12)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{
		X: gomath.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: gomath.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: gomath.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}, nil
}

// CString reads a null-terminated string. A string running to the end of
// the budget without a terminator is returned as-is.
func (c *Cursor) CString() []byte {
	rest := c.data[c.off:]
	for i, b := range rest {
		if b == 0 {
			c.off += i + 1
			return rest[:i]
		}
	}
	c.off = len(c.data)
	return rest
}
