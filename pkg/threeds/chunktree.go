package threeds

import "fmt"

// ChunkNode is a chunk in the raw chunk tree, used for inspecting files.
type ChunkNode struct {
	Header   ChunkHeader
	Prefix   int  // payload bytes ahead of the first child
	Damaged  bool // children stopped early at a malformed header
	Children []*ChunkNode
}

// Payload returns the payload length of the chunk.
func (n *ChunkNode) Payload() int {
	return n.Header.PayloadLength()
}

// Walk visits n and its descendants depth-first.
func (n *ChunkNode) Walk(fn func(node *ChunkNode, depth int)) {
	n.walk(fn, 0)
}

func (n *ChunkNode) walk(fn func(*ChunkNode, int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// ReadChunkTree reads the chunk structure of a 3DS buffer without decoding
// any payloads. Containers are descended into; every other chunk is a leaf.
// Like Parse it only fails when the main chunk header is unusable.
func ReadChunkTree(data []byte) (*ChunkNode, error) {
	if len(data) == 0 {
		return nil, ErrEmptyBuffer
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
		h.Length = uint32(len(data))
	}
	sub, err := c.Enter(h)
	if err != nil {
		return nil, err
	}
	return readChunkNode(h, sub), nil
}

func readChunkNode(h ChunkHeader, c *Cursor) *ChunkNode {
	node := &ChunkNode{Header: h}
	if !containerKinds[h.Kind] {
		return node
	}

	start := c.Remaining()
	switch h.Kind {
	case ChunkObject:
		c.CString()
	case ChunkFaceList:
		if n, err := c.U16(); err == nil {
			c.Skip(int(n) * faceSize)
		}
	}
	node.Prefix = start - c.Remaining()

	for c.Remaining() > 0 {
		ch, err := c.ReadHeader()
		if err != nil {
			node.Damaged = true
			return node
		}
		sub, err := c.Enter(ch)
		if err != nil {
			node.Damaged = true
			return node
		}
		node.Children = append(node.Children, readChunkNode(ch, sub))
	}
	return node
}
