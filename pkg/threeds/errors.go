package threeds

import "errors"

// Import errors. Only ErrEmptyBuffer, ErrNotMainChunk and a truncated or
// malformed top-level chunk abort an import; the same conditions inside the
// chunk tree are contained to the affected sub-tree.
var (
	ErrEmptyBuffer    = errors.New("empty 3DS buffer")
	ErrTruncatedChunk = errors.New("truncated 3DS chunk")
	ErrMalformedChunk = errors.New("malformed 3DS chunk length")
	ErrNotMainChunk   = errors.New("not a 3DS file: missing MAIN chunk")
)
