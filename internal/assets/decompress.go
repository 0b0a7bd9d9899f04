package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DefaultMaxModelSize caps the decompressed size of a model file.
const DefaultMaxModelSize int64 = 256 << 20

// ErrTooLarge is returned when decompressed data would exceed the limit.
var ErrTooLarge = errors.New("decompressed data exceeds size limit")

// compressedExts are the suffixes Decompress understands.
var compressedExts = map[string]bool{
	".lz4": true,
	".zst": true,
	".gz":  true,
}

// Decompress inflates data according to the extension of name, producing at
// most limit bytes (DefaultMaxModelSize if limit <= 0). Data with any other
// extension is returned unchanged.
func Decompress(name string, data []byte, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxModelSize
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lz4":
		return readLimited(lz4.NewReader(bytes.NewReader(data)), limit)
	case ".zst":
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(limit)))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) ||
			errors.Is(err, zstd.ErrFrameSizeExceeded) {
			return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
		}
		return out, err
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return readLimited(r, limit)
	default:
		return data, nil
	}
}

// readLimited reads r to the end, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return out, nil
}

// ModelName strips a compression suffix: "ship.3ds.gz" becomes "ship.3ds".
func ModelName(path string) string {
	if ext := filepath.Ext(path); compressedExts[strings.ToLower(ext)] {
		return strings.TrimSuffix(path, ext)
	}
	return path
}
