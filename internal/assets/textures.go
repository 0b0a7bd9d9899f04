package assets

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
)

// TextureInfo describes a texture reference found in a model.
type TextureInfo struct {
	Ref    string // name as stored in the model
	Path   string // resolved file, empty if not found
	Format string
	Width  int
	Height int
	Size   int64
	Err    error // set when the file was found but could not be read
}

// Found reports whether the reference resolved to a file.
func (t *TextureInfo) Found() bool {
	return t.Path != ""
}

// configDecoders read image headers by file extension. TGA has no magic
// number, so the format cannot be sniffed.
var configDecoders = map[string]func(io.Reader) (image.Config, error){
	".tga":  tga.DecodeConfig,
	".bmp":  bmp.DecodeConfig,
	".png":  png.DecodeConfig,
	".jpg":  jpeg.DecodeConfig,
	".jpeg": jpeg.DecodeConfig,
}

// Resolve finds the file a texture reference points to. References are
// DOS-style: backslash separators and case-insensitive names. The model's
// directory is searched first, then the search paths.
func (m *Manager) Resolve(ref, modelDir string) (string, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	if rel == "" {
		return "", fmt.Errorf("%w: empty texture reference", ErrNotFound)
	}

	dirs := append([]string{modelDir}, m.SearchPaths()...)
	for _, dir := range dirs {
		if path, ok := findFold(dir, rel); ok {
			return path, nil
		}
		// Many files carry a path from the authoring machine; try the bare name.
		if base := filepath.Base(rel); base != rel {
			if path, ok := findFold(dir, base); ok {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: texture %s", ErrNotFound, ref)
}

// findFold looks for rel under dir, matching each path element without
// regard to case.
func findFold(dir, rel string) (string, bool) {
	path := filepath.Join(dir, rel)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}

	current := dir
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "" || part == "." {
			continue
		}
		entries, err := os.ReadDir(current)
		if err != nil {
			return "", false
		}
		match := ""
		for _, e := range entries {
			if strings.EqualFold(e.Name(), part) {
				match = e.Name()
				break
			}
		}
		if match == "" {
			return "", false
		}
		current = filepath.Join(current, match)
	}
	if info, err := os.Stat(current); err != nil || info.IsDir() {
		return "", false
	}
	return current, true
}

// ProbeTexture resolves a texture reference and reads its image header.
func (m *Manager) ProbeTexture(ref, modelDir string) TextureInfo {
	info := TextureInfo{Ref: ref}
	path, err := m.Resolve(ref, modelDir)
	if err != nil {
		m.log.Debug("texture not found", zap.String("ref", ref))
		return info
	}
	info.Path = path
	info.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	f, err := os.Open(path)
	if err != nil {
		info.Err = err
		return info
	}
	defer f.Close()

	if st, err := f.Stat(); err == nil {
		info.Size = st.Size()
	}

	decode, ok := configDecoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		info.Err = fmt.Errorf("unsupported texture format %q", info.Format)
		return info
	}
	cfg, err := decode(f)
	if err != nil {
		info.Err = fmt.Errorf("reading %s header: %w", info.Format, err)
		return info
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return info
}
