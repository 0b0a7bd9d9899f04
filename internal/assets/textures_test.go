package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func bmpBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	return buf.Bytes()
}

// tgaBytes builds an uncompressed 24-bit true-colour TGA.
func tgaBytes(w, h int) []byte {
	header := make([]byte, 18)
	header[2] = 2 // uncompressed true-colour
	binary.LittleEndian.PutUint16(header[12:], uint16(w))
	binary.LittleEndian.PutUint16(header[14:], uint16(h))
	header[16] = 24
	return append(header, make([]byte, w*h*3)...)
}

func TestProbeTexture(t *testing.T) {
	modelDir := t.TempDir()
	shared := t.TempDir()

	writeFile(t, filepath.Join(modelDir, "BRICK.TGA"), tgaBytes(8, 4))
	writeFile(t, filepath.Join(modelDir, "Maps", "wood.bmp"), bmpBytes(t, 16, 16))
	writeFile(t, filepath.Join(shared, "sky.png"), pngBytes(t, 32, 8))
	writeFile(t, filepath.Join(shared, "notes.txt"), []byte("hello"))
	writeFile(t, filepath.Join(shared, "broken.png"), []byte("not a png"))

	m := NewManager([]string{shared}, false, nil)

	tests := []struct {
		ref           string
		format        string
		width, height int
		found         bool
		wantErr       bool
	}{
		{"brick.tga", "tga", 8, 4, true, false},
		{`maps\WOOD.BMP`, "bmp", 16, 16, true, false},
		{`C:\3DSMAX\MAPS\sky.png`, "png", 32, 8, true, false},
		{"notes.txt", "txt", 0, 0, true, true},
		{"broken.png", "png", 0, 0, true, true},
		{"missing.tga", "", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			info := m.ProbeTexture(tt.ref, modelDir)
			if info.Found() != tt.found {
				t.Fatalf("Found = %v, want %v", info.Found(), tt.found)
			}
			if (info.Err != nil) != tt.wantErr {
				t.Errorf("Err = %v, wantErr %v", info.Err, tt.wantErr)
			}
			if info.Format != tt.format || info.Width != tt.width || info.Height != tt.height {
				t.Errorf("info = %+v", info)
			}
			if tt.found && info.Size == 0 {
				t.Error("size not reported")
			}
		})
	}
}

func TestResolveSearchOrder(t *testing.T) {
	modelDir := t.TempDir()
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "a.png"), []byte("1"))
	writeFile(t, filepath.Join(second, "a.png"), []byte("2"))
	writeFile(t, filepath.Join(modelDir, "b.png"), []byte("3"))

	m := NewManager([]string{first}, false, nil)
	m.AddSearchPath(second)

	if got, err := m.Resolve("a.png", modelDir); err != nil || got != filepath.Join(first, "a.png") {
		t.Errorf("Resolve(a.png) = %q, %v", got, err)
	}
	if got, err := m.Resolve("B.PNG", modelDir); err != nil || filepath.Dir(got) != modelDir {
		t.Errorf("Resolve(B.PNG) = %q, %v", got, err)
	}
	if _, err := m.Resolve("", modelDir); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty ref: err = %v", err)
	}
	if len(m.SearchPaths()) != 2 {
		t.Errorf("search paths = %v", m.SearchPaths())
	}
}
