package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/internal/assets"
	"github.com/Faultbox/scene3ds/internal/logger"
	"github.com/Faultbox/scene3ds/pkg/scene"
	"github.com/Faultbox/scene3ds/pkg/threeds"
)

// loaded is an imported file together with its decoded model.
type loaded struct {
	path      string
	fileSize  int64
	data      []byte
	model     *threeds.Model
	scene     *scene.Scene
	modelName string
}

func (t *tool) load(path string) (*loaded, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := t.assets.Load(path)
	if err != nil {
		return nil, err
	}
	opts := t.cfg.ImportOptions(logger.Named("import").With(zap.String("file", path)))
	model, err := threeds.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s := threeds.Build(model, opts)
	logger.Sugar.Debugw("loaded model",
		"file", path, "bytes", len(data), "meshes", len(s.Meshes), "warnings", model.Warnings)
	return &loaded{
		path:      path,
		fileSize:  st.Size(),
		data:      data,
		model:     model,
		scene:     s,
		modelName: assets.ModelName(path),
	}, nil
}

// fileArg parses a command's flags and returns its single file argument.
func fileArg(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s needs exactly one file: %w", fs.Name(), errUsage)
	}
	return fs.Arg(0), nil
}

func (t *tool) cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	l, err := t.load(path)
	if err != nil {
		return err
	}
	m, s := l.model, l.scene

	w := t.out
	fmt.Fprintf(w, "File:         %s\n", l.path)
	if int64(len(l.data)) != l.fileSize {
		fmt.Fprintf(w, "Size:         %s (%s decompressed)\n",
			humanize.Bytes(uint64(l.fileSize)), humanize.Bytes(uint64(len(l.data))))
	} else {
		fmt.Fprintf(w, "Size:         %s\n", humanize.Bytes(uint64(l.fileSize)))
	}
	fmt.Fprintf(w, "Version:      %d (mesh %d)\n", m.Version, m.MeshVersion)
	if m.MasterScale.Present {
		fmt.Fprintf(w, "Master scale: %g\n", m.MasterScale.Value)
	} else {
		fmt.Fprintln(w, "Master scale: (none)")
	}
	fmt.Fprintf(w, "Nodes:        %s\n", humanize.Comma(int64(s.NodeCount())))
	fmt.Fprintf(w, "Meshes:       %s\n", humanize.Comma(int64(len(s.Meshes))))
	fmt.Fprintf(w, "Materials:    %s\n", humanize.Comma(int64(len(s.Materials))))
	fmt.Fprintf(w, "Vertices:     %s\n", humanize.Comma(int64(s.VertexCount())))
	fmt.Fprintf(w, "Faces:        %s\n", humanize.Comma(int64(s.FaceCount())))
	if s.BackgroundImage != "" {
		fmt.Fprintf(w, "Background:   %s\n", s.BackgroundImage)
	}
	fmt.Fprintf(w, "Warnings:     %d\n", m.Warnings)
	return nil
}

func (t *tool) cmdTree(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	l, err := t.load(path)
	if err != nil {
		return err
	}
	s := l.scene
	s.Root.Walk(func(n *scene.Node, depth int) bool {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(t.out, "%s%s\n", indent, n.Name)
		for _, mi := range n.Meshes {
			mesh := s.Meshes[mi]
			fmt.Fprintf(t.out, "%s  * %s: %d vertices, %d faces, material %s\n",
				indent, mesh.Name, len(mesh.Positions), len(mesh.Faces), s.Materials[mesh.MaterialIndex].Name)
		}
		return true
	})
	return nil
}

func (t *tool) cmdChunks(args []string) error {
	fs := flag.NewFlagSet("chunks", flag.ContinueOnError)
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	data, err := t.assets.Load(path)
	if err != nil {
		return err
	}
	root, err := threeds.ReadChunkTree(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	printChunks(t.out, root)
	return nil
}

func printChunks(w io.Writer, root *threeds.ChunkNode) {
	root.Walk(func(n *threeds.ChunkNode, depth int) {
		h := n.Header
		line := fmt.Sprintf("%s%-16s 0x%04X  offset %-8d length %d",
			strings.Repeat("  ", depth), h.Kind, uint16(h.Kind), h.Offset, h.Length)
		if n.Damaged {
			line += "  (damaged)"
		}
		fmt.Fprintln(w, line)
	})
}

func (t *tool) cmdTextures(args []string) error {
	fs := flag.NewFlagSet("textures", flag.ContinueOnError)
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	l, err := t.load(path)
	if err != nil {
		return err
	}

	refs := textureRefs(l.scene)
	if len(refs) == 0 {
		fmt.Fprintln(t.out, "No texture references")
		return nil
	}

	modelDir := filepath.Dir(path)
	missing := 0
	for _, ref := range refs {
		info := t.assets.ProbeTexture(ref.path, modelDir)
		status := "missing"
		switch {
		case info.Found() && info.Err == nil:
			status = fmt.Sprintf("%s %dx%d %s", info.Format, info.Width, info.Height, humanize.Bytes(uint64(info.Size)))
		case info.Found():
			status = fmt.Sprintf("unreadable: %v", info.Err)
		default:
			missing++
		}
		fmt.Fprintf(t.out, "%-24s %-12s %s  %s\n", ref.owner, ref.slot, ref.path, status)
	}
	fmt.Fprintf(t.out, "\n%d references, %d missing\n", len(refs), missing)
	return nil
}

type textureRef struct {
	owner string
	slot  string
	path  string
}

// textureRefs lists every texture path in s, material by material with slots
// in name order, followed by the background image.
func textureRefs(s *scene.Scene) []textureRef {
	var refs []textureRef
	for _, mat := range s.Materials {
		slots := make([]string, 0, len(mat.Textures))
		for slot := range mat.Textures {
			slots = append(slots, string(slot))
		}
		sort.Strings(slots)
		for _, slot := range slots {
			refs = append(refs, textureRef{
				owner: mat.Name,
				slot:  slot,
				path:  mat.Textures[scene.TextureSlot(slot)].Path,
			})
		}
	}
	if s.BackgroundImage != "" {
		refs = append(refs, textureRef{owner: "(scene)", slot: "background", path: s.BackgroundImage})
	}
	return refs
}
