// Package threeds imports 3D Studio (.3ds) scene files.
//
// A file is a tree of chunks. Parse decodes the chunks it understands into a
// Model and skips the rest, so unknown or damaged chunks cost at most their
// own subtree. Import then normalizes every mesh, rebuilds the keyframer node
// hierarchy and converts the result into a scene.Scene.
package threeds

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/pkg/encoding"
	"github.com/Faultbox/scene3ds/pkg/scene"
)

// Options configures parsing and import.
type Options struct {
	// Logger receives recovered anomalies at Warn and progress at Debug.
	// Nil discards everything.
	Logger *zap.Logger

	// NameEncoding is the code page of object, material and texture names.
	// Empty means encoding.DefaultCodePage.
	NameEncoding string

	// KeepCorners skips merging vertices that are identical after
	// normalization, leaving one vertex per face corner.
	KeepCorners bool
}

// DefaultOptions returns options with a no-op logger and the default code
// page. The zero Options behaves the same.
func DefaultOptions() Options {
	return Options{
		Logger:       zap.NewNop(),
		NameEncoding: encoding.DefaultCodePage,
	}
}

// Import parses a 3DS buffer and converts it into a scene. It fails only when
// the top-level chunk is unusable; see Parse.
func Import(data []byte, opts Options) (*scene.Scene, error) {
	model, err := Parse(data, opts)
	if err != nil {
		return nil, err
	}
	return Build(model, opts), nil
}

// Build normalizes the meshes of a parsed model in place, rebuilds its node
// hierarchy and converts it into a scene. Repairs are added to
// model.Warnings.
func Build(model *Model, opts Options) *scene.Scene {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for _, mesh := range model.Meshes {
		st := NormalizeMesh(mesh, model.Materials, !opts.KeepCorners)
		if st.ClampedIndices > 0 || st.DroppedFaces > 0 || st.UVsResized {
			model.Warnings++
			log.Warn("repaired mesh",
				zap.String("mesh", mesh.Name),
				zap.Int("clamped_indices", st.ClampedIndices),
				zap.Int("dropped_faces", st.DroppedFaces),
				zap.Bool("uvs_resized", st.UVsResized))
		}
		log.Debug("normalized mesh",
			zap.String("mesh", mesh.Name),
			zap.Int("vertices_before", st.VerticesBefore),
			zap.Int("vertices_after", st.VerticesAfter),
			zap.Int("faces", len(mesh.Faces)),
			zap.Bool("normals_computed", st.NormalsComputed))
	}

	graph := BuildNodeGraph(model.Nodes)
	for _, i := range graph.Unresolved {
		model.Warnings++
		log.Warn("node has no parent at the preceding depth, attaching to root",
			zap.String("node", model.Nodes[i].DisplayName()),
			zap.Int16("hierarchy", model.Nodes[i].Hierarchy))
	}

	s := Convert(model, graph, log)
	log.Debug("imported 3DS scene",
		zap.Int("nodes", s.NodeCount()),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
		zap.Int("warnings", model.Warnings))
	return s
}

// ImportFile imports a 3DS file from disk.
func ImportFile(path string, opts Options) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading 3DS file: %w", err)
	}
	return Import(data, opts)
}
