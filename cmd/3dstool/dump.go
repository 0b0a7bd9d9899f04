package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scene3ds/pkg/math"
	"github.com/Faultbox/scene3ds/pkg/scene"
)

// sceneDump is the YAML summary written by the dump command.
type sceneDump struct {
	Model      string         `yaml:"model"`
	Ambient    [3]float32     `yaml:"ambient"`
	Background string         `yaml:"background,omitempty"`
	Warnings   int            `yaml:"warnings"`
	Materials  []materialDump `yaml:"materials"`
	Meshes     []meshDump     `yaml:"meshes"`
	Root       nodeDump       `yaml:"root"`
}

type materialDump struct {
	Name      string            `yaml:"name"`
	Diffuse   [3]float32        `yaml:"diffuse"`
	Specular  [3]float32        `yaml:"specular"`
	Emissive  [3]float32        `yaml:"emissive,omitempty"`
	Shininess float32           `yaml:"shininess"`
	Opacity   float32           `yaml:"opacity"`
	Shading   string            `yaml:"shading"`
	TwoSided  bool              `yaml:"two_sided,omitempty"`
	Textures  map[string]string `yaml:"textures,omitempty"`
}

type meshDump struct {
	Name     string     `yaml:"name"`
	Material string     `yaml:"material"`
	Vertices int        `yaml:"vertices"`
	Faces    int        `yaml:"faces"`
	UVs      bool       `yaml:"uvs"`
	Min      [3]float32 `yaml:"min"`
	Max      [3]float32 `yaml:"max"`
}

type nodeDump struct {
	Name        string     `yaml:"name"`
	Translation [3]float32 `yaml:"translation"`
	Meshes      []string   `yaml:"meshes,omitempty"`
	Children    []nodeDump `yaml:"children,omitempty"`
}

func (t *tool) cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	output := fs.String("o", "", "Write YAML to this file instead of stdout")
	path, err := fileArg(fs, args)
	if err != nil {
		return err
	}
	l, err := t.load(path)
	if err != nil {
		return err
	}

	d := buildDump(filepath.Base(l.modelName), l.scene)
	d.Warnings = l.model.Warnings
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	if *output == "" {
		_, err = t.out.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", *output, err)
	}
	fmt.Fprintf(t.out, "Wrote %s\n", *output)
	return nil
}

func buildDump(name string, s *scene.Scene) sceneDump {
	d := sceneDump{
		Model:      name,
		Ambient:    rgb(s.Ambient),
		Background: s.BackgroundImage,
	}
	for _, m := range s.Materials {
		md := materialDump{
			Name:      m.Name,
			Diffuse:   rgb(m.Diffuse),
			Specular:  rgb(m.Specular),
			Emissive:  rgb(m.Emissive),
			Shininess: m.Shininess,
			Opacity:   m.Opacity,
			Shading:   m.Shading.String(),
			TwoSided:  m.TwoSided,
		}
		if len(m.Textures) > 0 {
			md.Textures = make(map[string]string, len(m.Textures))
			for slot, tex := range m.Textures {
				md.Textures[string(slot)] = tex.Path
			}
		}
		d.Materials = append(d.Materials, md)
	}
	for _, m := range s.Meshes {
		lo, hi := bounds(m.Positions)
		d.Meshes = append(d.Meshes, meshDump{
			Name:     m.Name,
			Material: s.Materials[m.MaterialIndex].Name,
			Vertices: len(m.Positions),
			Faces:    len(m.Faces),
			UVs:      len(m.UVs) > 0,
			Min:      [3]float32{lo.X, lo.Y, lo.Z},
			Max:      [3]float32{hi.X, hi.Y, hi.Z},
		})
	}
	if s.Root != nil {
		d.Root = dumpNode(s, s.Root)
	}
	return d
}

func dumpNode(s *scene.Scene, n *scene.Node) nodeDump {
	tr := n.Transform.TransformVec3(math.Vec3{})
	nd := nodeDump{
		Name:        n.Name,
		Translation: [3]float32{tr.X, tr.Y, tr.Z},
	}
	for _, mi := range n.Meshes {
		nd.Meshes = append(nd.Meshes, s.Meshes[mi].Name)
	}
	sort.Strings(nd.Meshes)
	for _, child := range n.Children {
		nd.Children = append(nd.Children, dumpNode(s, child))
	}
	return nd
}

func rgb(c scene.Color) [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// bounds returns the axis-aligned box around points, or zeros if empty.
func bounds(points []math.Vec3) (lo, hi math.Vec3) {
	if len(points) == 0 {
		return
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}
